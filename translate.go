package tmi

import (
	"strconv"
	"strings"
)

// handleFrame classifies one parsed frame and either advances the
// handshake or emits the corresponding typed event. Commands outside the
// Twitch subset are ignored without error.
func (e *Engine) handleFrame(f Frame) {
	switch f.Command {
	case RplEndOfMotd:
		e.handleEndOfMotd()
	case CmdPing:
		if len(f.Params) >= 1 {
			e.send(pongLine(f.Params[0]))
		}
	case CmdCap:
		e.handleCap(f)
	case CmdJoin:
		if nick, ok := prefixNick(f.Prefix); ok && len(f.Params) >= 1 {
			e.sink.OnJoin(Join{Channel: stripChannel(f.Params[0]), User: nick})
		}
	case CmdPart:
		if nick, ok := prefixNick(f.Prefix); ok && len(f.Params) >= 1 {
			e.sink.OnLeave(Leave{Channel: stripChannel(f.Params[0]), User: nick})
		}
	case CmdPrivmsg:
		e.handlePrivmsg(f)
	case CmdWhisper:
		if nick, ok := prefixNick(f.Prefix); ok && len(f.Params) >= 2 {
			e.sink.OnWhisper(Whisper{
				User:    nick,
				Message: f.Params[1],
				Tags:    decodeTags(f.RawTags),
			})
		}
	case CmdNotice:
		e.handleNotice(f)
	case CmdHostTarget:
		e.handleHostTarget(f)
	case CmdRoomState:
		e.handleRoomState(f)
	case CmdClearChat:
		e.handleClearChat(f)
	case CmdClearMsg:
		e.handleClearMsg(f)
	case CmdMode:
		e.handleMode(f)
	case CmdGlobalUserState:
		e.sink.OnUserState(UserState{Global: true, Tags: decodeTags(f.RawTags)})
	case CmdUserState:
		if len(f.Params) >= 1 {
			e.sink.OnUserState(UserState{
				Channel: stripChannel(f.Params[0]),
				Tags:    decodeTags(f.RawTags),
			})
		}
	case CmdReconnect:
		e.sink.OnDoom()
	case CmdUserNotice:
		e.handleUserNotice(f)
	}
}

func (e *Engine) handlePrivmsg(f Frame) {
	nick, ok := prefixNick(f.Prefix)
	if !ok || len(f.Params) < 2 {
		return
	}
	target, content := f.Params[0], f.Params[1]
	tags := decodeTags(f.RawTags)

	m := Message{
		User:      nick,
		Content:   content,
		MessageID: tags.AllTags["id"],
		Tags:      tags,
	}
	if bits, err := strconv.Atoi(tags.AllTags["bits"]); err == nil {
		m.Bits = bits
	}

	// "\x01ACTION <text>\x01" is a /me message.
	if len(content) >= 2 && content[0] == 0x01 && content[len(content)-1] == 0x01 {
		if inner := content[1 : len(content)-1]; strings.HasPrefix(inner, "ACTION") {
			m.IsAction = true
			m.Content = strings.TrimPrefix(strings.TrimPrefix(inner, "ACTION"), " ")
		}
	}

	if strings.HasPrefix(target, "#") {
		m.Channel = target[1:]
		e.sink.OnMessage(m)
		return
	}
	m.Channel = target
	e.sink.OnPrivateMessage(PrivateMessage(m))
}

func (e *Engine) handleNotice(f Frame) {
	if len(f.Params) < 2 {
		return
	}
	target, content := f.Params[0], f.Params[1]
	tags := decodeTags(f.RawTags)

	n := Notice{ID: tags.AllTags["msg-id"], Message: content}
	if strings.HasPrefix(target, "#") {
		n.Channel = target[1:]
	}
	e.sink.OnNotice(n)

	// an authentication rejection arrives as a NOTICE before 376 ever
	// does; the parked MOTD awaiter must not be left to time out.
	if !e.state.loggedIn && (content == "Login authentication failed" || content == "Login unsuccessful") {
		e.state.awaiting.take(actionAwaitingMotd)
		e.sink.OnLoggedOut()
	}
}

func (e *Engine) handleHostTarget(f Frame) {
	if len(f.Params) < 2 {
		return
	}
	h := Host{Hosting: stripChannel(f.Params[0])}
	fields := strings.Fields(f.Params[1])
	if len(fields) == 0 {
		return
	}
	if fields[0] != "-" {
		h.On = true
		h.BeingHosted = fields[0]
	}
	if len(fields) >= 2 {
		if viewers, err := strconv.Atoi(fields[1]); err == nil {
			h.Viewers = viewers
		}
	}
	e.sink.OnHost(h)
}

func (e *Engine) handleRoomState(f Frame) {
	if len(f.Params) < 1 {
		return
	}
	channel := stripChannel(f.Params[0])
	tags := decodeTags(f.RawTags)
	for _, key := range roomModeKeys {
		value, ok := tags.AllTags[key]
		if !ok {
			continue
		}
		rm := RoomModeChange{
			Channel:   channel,
			ChannelID: tags.ChannelID,
			Mode:      key,
		}
		if p, err := strconv.Atoi(value); err == nil {
			rm.Parameter = p
		}
		e.sink.OnRoomModeChange(rm)
	}
}

func (e *Engine) handleClearChat(f Frame) {
	if len(f.Params) < 1 {
		return
	}
	tags := decodeTags(f.RawTags)
	// CLEARCHAT identifies the affected user with target-user-id rather
	// than user-id.
	tags.UserID = 0
	if id, err := strconv.ParseUint(tags.AllTags["target-user-id"], 10, 64); err == nil {
		tags.UserID = id
	}

	c := Clear{Channel: stripChannel(f.Params[0]), Tags: tags}
	if len(f.Params) < 2 {
		c.Type = ClearAll
		e.sink.OnClear(c)
		return
	}

	c.User = f.Params[1]
	c.Reason = unescapeSpaces(tags.AllTags["ban-reason"])
	duration, hasDuration := tags.AllTags["ban-duration"]
	if !hasDuration {
		c.Type = Ban
		e.sink.OnClear(c)
		return
	}
	c.Type = Timeout
	if d, err := strconv.Atoi(duration); err == nil {
		c.DurationSeconds = d
	}
	e.sink.OnClear(c)
}

func (e *Engine) handleClearMsg(f Frame) {
	if len(f.Params) < 2 {
		return
	}
	tags := decodeTags(f.RawTags)
	e.sink.OnClear(Clear{
		Type:                    ClearMessage,
		Channel:                 stripChannel(f.Params[0]),
		User:                    tags.AllTags["login"],
		OffendingMessageID:      tags.AllTags["target-msg-id"],
		OffendingMessageContent: f.Params[1],
		Tags:                    tags,
	})
}

func (e *Engine) handleMode(f Frame) {
	if len(f.Params) < 3 {
		return
	}
	switch f.Params[1] {
	case "+o":
		e.sink.OnMod(Mod{Channel: stripChannel(f.Params[0]), User: f.Params[2], IsMod: true})
	case "-o":
		e.sink.OnMod(Mod{Channel: stripChannel(f.Params[0]), User: f.Params[2]})
	}
}

// handleUserNotice dispatches on the msg-id tag, which subtypes the
// announcement: subscriptions in their four variants, raids, and
// rituals. An unknown msg-id is reported as an unknown sub only when the
// frame carries a sub plan, since Twitch adds subscription msg-id values
// more often than whole new announcement families.
func (e *Engine) handleUserNotice(f Frame) {
	if len(f.Params) < 1 {
		return
	}
	channel := stripChannel(f.Params[0])
	tags := decodeTags(f.RawTags)
	var userMessage string
	if len(f.Params) >= 2 {
		userMessage = f.Params[1]
	}

	switch tags.AllTags["msg-id"] {
	case msgIDRaid:
		e.sink.OnRaid(Raid{
			Channel:       channel,
			Raider:        tags.AllTags["login"],
			Viewers:       tags.AllTags["msg-param-viewerCount"],
			SystemMessage: unescapeSpaces(tags.AllTags["system-msg"]),
			Tags:          tags,
		})
		return
	case msgIDRitual:
		e.sink.OnRitual(Ritual{
			Channel:       channel,
			User:          tags.AllTags["login"],
			Ritual:        tags.AllTags["msg-param-ritual-name"],
			SystemMessage: unescapeSpaces(tags.AllTags["system-msg"]),
			Tags:          tags,
		})
		return
	}

	s := SubEvent{
		Channel:       channel,
		User:          tags.AllTags["login"],
		UserMessage:   userMessage,
		SystemMessage: unescapeSpaces(tags.AllTags["system-msg"]),
		PlanName:      tags.AllTags["msg-param-sub-plan-name"],
		PlanID:        tags.AllTags["msg-param-sub-plan"],
		Tags:          tags,
	}
	switch tags.AllTags["msg-id"] {
	case msgIDSub:
		s.Type = Sub
	case msgIDResub:
		s.Type = Resub
		s.Months = tags.AllTags["msg-param-months"]
	case msgIDSubGift:
		s.Type = Gifted
		s.RecipientDisplayName = tags.AllTags["msg-param-recipient-display-name"]
		s.RecipientUserName = tags.AllTags["msg-param-recipient-user-name"]
		s.RecipientID = tags.AllTags["msg-param-recipient-id"]
		s.SenderCount = tags.AllTags["msg-param-sender-count"]
	case msgIDSubMysteryGift:
		s.Type = MysteryGift
		s.MassGiftCount = tags.AllTags["msg-param-mass-gift-count"]
		s.SenderCount = tags.AllTags["msg-param-sender-count"]
	default:
		if s.PlanID == "" {
			return
		}
		s.Type = UnknownSub
	}
	e.sink.OnSub(s)
}

// prefixNick extracts the nickname from a "<nick>!<user>@<host>" prefix.
// Frames whose prefix carries no nickname (server-originated lines) fail
// the extraction.
func prefixNick(prefix string) (string, bool) {
	i := strings.IndexByte(prefix, '!')
	if i <= 0 {
		return "", false
	}
	return prefix[:i], true
}

// stripChannel removes the leading '#' from a channel parameter.
func stripChannel(s string) string {
	return strings.TrimPrefix(s, "#")
}
