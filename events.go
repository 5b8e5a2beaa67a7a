package tmi

// Join is emitted when a user joins a channel.
type Join struct {
	Channel string
	User    string
}

// Leave is emitted when a user parts a channel.
type Leave struct {
	Channel string
	User    string
}

// Message is a chat message sent to a channel. PrivateMessage shares this
// shape but is fired when the PRIVMSG target was a user rather than a
// channel.
type Message struct {
	Channel   string
	User      string
	Content   string
	IsAction  bool
	MessageID string
	Bits      int
	Tags      TagsInfo
}

// PrivateMessage is a whisper-shaped PRIVMSG sent directly to our nickname
// rather than to a channel.
type PrivateMessage Message

// Whisper is a /w message.
type Whisper struct {
	User    string
	Message string
	Tags    TagsInfo
}

// Notice is a server NOTICE, including authentication failure notices that
// arrive before LoggedOut.
type Notice struct {
	ID      string
	Channel string
	Message string
}

// Host reports a HOSTTARGET announcement.
type Host struct {
	Hosting     string
	BeingHosted string
	On          bool
	Viewers     int
}

// RoomModeChange reports one changed room mode from a ROOMSTATE frame. A
// single ROOMSTATE carrying multiple mode keys produces one RoomModeChange
// per key.
type RoomModeChange struct {
	Channel   string
	ChannelID uint64
	Mode      string
	Parameter int
}

// ClearType distinguishes the four shapes of moderation clear event that
// can be derived from CLEARCHAT/CLEARMSG.
type ClearType int

const (
	ClearAll ClearType = iota
	ClearMessage
	Timeout
	Ban
)

func (t ClearType) String() string {
	switch t {
	case ClearAll:
		return "ClearAll"
	case ClearMessage:
		return "ClearMessage"
	case Timeout:
		return "Timeout"
	case Ban:
		return "Ban"
	default:
		return "Unknown"
	}
}

// Clear reports a moderation clear action: a full chat clear, a single
// message deletion, a timeout, or a ban.
type Clear struct {
	Type                    ClearType
	Channel                 string
	User                    string
	Reason                  string
	DurationSeconds         int
	OffendingMessageID      string
	OffendingMessageContent string
	Tags                    TagsInfo
}

// Mod reports a MODE +o/-o change in a channel.
type Mod struct {
	Channel string
	User    string
	IsMod   bool
}

// UserState reports our own state in a channel (USERSTATE) or globally
// (GLOBALUSERSTATE).
type UserState struct {
	Global  bool
	Channel string
	Tags    TagsInfo
}

// SubType distinguishes the USERNOTICE subscription-shaped msg-id values.
type SubType int

const (
	Sub SubType = iota
	Resub
	Gifted
	MysteryGift
	UnknownSub
)

func (t SubType) String() string {
	switch t {
	case Sub:
		return "Sub"
	case Resub:
		return "Resub"
	case Gifted:
		return "Gifted"
	case MysteryGift:
		return "MysteryGift"
	default:
		return "Unknown"
	}
}

// SubEvent reports a subscription, resub, gift sub, or mystery gift
// announcement carried by USERNOTICE.
type SubEvent struct {
	Type                 SubType
	Channel              string
	User                 string
	RecipientDisplayName string
	RecipientUserName    string
	RecipientID          string
	MassGiftCount        string
	SenderCount          string
	UserMessage          string
	SystemMessage        string
	PlanName             string
	PlanID               string
	Months               string
	Tags                 TagsInfo
}

// Raid reports a USERNOTICE raid announcement.
type Raid struct {
	Channel       string
	Raider        string
	Viewers       string
	SystemMessage string
	Tags          TagsInfo
}

// Ritual reports a USERNOTICE ritual announcement (e.g. "new_chatter").
type Ritual struct {
	Channel       string
	User          string
	Ritual        string
	SystemMessage string
	Tags          TagsInfo
}

// EventSink is implemented by callers to receive the engine's typed event
// stream. All methods are invoked from the engine's single worker
// goroutine, in the order the engine produces them, so an implementation
// may rely on serialized, non-reentrant calls but must not block for long
// (the engine makes no progress while a handler runs).
//
// Embed BaseEventSink to get no-op defaults for every method and override
// only the ones a particular caller cares about.
type EventSink interface {
	OnLoggedIn()
	OnLoggedOut()
	OnDoom()
	OnJoin(Join)
	OnLeave(Leave)
	OnMessage(Message)
	OnPrivateMessage(PrivateMessage)
	OnWhisper(Whisper)
	OnNotice(Notice)
	OnHost(Host)
	OnRoomModeChange(RoomModeChange)
	OnClear(Clear)
	OnMod(Mod)
	OnUserState(UserState)
	OnSub(SubEvent)
	OnRaid(Raid)
	OnRitual(Ritual)
}

// BaseEventSink implements EventSink with no-op methods. Embed it in a
// caller's sink type to avoid having to implement every method.
type BaseEventSink struct{}

func (BaseEventSink) OnLoggedIn()                     {}
func (BaseEventSink) OnLoggedOut()                    {}
func (BaseEventSink) OnDoom()                         {}
func (BaseEventSink) OnJoin(Join)                     {}
func (BaseEventSink) OnLeave(Leave)                   {}
func (BaseEventSink) OnMessage(Message)               {}
func (BaseEventSink) OnPrivateMessage(PrivateMessage) {}
func (BaseEventSink) OnWhisper(Whisper)               {}
func (BaseEventSink) OnNotice(Notice)                 {}
func (BaseEventSink) OnHost(Host)                     {}
func (BaseEventSink) OnRoomModeChange(RoomModeChange) {}
func (BaseEventSink) OnClear(Clear)                   {}
func (BaseEventSink) OnMod(Mod)                       {}
func (BaseEventSink) OnUserState(UserState)           {}
func (BaseEventSink) OnSub(SubEvent)                  {}
func (BaseEventSink) OnRaid(Raid)                     {}
func (BaseEventSink) OnRitual(Ritual)                 {}

var _ EventSink = BaseEventSink{}
