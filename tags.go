package tmi

import (
	"strconv"
	"strings"
)

// EmoteSpan is one occurrence of an emote within a message, given as the
// indices of its first and last characters.
type EmoteSpan struct {
	Begin int
	End   int
}

// TagsInfo is the typed projection of a frame's IRCv3 tags. AllTags always
// holds the verbatim (still wire-escaped) name/value of every tag present
// on the line, including unknown ones; the fields above it are derived
// from AllTags and degrade to their defaults on any parse failure.
type TagsInfo struct {
	DisplayName string
	Badges      map[string]struct{}
	Emotes      map[string][]EmoteSpan
	Color       uint32
	// TimestampSeconds and TimestampMillisFraction are derived from
	// tmi-sent-ts: seconds since epoch, and the 0..999 millisecond
	// remainder.
	TimestampSeconds        int64
	TimestampMillisFraction int
	ChannelID               uint64
	UserID                  uint64
	AllTags                 map[string]string
}

const defaultColor = 0xFFFFFF

// decodeTags parses the raw tag section of a frame (the text between the
// leading '@' and the following SP, not including either) into a
// TagsInfo. decodeTags never fails: malformed tags are skipped or left at
// their default value rather than aborting the parse.
func decodeTags(raw string) TagsInfo {
	info := TagsInfo{
		Badges:  make(map[string]struct{}),
		Emotes:  make(map[string][]EmoteSpan),
		Color:   defaultColor,
		AllTags: make(map[string]string),
	}
	if raw == "" {
		return info
	}

	for _, fragment := range strings.Split(raw, ";") {
		key, value, ok := cutFirst(fragment, '=')
		if !ok {
			continue
		}
		info.AllTags[key] = value

		switch key {
		case "badges":
			for _, b := range strings.Split(value, ",") {
				if b != "" {
					info.Badges[b] = struct{}{}
				}
			}
		case "color":
			if c, err := parseHexColor(value); err == nil {
				info.Color = c
			}
		case "display-name":
			info.DisplayName = value
		case "emotes":
			info.Emotes = parseEmotes(value)
		case "tmi-sent-ts":
			if ms, err := strconv.ParseUint(value, 10, 64); err == nil {
				info.TimestampSeconds = int64(ms / 1000)
				info.TimestampMillisFraction = int(ms % 1000)
			}
		case "room-id":
			if id, err := strconv.ParseUint(value, 10, 64); err == nil {
				info.ChannelID = id
			}
		case "user-id":
			if id, err := strconv.ParseUint(value, 10, 64); err == nil {
				info.UserID = id
			}
		}
	}

	return info
}

// cutFirst splits s at the first occurrence of sep, returning ok == false
// if sep does not appear (the fragment is skipped by the caller).
func cutFirst(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func parseHexColor(s string) (uint32, error) {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// parseEmotes decodes the emotes tag value:
// "<id>:<begin>-<end>,<begin>-<end>/<id>:<begin>-<end>".
// Any malformed fragment is skipped without aborting the others.
func parseEmotes(value string) map[string][]EmoteSpan {
	result := make(map[string][]EmoteSpan)
	if value == "" {
		return result
	}
	for _, entry := range strings.Split(value, "/") {
		id, instances, ok := cutFirst(entry, ':')
		if !ok || id == "" {
			continue
		}
		for _, instance := range strings.Split(instances, ",") {
			begin, end, ok := cutFirst(instance, '-')
			if !ok {
				continue
			}
			b, err1 := strconv.Atoi(begin)
			e, err2 := strconv.Atoi(end)
			if err1 != nil || err2 != nil {
				continue
			}
			result[id] = append(result[id], EmoteSpan{Begin: b, End: e})
		}
	}
	return result
}

// unescapeSpaces converts the Twitch tag-value escape sequence "\s" into a
// literal space and "\\" into a single backslash. A backslash preceding
// any other character is dropped, leaving that character unescaped. It is
// applied only to the ban-reason and system-msg tag values, per Twitch's
// wire format for those two fields.
func unescapeSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 's':
			b.WriteByte(' ')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}
