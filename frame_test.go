package tmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameIncomplete(t *testing.T) {
	for _, buf := range []string{
		"",
		"PING",
		"PING :Are you there?",
		"@badges=;color=#FFFFFF :tmi.twitch.tv PRIVMSG #foo :partial\r",
		"\r",
	} {
		_, consumed, err := DecodeFrame([]byte(buf))
		assert.ErrorIs(t, err, ErrIncomplete, "buf %q", buf)
		assert.Zero(t, consumed, "buf %q", buf)
	}
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		line string
		want Frame
	}{
		{
			line: "PING :Are you there?",
			want: Frame{Command: "PING", Params: []string{"Are you there?"}},
		},
		{
			line: ":tmi.twitch.tv 376 foobar1124 :>",
			want: Frame{Prefix: "tmi.twitch.tv", Command: "376", Params: []string{"foobar1124", ">"}},
		},
		{
			line: ":tmi.twitch.tv CAP * LS :twitch.tv/membership twitch.tv/tags twitch.tv/commands",
			want: Frame{
				Prefix:  "tmi.twitch.tv",
				Command: "CAP",
				Params:  []string{"*", "LS", "twitch.tv/membership twitch.tv/tags twitch.tv/commands"},
			},
		},
		{
			line: "@ban-duration=1;room-id=12345 :tmi.twitch.tv CLEARCHAT #foobar1125 :foobar1126",
			want: Frame{
				RawTags: "ban-duration=1;room-id=12345",
				Prefix:  "tmi.twitch.tv",
				Command: "CLEARCHAT",
				Params:  []string{"#foobar1125", "foobar1126"},
			},
		},
		{
			// a trailing parameter may contain spaces and further colons.
			line: ":foo!foo@foo.tmi.twitch.tv PRIVMSG #bar :well: hello there",
			want: Frame{
				Prefix:  "foo!foo@foo.tmi.twitch.tv",
				Command: "PRIVMSG",
				Params:  []string{"#bar", "well: hello there"},
			},
		},
		{
			// a command with no parameters at all is a valid frame.
			line: ":tmi.twitch.tv RECONNECT",
			want: Frame{Prefix: "tmi.twitch.tv", Command: "RECONNECT"},
		},
		{
			// end of input before any command was accumulated.
			line: ":tmi.twitch.tv",
			want: Frame{},
		},
		{
			line: "@badges=broadcaster/1",
			want: Frame{},
		},
		{
			line: "",
			want: Frame{},
		},
	}
	for _, tt := range tests {
		buf := []byte(tt.line + "\r\n")
		frame, consumed, err := DecodeFrame(buf)
		require.NoError(t, err, "line %q", tt.line)
		assert.Equal(t, len(buf), consumed, "line %q", tt.line)
		assert.Equal(t, tt.want, frame, "line %q", tt.line)
	}
}

func TestDecodeFrameConsumesOneLine(t *testing.T) {
	buf := []byte("PING :one\r\nPING :two\r\n")

	frame, consumed, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, "one", frame.Params[0])

	frame, consumed2, err := DecodeFrame(buf[consumed:])
	require.NoError(t, err)
	assert.Equal(t, "two", frame.Params[0])
	assert.Equal(t, len(buf), consumed+consumed2)
}

// feeding a stream one byte at a time must produce the same frames as
// feeding it whole.
func TestDecodeFrameRestartable(t *testing.T) {
	stream := ":tmi.twitch.tv CAP * LS :twitch.tv/tags\r\n" +
		"@badges=moderator/1;color=#5B99FF :foobar1126!foobar1126@foobar1126.tmi.twitch.tv PRIVMSG #foobar1125 :Hello HeyGuys\r\n" +
		"PING :keepalive\r\n"

	var whole []Frame
	rest := []byte(stream)
	for len(rest) > 0 {
		frame, consumed, err := DecodeFrame(rest)
		require.NoError(t, err)
		whole = append(whole, frame)
		rest = rest[consumed:]
	}

	var split []Frame
	var buf []byte
	for i := 0; i < len(stream); i++ {
		buf = append(buf, stream[i])
		for {
			frame, consumed, err := DecodeFrame(buf)
			if err != nil {
				break
			}
			split = append(split, frame)
			buf = buf[consumed:]
		}
	}

	require.Equal(t, whole, split)
	assert.Empty(t, buf)
}
