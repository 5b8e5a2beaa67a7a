package tmi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTags(t *testing.T) {
	raw := "badges=moderator/1,subscriber/12,partner/1;color=#5B99FF;display-name=FooBarMaster;" +
		"emotes=30259:6-12,54-60/64138:29-37;id=1122aa44-55ff-ee88-11cc-1122dd44bb66;" +
		"room-id=12345;tmi-sent-ts=1539652354185;user-id=54321"

	info := decodeTags(raw)

	assert.Equal(t, "FooBarMaster", info.DisplayName)
	assert.Equal(t, map[string]struct{}{
		"moderator/1":   {},
		"subscriber/12": {},
		"partner/1":     {},
	}, info.Badges)
	assert.Equal(t, map[string][]EmoteSpan{
		"30259": {{Begin: 6, End: 12}, {Begin: 54, End: 60}},
		"64138": {{Begin: 29, End: 37}},
	}, info.Emotes)
	assert.Equal(t, uint32(0x5B99FF), info.Color)
	assert.Equal(t, int64(1539652354), info.TimestampSeconds)
	assert.Equal(t, 185, info.TimestampMillisFraction)
	assert.Equal(t, uint64(12345), info.ChannelID)
	assert.Equal(t, uint64(54321), info.UserID)

	// AllTags holds every tag verbatim, including ones with no typed
	// projection.
	require.Len(t, info.AllTags, 8)
	for _, fragment := range strings.Split(raw, ";") {
		key, value, ok := cutFirst(fragment, '=')
		require.True(t, ok)
		assert.Equal(t, value, info.AllTags[key], "tag %q", key)
	}
}

func TestDecodeTagsMalformed(t *testing.T) {
	info := decodeTags("color=chartreuse;emotes=1:x-y,3-4/:5-6/25:0-4;tmi-sent-ts=yesterday;room-id=;novalue;user-id=54321")

	assert.Equal(t, uint32(defaultColor), info.Color, "unparseable color keeps the default")
	assert.Equal(t, map[string][]EmoteSpan{
		"1":  {{Begin: 3, End: 4}},
		"25": {{Begin: 0, End: 4}},
	}, info.Emotes, "malformed emote fragments are skipped without aborting the others")
	assert.Zero(t, info.TimestampSeconds)
	assert.Zero(t, info.TimestampMillisFraction)
	assert.Zero(t, info.ChannelID)
	assert.Equal(t, uint64(54321), info.UserID)

	_, present := info.AllTags["novalue"]
	assert.False(t, present, "fragments without '=' are skipped entirely")
	assert.Equal(t, "chartreuse", info.AllTags["color"], "even unparseable values are preserved verbatim")
}

func TestDecodeTagsEmpty(t *testing.T) {
	info := decodeTags("")
	assert.Equal(t, uint32(defaultColor), info.Color)
	assert.Empty(t, info.AllTags)
	assert.Empty(t, info.Badges)
	assert.Empty(t, info.Emotes)
}

func TestUnescapeSpaces(t *testing.T) {
	tests := []struct{ in, want string }{
		{`Not\sfunny`, "Not funny"},
		{`a\\b`, `a\b`},
		{`a\\\sb`, `a\ b`},
		{`trailing\`, `trailing\`},
		{`\x`, "x"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unescapeSpaces(tt.in), "in %q", tt.in)
	}
}

// unescapeSpaces is the left inverse of escaping {space -> \s, \ -> \\}.
func TestUnescapeSpacesRoundTrip(t *testing.T) {
	escape := strings.NewReplacer(`\`, `\\`, " ", `\s`)
	for _, s := range []string{
		"Not funny",
		`back\slash and \s literal`,
		"  doubled  spaces  ",
		`\`,
		"",
	} {
		assert.Equal(t, s, unescapeSpaces(escape.Replace(s)), "s %q", s)
	}
}
