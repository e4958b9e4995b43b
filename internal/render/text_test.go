package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"hello", -3, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		got := Fit(tt.in, tt.width)
		assert.Equal(t, tt.want, got, "Fit(%q, %d)", tt.in, tt.width)
		assert.LessOrEqual(t, Width(got), max(tt.width, 0))
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", Pad("ab", 5))
	assert.Equal(t, "abcd…", Pad("abcdefgh", 5))
	assert.Equal(t, "", Pad("abc", 0))
}

func TestBand(t *testing.T) {
	tests := []struct {
		name        string
		left, right string
		width       int
		want        string
	}{
		{"both fit", "RCTOP", "[80x24]", 20, "RCTOP        [80x24]"},
		{"exactly one space", "abc", "xyz", 7, "abc xyz"},
		{"right dropped", "abc", "xyz", 6, "abc   "},
		{"left truncated and right dropped", "a long title", "meta", 8, "a long …"},
		{"no right side", "abc", "", 5, "abc  "},
		{"zero width", "abc", "xyz", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Band(tt.left, tt.right, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.width, Width(got))
		})
	}
}

func TestUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{59 * time.Second, "59s"},
		{90061 * time.Second, "1d 1h 1m 1s"},
		{8 * 24 * time.Hour, "1w 1d"},
		{(365*24 + 3) * time.Hour, "1y 1d 3h"},
		{2*time.Hour + 500*time.Millisecond, "2h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Uptime(tt.in), "Uptime(%v)", tt.in)
	}
}

func TestBytes(t *testing.T) {
	assert.Equal(t, "1000 B", Bytes(1000))
	assert.Equal(t, "1.0 KiB", Bytes(1024))
	assert.Equal(t, "1.5 GiB", Bytes(1536*1024*1024))
}
