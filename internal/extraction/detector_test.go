package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDetect(t *testing.T) {
	detector := NewDetector("@Todo")

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"marker at start", "@Todo submit report tomorrow", true},
		{"marker in middle", "hey @Todo call mom", true},
		{"lowercase marker", "@todo buy milk", true},
		{"uppercase marker", "@TODO buy milk", true},
		{"no marker", "hello there", false},
		{"empty text", "", false},
		{"partial marker", "@To do something", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectDefaultMarker(t *testing.T) {
	detector := NewDetector("")
	if detector.Marker() != DefaultMarker {
		t.Errorf("expected default marker %q, got %q", DefaultMarker, detector.Marker())
	}
	if !detector.Detect("@todo something") {
		t.Error("default marker should match @todo")
	}
}

func TestStrip(t *testing.T) {
	detector := NewDetector("@Todo")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"marker at start", "@Todo submit report", "submit report"},
		{"lowercase marker", "@todo submit report", "submit report"},
		{"marker in middle", "please @Todo call mom", "please  call mom"},
		{"multiple markers", "@Todo @todo do it", "do it"},
		{"no marker", "hello there", "hello there"},
		{"only marker", "@Todo", ""},
		// 大小写映射会改变某些rune的字节长度（Ⱥ变宽，K开尔文符号变窄），
		// 剥离必须在原串上定位，不能用小写副本的偏移量
		{"marker after width-growing runes", strings.Repeat("Ⱥ", 10) + "@Todo xyz", strings.Repeat("Ⱥ", 10) + " xyz"},
		{"marker after width-shrinking runes", "KKK @Todo buy milk", "KKK  buy milk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Strip(tt.text)
			if got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Strip(%q) produced invalid UTF-8: %q", tt.text, got)
			}
		})
	}
}
