package markup

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"#000000", 0x000000},
		{"black", 0x000000},
		{"#ffffff", 0xffffff},
		{" WHITe ", 0xffffff},
		{"#abc", 0xaabbcc},
		{"light golden rod", 0xfafad2},
		{"rgb(255, 0, 51%)", 0xff0082},
		{"hsl(64, 35%, 75%)", 0xd2d5a8},
		{"hsl(120, 64%, 100%)", 0xffffff},
		{"hsl(120, 64%, 10%)", 0x092809},
		{"rgba(0, 127, 51%, 0.51)", 0x007f82},
		{"hsla(64, 35%, 75%, 0.51)", 0xd2d5a8},
		{"Rebecca Purple", 0x663399},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if !ok {
				t.Fatalf("ParseColor(%q) failed", tt.in)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %06x, want %06x", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorRejects(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#zzzzzz", "rgb(1, 2)", "hsl(a, 1, 2)", "rgb 1 2 3", "notacolor"} {
		if got, ok := ParseColor(in); ok {
			t.Errorf("ParseColor(%q) = %06x, want failure", in, got)
		}
	}
}

func TestNamedColorTable(t *testing.T) {
	if got := len(namedColors); got != 148 {
		t.Errorf("len(namedColors) = %d, want 148", got)
	}
	// "dark" prefixes many names; the alphabetically first wins.
	got, ok := ParseColor("dark")
	if !ok || got != namedColors["darkblue"] {
		t.Errorf("ParseColor(dark) = %06x, want darkblue", got)
	}
}
