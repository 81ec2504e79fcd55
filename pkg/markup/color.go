package markup

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// ParseColor parses a CSS color string into 0xRRGGBB. ok is false when the
// string is not a recognizable color.
func ParseColor(s string) (rgb uint32, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return 0, false
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb"):
		return parseRGB(s)
	case strings.HasPrefix(s, "hsl"):
		return parseHSL(s)
	default:
		return lookupName(s)
	}
}

func parseHex(hex string) (uint32, bool) {
	switch {
	case len(hex) == 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case len(hex) < 3:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v) & 0xffffff, true
}

func parseRGB(s string) (uint32, bool) {
	args, ok := funcArgs(s)
	if !ok || len(args) < 3 {
		return 0, false
	}
	var channels [3]uint32
	for i := range channels {
		v, ok := parse255(args[i])
		if !ok {
			return 0, false
		}
		channels[i] = v
	}
	return channels[0]<<16 | channels[1]<<8 | channels[2], true
}

func parseHSL(s string) (uint32, bool) {
	args, ok := funcArgs(s)
	if !ok || len(args) < 3 {
		return 0, false
	}
	hue, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, false
	}
	hue = max(0, min(360, hue))
	sat, ok := parse255(args[1])
	if !ok {
		return 0, false
	}
	light, ok := parse255(args[2])
	if !ok {
		return 0, false
	}
	r := hslChannel(0, hue, sat, light)
	g := hslChannel(8, hue, sat, light)
	b := hslChannel(4, hue, sat, light)
	return r<<16 | g<<8 | b, true
}

// hslChannel is f(n) of the standard HSL to RGB conversion, with saturation
// and lightness given on a 0-255 scale.
func hslChannel(n, hue int, sat, light uint32) uint32 {
	h := float64(hue)
	s := float64(sat) / 255
	l := float64(light) / 255
	a := s * math.Min(l, 1-l)
	k := math.Mod(float64(n)+h/30, 12)
	f := l - a*math.Max(-1, math.Min(k-3, math.Min(9-k, 1)))
	return uint32(int(f*255)) & 0xff
}

// funcArgs splits the comma separated arguments of "name(a, b, c)".
func funcArgs(s string) ([]string, bool) {
	start := strings.IndexByte(s, '(')
	end := strings.IndexByte(s, ')')
	if start < 0 || end < start {
		return nil, false
	}
	return strings.Split(s[start+1:end], ","), true
}

// parse255 reads "0-255" or "n%" of 255. Out of range values wrap.
func parse255(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if pct, found := strings.CutSuffix(s, "%"); found {
		n, err := strconv.Atoi(pct)
		if err != nil {
			return 0, false
		}
		return uint32(int(float64(n)/100*255)) & 0xff, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return uint32(n) & 0xff, true
}

var sortedNames = sync.OnceValue(func() []string {
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
})

func lookupName(s string) (uint32, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if v, ok := namedColors[s]; ok {
		return v, true
	}
	for _, name := range sortedNames() {
		if strings.HasPrefix(name, s) {
			return namedColors[name], true
		}
	}
	return 0, false
}
