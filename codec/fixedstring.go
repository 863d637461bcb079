package codec

import "fmt"

// FixedString is a zero-padded, fixed-width string codec. Strings
// longer than Width are a caller bug and panic on Encode; Decode trims
// the trailing zero padding back off.
type FixedString struct {
	Width_ int
}

func (c FixedString) Width() int { return c.Width_ }

func (c FixedString) Encode(buf []byte, pos int, v string) {
	if len(v) > c.Width_ {
		panic(fmt.Sprintf("codec: string %q exceeds fixed width %d", v, c.Width_))
	}
	window := buf[pos : pos+c.Width_]
	copy(window, v)
	for i := len(v); i < c.Width_; i++ {
		window[i] = 0
	}
}

func (c FixedString) Decode(buf []byte, pos int) string {
	window := buf[pos : pos+c.Width_]
	n := len(window)
	for n > 0 && window[n-1] == 0 {
		n--
	}
	return string(window[:n])
}

func (c FixedString) Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c FixedString) Debug(v string) string {
	return v
}
