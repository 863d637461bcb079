package codec

import "testing"

func TestFixedStringRoundTrip(t *testing.T) {
	c := FixedString{Width_: 8}
	buf := make([]byte, c.Width())
	cases := []string{"", "a", "00000001", "0001"}
	for _, v := range cases {
		c.Encode(buf, 0, v)
		got := c.Decode(buf, 0)
		if got != v {
			t.Errorf("round trip %q: got %q", v, got)
		}
	}
}

func TestFixedStringEncodeTooLongPanics(t *testing.T) {
	c := FixedString{Width_: 4}
	buf := make([]byte, c.Width())
	defer func() {
		if recover() == nil {
			t.Error("expected panic on oversized string")
		}
	}()
	c.Encode(buf, 0, "toolong")
}

func TestFixedStringCompareIsLexicographic(t *testing.T) {
	c := FixedString{Width_: 8}
	if c.Compare("00000001", "00000002") >= 0 {
		t.Error("expected 00000001 < 00000002")
	}
}
