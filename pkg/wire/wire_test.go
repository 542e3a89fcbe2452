package wire

import (
	"bytes"
	"testing"
)

func TestReaders(t *testing.T) {
	b := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	if v := Uint16(b, 1); v != 0x0102 {
		t.Errorf("Uint16 = %#x", v)
	}
	if v := Uint32(b, 2); v != 0x02030405 {
		t.Errorf("Uint32 = %#x", v)
	}
	if v := Uint48(b, 1); v != 0x010203040506 {
		t.Errorf("Uint48 = %#x", v)
	}
	if v := Uint64(b, 0); v != 0x0001020304050607 {
		t.Errorf("Uint64 = %#x", v)
	}
}

func TestWritersRoundTrip(t *testing.T) {
	b := make([]byte, 8)

	PutUint16(b, 0, 0xBEEF)
	if v := Uint16(b, 0); v != 0xBEEF {
		t.Errorf("Uint16 round-trip = %#x", v)
	}

	PutUint32(b, 0, 0xDEADBEEF)
	if v := Uint32(b, 0); v != 0xDEADBEEF {
		t.Errorf("Uint32 round-trip = %#x", v)
	}

	PutUint48(b, 0, 0x0000FEEDFACE7777)
	if v := Uint48(b, 0); v != 0x0000FEEDFACE7777 {
		t.Errorf("Uint48 round-trip = %#x", v)
	}
	if b[6] != 0 || b[7] != 0 {
		t.Errorf("Uint48 wrote past its width: % x", b)
	}

	PutUint64(b, 0, 0x0102030405060708)
	if v := Uint64(b, 0); v != 0x0102030405060708 {
		t.Errorf("Uint64 round-trip = %#x", v)
	}
}

func TestAlpha(t *testing.T) {
	cases := map[string]struct {
		in    []byte
		off   int
		width int
		out   string
	}{
		"padded":     {[]byte("EPAM  "), 0, 6, "EPAM"},
		"full-width": {[]byte("ABCDEF"), 0, 6, "ABCDEF"},
		"all-spaces": {[]byte("    "), 0, 4, ""},
		"offset":     {[]byte("xxNYS"), 2, 3, "NYS"},
		"inner-space": {[]byte("A B "), 0, 4, "A B"},
	}

	for name, tc := range cases {
		if got := Alpha(tc.in, tc.off, tc.width); got != tc.out {
			t.Errorf("%s: Alpha = %q, want %q", name, got, tc.out)
		}
	}
}

func TestPutAlpha(t *testing.T) {
	b := make([]byte, 6)

	PutAlpha(b, 0, 6, "EPAM")
	if !bytes.Equal(b, []byte("EPAM  ")) {
		t.Errorf("PutAlpha = %q", b)
	}
	if got := Alpha(b, 0, 6); got != "EPAM" {
		t.Errorf("PutAlpha round-trip = %q", got)
	}

	PutAlpha(b, 0, 3, "OVERLONG")
	if !bytes.Equal(b[:3], []byte("OVE")) {
		t.Errorf("PutAlpha truncate = %q", b[:3])
	}
}
