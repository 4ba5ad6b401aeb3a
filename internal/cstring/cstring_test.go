package cstring

import (
	"bytes"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

func TestToHostTerminates(t *testing.T) {
	b := ToHost("hello")
	if len(b) != 6 || b[5] != 0 {
		t.Fatalf("ToHost(hello) = %q, want trailing NUL", b)
	}
	if got := ToHost(""); len(got) != 1 || got[0] != 0 {
		t.Errorf("ToHost(\"\") = %q, want single NUL", got)
	}
}

func TestToHostStripsEmbeddedNUL(t *testing.T) {
	b := ToHost("a\x00b\x00\x00c")
	if string(b) != "abc\x00" {
		t.Errorf("ToHost = %q, want %q", b, "abc\x00")
	}
}

func TestFromHostReplacesInvalid(t *testing.T) {
	got := FromHost([]byte{'o', 'k', 0xff, 0xfe, '!'})
	if !utf8.ValidString(got) {
		t.Fatalf("FromHost produced invalid UTF-8: %q", got)
	}
	if !strings.HasPrefix(got, "ok") || !strings.HasSuffix(got, "!") {
		t.Errorf("FromHost lost valid bytes: %q", got)
	}
	if !strings.ContainsRune(got, utf8.RuneError) {
		t.Errorf("FromHost = %q, want replacement character", got)
	}
}

func TestFromHostStopsAtTerminator(t *testing.T) {
	if got := FromHost([]byte("abc\x00def")); got != "abc" {
		t.Errorf("FromHost = %q, want abc", got)
	}
}

func TestRoundTrip(t *testing.T) {
	f := func(s string) bool {
		s = strings.ReplaceAll(s, "\x00", "")
		return GoString(Ptr(ToHost(s))) == s
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestArbitraryBytesNeverCarryNUL(t *testing.T) {
	f := func(b []byte) bool {
		in := FromHost(b)
		out := ToHost(string(b))
		return utf8.ValidString(in) &&
			strings.IndexByte(in, 0) < 0 &&
			bytes.IndexByte(out, 0) == len(out)-1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestGoStringNil(t *testing.T) {
	if got := GoString(nil); got != "" {
		t.Errorf("GoString(nil) = %q", got)
	}
	if Valid(nil) != true {
		t.Error("Valid(nil) should report an empty, valid string")
	}
}

func TestValid(t *testing.T) {
	good := ToHost("héllo")
	bad := []byte{0xc3, 0x28, 0}
	if !Valid(Ptr(good)) {
		t.Error("Valid rejected well-formed input")
	}
	if Valid(&bad[0]) {
		t.Error("Valid accepted malformed input")
	}
}

func TestStrings(t *testing.T) {
	a, b := ToHost("/cmd"), ToHost("arg")
	argv := []*byte{Ptr(a), Ptr(b)}
	got := Strings(&argv[0], len(argv))
	if len(got) != 2 || got[0] != "/cmd" || got[1] != "arg" {
		t.Errorf("Strings = %q", got)
	}
	if Strings(nil, 3) != nil {
		t.Error("Strings(nil) should be nil")
	}
}
