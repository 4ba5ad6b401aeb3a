// Package cstring converts strings across the host boundary.
//
// The host only understands NUL-terminated byte sequences and hands back
// whatever bytes users, scripts or remote peers produced. Conversion in both
// directions never fails: embedded NULs are dropped on the way out and
// invalid UTF-8 is replaced with U+FFFD on the way in.
package cstring

import (
	"bytes"
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/unicode"
)

// maxLen bounds scans of host strings that are missing their terminator.
const maxLen = 1 << 24

// ToHost returns a NUL-terminated copy of s with every embedded NUL removed.
// The result is never empty, so &b[0] is always a valid C string.
func ToHost(s string) []byte {
	n := len(s)
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "")
		n = len(s)
	}
	b := make([]byte, n+1)
	copy(b, s)
	return b
}

// Ptr returns the address of the first byte of a ToHost result.
func Ptr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}

// FromHost decodes host bytes up to the first NUL, replacing invalid
// sequences instead of failing.
func FromHost(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

// Bytes returns the bytes of a NUL-terminated host string, without the
// terminator. The slice aliases host memory and is only valid during the
// call that produced p.
func Bytes(p *byte) []byte {
	if p == nil {
		return nil
	}
	n := 0
	for n < maxLen && *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return unsafe.Slice(p, n)
}

// GoString copies a NUL-terminated host string into a Go string.
// A NULL pointer yields "".
func GoString(p *byte) string {
	return FromHost(Bytes(p))
}

// Valid reports whether the host string at p is well-formed UTF-8.
func Valid(p *byte) bool {
	return utf8.Valid(Bytes(p))
}

// Strings copies n entries of a host `char **` array.
func Strings(argv **byte, n int) []string {
	if argv == nil || n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i, p := range unsafe.Slice(argv, n) {
		out[i] = GoString(p)
	}
	return out
}
