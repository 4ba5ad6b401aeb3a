package weego

import (
	"iter"
	"slices"
	"strings"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Args holds the words of a command line. Args[0] is the command itself.
// Words are copied out of host memory, so an Args may outlive the callback.
type Args struct {
	argv []string
	eol  []string
}

// NewArgs builds Args from words, deriving the end-of-line views by joining
// with single spaces.
func NewArgs(words ...string) Args {
	return Args{argv: slices.Clone(words)}
}

func newArgs(argc int32, argv, argvEOL **byte) Args {
	a := Args{argv: cstring.Strings(argv, int(argc))}
	if argvEOL != nil {
		a.eol = cstring.Strings(argvEOL, int(argc))
	}
	return a
}

// Len returns the number of words.
func (a Args) Len() int {
	return len(a.argv)
}

// Get returns word i, or "" if there is no such word.
func (a Args) Get(i int) string {
	if i < 0 || i >= len(a.argv) {
		return ""
	}
	return a.argv[i]
}

// EOL returns the command line from word i to the end, as typed.
func (a Args) EOL(i int) string {
	if i < 0 || i >= len(a.argv) {
		return ""
	}
	if a.eol != nil {
		return a.eol[i]
	}
	return strings.Join(a.argv[i:], " ")
}

// Slice returns a copy of the words.
func (a Args) Slice() []string {
	return slices.Clone(a.argv)
}

// All iterates over the words.
func (a Args) All() iter.Seq2[int, string] {
	return slices.All(a.argv)
}
