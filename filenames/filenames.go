/*
Package filenames maps user names (glyph names, layer names) to file names
which are safe on case-insensitive and Windows file systems.

The mapping follows the "common user name to file name" algorithm of UFO 3:
uppercase characters are followed by an underscore, characters illegal in
file names become underscores, reserved device names are escaped, and
collisions with names already in use are resolved by a numeric suffix.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package filenames

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLength is the maximum length of a file name in characters.
const MaxLength = 255

const (
	counterDigits = 15
	maxCounter    = 999_999_999_999_999
)

// Set is a set of file names already in use. Names are kept lowercased,
// as comparisons have to be case-insensitive.
type Set map[string]struct{}

// NewSet creates a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name into the set.
func (s Set) Add(name string) {
	s[Lower(name)] = struct{}{}
}

// Contains reports whether name (compared case-insensitively) is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s[Lower(name)]
	return ok
}

// Lower lowercases a name for case-insensitive comparison.
func Lower(name string) string {
	// a Caser is stateful and must not be shared between goroutines
	return cases.Lower(language.Und).String(name)
}

// FromUserName converts a user name into a file name, without any suffix.
// If existing is non-empty and already holds the resulting name, a
// 15-digit counter is appended to make it unique. The caller has to Add
// accepted names to existing before converting the next name of a batch.
func FromUserName(name string, existing Set) string {
	runes := []rune(name)
	var b strings.Builder
	if len(runes) > 0 && runes[0] == '.' {
		b.WriteByte('_')
		runes = runes[1:]
	}
	for _, r := range runes {
		switch {
		case isIllegal(r):
			b.WriteByte('_')
		case unicode.ToLower(r) != r:
			b.WriteRune(r)
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	result := truncate(b.String(), MaxLength)
	result = escapeReserved(result)
	if len(existing) == 0 || !existing.Contains(result) {
		return result
	}
	base := truncate(result, MaxLength-counterDigits)
	for counter := 1; counter <= maxCounter; counter++ {
		candidate := fmt.Sprintf("%s%0*d", base, counterDigits, counter)
		if !existing.Contains(candidate) {
			return candidate
		}
	}
	// unreachable for any realistic set
	return result
}

func isIllegal(r rune) bool {
	if r < 32 || r == 0x7f {
		return true
	}
	return strings.ContainsRune(`"*+/:<>?[\]()|`, r)
}

var reservedNames = map[string]bool{
	"aux": true, "clock$": true, "con": true, "nul": true, "prn": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// escapeReserved prefixes dot-separated segments which are reserved device
// names on Windows.
func escapeReserved(name string) string {
	segments := strings.Split(name, ".")
	for i, seg := range segments {
		if reservedNames[Lower(seg)] {
			segments[i] = "_" + seg
		}
	}
	return strings.Join(segments, ".")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
