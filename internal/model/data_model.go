package model

import (
	"errors"
	"fmt"
	"strings"
)

// Note is one value of the closed, ordered note domain. The ordinal is the order.
type Note byte

const (
	C Note = iota
	D
	E
	F
	G
	A
	B
)

// noteCount is the cardinality of the domain; callers must not assume it.
const noteCount = int(B) + 1

var ErrUnknownNote = errors.New("unknown note")

var displayNames = [noteCount]string{"c", "d", "e", "f", "g", "a", "b"}

// All returns every note in ascending order.
func All() []Note {
	notes := make([]Note, noteCount)
	for i := range notes {
		notes[i] = Note(i)
	}
	return notes
}

// Count is the number of notes in the domain.
func Count() int { return noteCount }

// Compare returns -1, 0 or +1 when a is less than, equal to or greater than b.
func Compare(a, b Note) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether a orders strictly before b.
func Less(a, b Note) bool { return Compare(a, b) < 0 }

// Valid reports whether n is a member of the domain.
func (n Note) Valid() bool { return int(n) < noteCount }

// String returns the display name. It never participates in ordering.
func (n Note) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Note(%d)", byte(n))
	}
	return displayNames[n]
}

// DisplayName is the rendering projection of n.
func DisplayName(n Note) string { return n.String() }

func (n Note) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNote, byte(n))
	}
	return []byte(displayNames[n]), nil
}

func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := ParseNote(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ParseNote accepts a display name in either case.
func ParseNote(s string) (Note, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, dn := range displayNames {
		if dn == name {
			return Note(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNote, s)
}

// Sequence is an ordered list of notes, indexed 0..n-1.
type Sequence []Note

// ParseSequence reads notes separated by commas and/or whitespace, e.g. "E,G,D" or "e g d".
func ParseSequence(s string) (Sequence, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		n, err := ParseNote(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, n)
	}
	return seq, nil
}

// Clone returns an independent copy; a nil sequence clones to an empty one.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Names projects the sequence onto display names.
func (s Sequence) Names() []string {
	names := make([]string, len(s))
	for i, n := range s {
		names[i] = n.String()
	}
	return names
}

// IsSorted reports whether s is in non-decreasing order.
func (s Sequence) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if Less(s[i], s[i-1]) {
			return false
		}
	}
	return true
}

// Equal reports whether both sequences hold the same notes in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Sequence) String() string {
	return "[" + strings.Join(s.Names(), " ") + "]"
}
