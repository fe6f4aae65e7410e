package constpool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIndex is returned for index 0, filler slots and indices beyond the pool.
	ErrInvalidIndex = errors.New("invalid constant pool index")
	// ErrWrongKind is returned when an entry has a different kind than requested.
	ErrWrongKind = errors.New("wrong constant kind")
	// ErrUnsupportedTag is returned for tag bytes that are not part of the format.
	ErrUnsupportedTag = errors.New("unsupported constant pool tag")
)

// WrongKindError describes a lookup that found an entry of an unexpected kind.
type WrongKindError struct {
	Index    uint16
	Expected []Kind
	Actual   Kind
}

func (e *WrongKindError) Error() string {
	expected := make([]string, 0, len(e.Expected))
	for _, k := range e.Expected {
		expected = append(expected, k.String())
	}
	return fmt.Sprintf("%s at index %d: expected %s, found %s",
		ErrWrongKind, e.Index, strings.Join(expected, " or "), e.Actual)
}

// Unwrap allows errors.Is(err, ErrWrongKind).
func (e *WrongKindError) Unwrap() error {
	return ErrWrongKind
}

// UnsupportedTagError describes an unknown tag byte found while decoding.
type UnsupportedTagError struct {
	Tag   uint8
	Index int
}

func (e *UnsupportedTagError) Error() string {
	return fmt.Sprintf("%s %d at index %d", ErrUnsupportedTag, e.Tag, e.Index)
}

// Unwrap allows errors.Is(err, ErrUnsupportedTag).
func (e *UnsupportedTagError) Unwrap() error {
	return ErrUnsupportedTag
}
