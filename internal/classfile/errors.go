package classfile

import (
	"errors"
	"fmt"
)

// Magic is the marker every class file starts with.
const Magic = 0xCAFEBABE

// ErrBadMagic is returned when the data does not start with the class file marker.
var ErrBadMagic = errors.New("bad magic")

// BadMagicError carries the marker that was found instead of Magic.
type BadMagicError struct {
	Found uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("%s: expected 0x%08X, found 0x%08X", ErrBadMagic, uint32(Magic), e.Found)
}

// Unwrap allows errors.Is(err, ErrBadMagic).
func (e *BadMagicError) Unwrap() error {
	return ErrBadMagic
}

// Decoding stages reported by DecodeError.
const (
	StageHeader     = "header"
	StagePool       = "constant pool"
	StageClassInfo  = "class info"
	StageInterfaces = "interfaces"
	StageFields     = "fields"
	StageMethods    = "methods"
	StageAttributes = "attributes"
	StageTrailing   = "end of file"
)

// DecodeError wraps the failure of a decoding stage with the offset at which the
// stage started reading.
type DecodeError struct {
	Stage  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s at offset %d: %s", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
