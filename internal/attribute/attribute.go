// Package attribute decodes the attribute lists attached to classes, fields, methods
// and Code attributes.
package attribute

// Attribute names with a dedicated decoder.
const (
	NameCode               = "Code"
	NameConstantValue      = "ConstantValue"
	NameLineNumberTable    = "LineNumberTable"
	NameLocalVariableTable = "LocalVariableTable"
	NameSourceFile         = "SourceFile"
)

// Attribute is implemented by all attribute variants.
type Attribute interface {
	Name() string
}

// SourceFile names the source file the class was compiled from.
type SourceFile struct {
	Index uint16 // Utf8 constant
}

func (SourceFile) Name() string { return NameSourceFile }

// ConstantValue holds the constant initializer of a static field.
type ConstantValue struct {
	Index uint16
}

func (ConstantValue) Name() string { return NameConstantValue }

// LineNumber maps a bytecode offset to a source line.
type LineNumber struct {
	StartPC uint16
	Line    uint16
}

type LineNumberTable struct {
	Entries []LineNumber
}

func (LineNumberTable) Name() string { return NameLineNumberTable }

// LocalVariable describes the scope of a local variable.
type LocalVariable struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Slot            uint16
}

type LocalVariableTable struct {
	Entries []LocalVariable
}

func (LocalVariableTable) Name() string { return NameLocalVariableTable }

// ExceptionHandler is an entry of the exception table of a Code attribute.
// A CatchType of 0 catches everything.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// Code holds the bytecode of a method and its nested attributes.
type Code struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte // not decoded
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

func (*Code) Name() string { return NameCode }

// Unknown is an attribute without a dedicated decoder, kept as opaque bytes.
type Unknown struct {
	Kind string
	Data []byte
}

func (u Unknown) Name() string { return u.Kind }

// Find returns the first attribute of type T in the list.
func Find[T Attribute](attrs []Attribute) (T, bool) {
	for _, a := range attrs {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
