// Package descriptor parses field and method type descriptors.
package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned for descriptors that do not follow the grammar.
var ErrMalformed = errors.New("malformed descriptor")

// MalformedError describes where a descriptor failed to parse.
type MalformedError struct {
	Descriptor string
	Pos        int
	Reason     string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s %q at position %d: %s", ErrMalformed, e.Descriptor, e.Pos, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformed).
func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Base type codes.
const (
	Byte    = 'B'
	Char    = 'C'
	Double  = 'D'
	Float   = 'F'
	Int     = 'I'
	Long    = 'J'
	Object  = 'L'
	Short   = 'S'
	Void    = 'V'
	Boolean = 'Z'
)

var primitiveNames = map[byte]string{
	Byte:    "byte",
	Char:    "char",
	Double:  "double",
	Float:   "float",
	Int:     "int",
	Long:    "long",
	Short:   "short",
	Void:    "void",
	Boolean: "boolean",
}

// Type is a single field, argument or return type.
type Type struct {
	Base      byte   // primitive code or Object
	ClassName string // internal binary name for Object types, for example java/lang/String
	Dims      int    // number of array dimensions
}

// Method is a parsed method descriptor.
type Method struct {
	Args   []Type
	Return Type
}

// ParseMethod parses a method descriptor like "(IJLjava/lang/String;)V".
func ParseMethod(s string) (Method, error) {
	p := parser{s: s}
	if !p.consume('(') {
		return Method{}, p.fail("expected '('")
	}

	var m Method
	for !p.consume(')') {
		if p.done() {
			return Method{}, p.fail("unterminated argument list")
		}
		t, err := p.parseType(false)
		if err != nil {
			return Method{}, err
		}
		m.Args = append(m.Args, t)
	}

	ret, err := p.parseType(true)
	if err != nil {
		return Method{}, err
	}
	if !p.done() {
		return Method{}, p.fail("trailing characters after return type")
	}
	m.Return = ret
	return m, nil
}

// ParseField parses a field descriptor like "[Ljava/lang/Object;".
func ParseField(s string) (Type, error) {
	p := parser{s: s}
	t, err := p.parseType(false)
	if err != nil {
		return Type{}, err
	}
	if !p.done() {
		return Type{}, p.fail("trailing characters after field type")
	}
	return t, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) done() bool {
	return p.pos >= len(p.s)
}

func (p *parser) consume(c byte) bool {
	if p.done() || p.s[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

func (p *parser) fail(reason string) error {
	return &MalformedError{Descriptor: p.s, Pos: p.pos, Reason: reason}
}

func (p *parser) parseType(allowVoid bool) (Type, error) {
	var t Type
	for p.consume('[') {
		t.Dims++
	}
	if t.Dims > 255 {
		return Type{}, p.fail("more than 255 array dimensions")
	}
	if p.done() {
		return Type{}, p.fail("missing type")
	}

	c := p.s[p.pos]
	switch {
	case c == Object:
		end := strings.IndexByte(p.s[p.pos:], ';')
		if end < 0 {
			return Type{}, p.fail("unterminated class reference")
		}
		name := p.s[p.pos+1 : p.pos+end]
		if name == "" {
			return Type{}, p.fail("empty class name")
		}
		t.Base = Object
		t.ClassName = name
		p.pos += end + 1
		return t, nil

	case c == Void:
		if !allowVoid || t.Dims > 0 {
			return Type{}, p.fail("void is only valid as return type")
		}

	case primitiveNames[c] == "":
		return Type{}, p.fail(fmt.Sprintf("unknown type code '%c'", c))
	}

	t.Base = c
	p.pos++
	return t, nil
}

// IsVoid returns whether the type is the void return type.
func (t Type) IsVoid() bool {
	return t.Base == Void
}

// Slots returns the number of local variable slots a value of the type occupies.
func (t Type) Slots() int {
	switch {
	case t.IsVoid():
		return 0
	case t.Dims == 0 && (t.Base == Long || t.Base == Double):
		return 2
	default:
		return 1
	}
}

// External returns the type as written in Java source, for example "java.lang.String[]".
func (t Type) External() string {
	var sb strings.Builder
	if t.Base == Object {
		sb.WriteString(strings.ReplaceAll(t.ClassName, "/", "."))
	} else {
		sb.WriteString(primitiveNames[t.Base])
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// Internal returns the descriptor form of the type.
func (t Type) Internal() string {
	prefix := strings.Repeat("[", t.Dims)
	if t.Base == Object {
		return prefix + "L" + t.ClassName + ";"
	}
	return prefix + string(t.Base)
}

func (t Type) String() string {
	return t.External()
}

// ArgSlots returns the number of local variable slots used by the arguments.
func (m Method) ArgSlots() int {
	n := 0
	for _, a := range m.Args {
		n += a.Slots()
	}
	return n
}

// Internal returns the descriptor form of the method.
func (m Method) Internal() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, a := range m.Args {
		sb.WriteString(a.Internal())
	}
	sb.WriteByte(')')
	sb.WriteString(m.Return.Internal())
	return sb.String()
}
