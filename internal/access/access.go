// Package access models the access and property flag bit fields of classes, fields and methods.
package access

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Kind selects the flag table, some bits have different meanings per kind.
type Kind int

const (
	Class Kind = iota
	Field
	Method
)

func (k Kind) String() string {
	switch k {
	case Class:
		return "class"
	case Field:
		return "field"
	case Method:
		return "method"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Flag bit masks as defined by the class file format.
const (
	Public       uint16 = 0x0001
	Private      uint16 = 0x0002
	Protected    uint16 = 0x0004
	Static       uint16 = 0x0008
	Final        uint16 = 0x0010
	Super        uint16 = 0x0020
	Synchronized uint16 = 0x0020
	Volatile     uint16 = 0x0040
	Bridge       uint16 = 0x0040
	Transient    uint16 = 0x0080
	Varargs      uint16 = 0x0080
	Native       uint16 = 0x0100
	Interface    uint16 = 0x0200
	Abstract     uint16 = 0x0400
	Strict       uint16 = 0x0800
	Synthetic    uint16 = 0x1000
	Annotation   uint16 = 0x2000
	Enum         uint16 = 0x4000
	Module       uint16 = 0x8000
)

// Flag describes a single named flag.
type Flag struct {
	Mask    uint16
	Name    string // ACC_ prefixed name as printed by javap
	Keyword string // source keyword, empty if the flag has none
}

// tables are ordered by ascending mask which is also the javap output order.
var tables = map[Kind][]Flag{
	Class: {
		{Public, "ACC_PUBLIC", "public"},
		{Final, "ACC_FINAL", "final"},
		{Super, "ACC_SUPER", ""},
		{Interface, "ACC_INTERFACE", ""},
		{Abstract, "ACC_ABSTRACT", "abstract"},
		{Synthetic, "ACC_SYNTHETIC", ""},
		{Annotation, "ACC_ANNOTATION", ""},
		{Enum, "ACC_ENUM", ""},
		{Module, "ACC_MODULE", ""},
	},
	Field: {
		{Public, "ACC_PUBLIC", "public"},
		{Private, "ACC_PRIVATE", "private"},
		{Protected, "ACC_PROTECTED", "protected"},
		{Static, "ACC_STATIC", "static"},
		{Final, "ACC_FINAL", "final"},
		{Volatile, "ACC_VOLATILE", "volatile"},
		{Transient, "ACC_TRANSIENT", "transient"},
		{Synthetic, "ACC_SYNTHETIC", ""},
		{Enum, "ACC_ENUM", ""},
	},
	Method: {
		{Public, "ACC_PUBLIC", "public"},
		{Private, "ACC_PRIVATE", "private"},
		{Protected, "ACC_PROTECTED", "protected"},
		{Static, "ACC_STATIC", "static"},
		{Final, "ACC_FINAL", "final"},
		{Synchronized, "ACC_SYNCHRONIZED", "synchronized"},
		{Bridge, "ACC_BRIDGE", ""},
		{Varargs, "ACC_VARARGS", ""},
		{Native, "ACC_NATIVE", "native"},
		{Abstract, "ACC_ABSTRACT", "abstract"},
		{Strict, "ACC_STRICT", "strictfp"},
		{Synthetic, "ACC_SYNTHETIC", ""},
	},
}

// Set is an immutable set of flags of one kind.
type Set struct {
	kind Kind
	raw  uint16
}

// New returns the flag set for the raw bit field.
func New(kind Kind, raw uint16) Set {
	return Set{kind: kind, raw: raw}
}

// Kind returns the kind the flags belong to.
func (s Set) Kind() Kind {
	return s.kind
}

// Raw returns the raw bit field.
func (s Set) Raw() uint16 {
	return s.raw
}

// Is returns whether all bits of mask are set.
func (s Set) Is(mask uint16) bool {
	return s.raw&mask == mask
}

// Has returns whether the flag with the given name is set. Both the ACC_ name and the
// source keyword are accepted.
func (s Set) Has(name string) bool {
	table := tables[s.kind]
	i := slices.IndexFunc(table, func(f Flag) bool {
		return f.Name == name || (f.Keyword != "" && f.Keyword == name)
	})
	if i < 0 {
		return false
	}
	return s.Is(table[i].Mask)
}

// Flags returns all known set flags in ascending bit order.
func (s Set) Flags() []Flag {
	var flags []Flag
	for _, f := range tables[s.kind] {
		if s.raw&f.Mask != 0 {
			flags = append(flags, f)
		}
	}
	return flags
}

// Names returns the ACC_ names of all set flags.
func (s Set) Names() []string {
	flags := s.Flags()
	names := make([]string, 0, len(flags))
	for _, f := range flags {
		names = append(names, f.Name)
	}
	return names
}

// Keywords returns the source keywords of all set flags that have one.
func (s Set) Keywords() []string {
	var keywords []string
	for _, f := range s.Flags() {
		if f.Keyword == "" {
			continue
		}
		// interfaces are implicitly abstract
		if s.kind == Class && f.Mask == Abstract && s.Is(Interface) {
			continue
		}
		keywords = append(keywords, f.Keyword)
	}
	return keywords
}

// Unknown returns the bits that have no meaning for the kind.
func (s Set) Unknown() uint16 {
	known := uint16(0)
	for _, f := range tables[s.kind] {
		known |= f.Mask
	}
	return s.raw &^ known
}

// String returns the flags in javap notation, for example "(0x0021) ACC_PUBLIC, ACC_SUPER".
func (s Set) String() string {
	names := s.Names()
	if len(names) == 0 {
		return fmt.Sprintf("(0x%04x)", s.raw)
	}
	return fmt.Sprintf("(0x%04x) %s", s.raw, strings.Join(names, ", "))
}
