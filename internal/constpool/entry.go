package constpool

import "fmt"

// Kind is the constant pool tag of an entry.
type Kind uint8

// Tag values as stored in the class file. KindFiller marks slot 0 and the
// second slot of 8 byte constants, it never appears in the input.
const (
	KindFiller             Kind = 0
	KindUtf8               Kind = 1
	KindInteger            Kind = 3
	KindFloat              Kind = 4
	KindLong               Kind = 5
	KindDouble             Kind = 6
	KindClass              Kind = 7
	KindString             Kind = 8
	KindFieldref           Kind = 9
	KindMethodref          Kind = 10
	KindInterfaceMethodref Kind = 11
	KindNameAndType        Kind = 12
	KindMethodHandle       Kind = 15
	KindMethodType         Kind = 16
	KindInvokeDynamic      Kind = 18
)

var kindNames = map[Kind]string{
	KindFiller:             "(unused)",
	KindUtf8:               "Utf8",
	KindInteger:            "Integer",
	KindFloat:              "Float",
	KindLong:               "Long",
	KindDouble:             "Double",
	KindClass:              "Class",
	KindString:             "String",
	KindFieldref:           "Fieldref",
	KindMethodref:          "Methodref",
	KindInterfaceMethodref: "InterfaceMethodref",
	KindNameAndType:        "NameAndType",
	KindMethodHandle:       "MethodHandle",
	KindMethodType:         "MethodType",
	KindInvokeDynamic:      "InvokeDynamic",
}

// String returns the label javap uses for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint8(k))
}

// Entry is implemented by all constant pool entry types.
type Entry interface {
	Kind() Kind
}

// Filler occupies slot 0 and the slot following a Long or Double.
type Filler struct{}

func (Filler) Kind() Kind { return KindFiller }

type Utf8 struct {
	Value string
}

func (Utf8) Kind() Kind { return KindUtf8 }

type Integer struct {
	Value int32
}

func (Integer) Kind() Kind { return KindInteger }

type Float struct {
	Value float32
}

func (Float) Kind() Kind { return KindFloat }

type Long struct {
	Value int64
}

func (Long) Kind() Kind { return KindLong }

type Double struct {
	Value float64
}

func (Double) Kind() Kind { return KindDouble }

type Class struct {
	NameIndex uint16
}

func (Class) Kind() Kind { return KindClass }

type String struct {
	StringIndex uint16
}

func (String) Kind() Kind { return KindString }

// Ref is the shared layout of field, method and interface method references.
type Ref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (r Ref) ref() Ref { return r }

type Fieldref struct {
	Ref
}

func (Fieldref) Kind() Kind { return KindFieldref }

type Methodref struct {
	Ref
}

func (Methodref) Kind() Kind { return KindMethodref }

type InterfaceMethodref struct {
	Ref
}

func (InterfaceMethodref) Kind() Kind { return KindInterfaceMethodref }

type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (NameAndType) Kind() Kind { return KindNameAndType }

// MethodHandle references a field or method with a reference kind from 1 to 9.
type MethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (MethodHandle) Kind() Kind { return KindMethodHandle }

type MethodType struct {
	DescriptorIndex uint16
}

func (MethodType) Kind() Kind { return KindMethodType }

type InvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (InvokeDynamic) Kind() Kind { return KindInvokeDynamic }

// memberRef is implemented by the three reference entry types.
type memberRef interface {
	Entry
	ref() Ref
}

var referenceKindNames = [...]string{
	1: "REF_getField",
	2: "REF_getStatic",
	3: "REF_putField",
	4: "REF_putStatic",
	5: "REF_invokeVirtual",
	6: "REF_invokeStatic",
	7: "REF_invokeSpecial",
	8: "REF_newInvokeSpecial",
	9: "REF_invokeInterface",
}

// ReferenceKindName returns the javap name of a method handle reference kind.
func ReferenceKindName(kind uint8) string {
	if kind == 0 || int(kind) >= len(referenceKindNames) {
		return fmt.Sprintf("REF_unknown(%d)", kind)
	}
	return referenceKindNames[kind]
}

// width returns the number of pool slots an entry occupies.
func width(e Entry) int {
	switch e.Kind() {
	case KindLong, KindDouble:
		return 2
	default:
		return 1
	}
}
