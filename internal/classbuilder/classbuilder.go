// Package classbuilder assembles class files in memory for tests.
//
// Constant pool entries are appended in call order, Utf8 and Class entries are interned.
package classbuilder

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Handler is an exception table entry of a Code attribute.
type Handler struct {
	StartPC, EndPC, HandlerPC, CatchType uint16
}

// LocalVariable is an entry of a LocalVariableTable attribute.
type LocalVariable struct {
	StartPC, Length uint16
	Name, Descriptor string
	Slot             uint16
}

// Builder assembles a class file.
type Builder struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16

	pool      []byte
	next      uint16
	utf8      map[string]uint16
	classes   map[string]uint16
	ifaces    []uint16
	fields    [][]byte
	methods   [][]byte
	attrs     [][]byte
	trailing  []byte
	poolCount uint16 // overrides the computed pool count if set
}

// New returns a builder for a Java 8 class with the given names. An empty super
// name leaves super_class at 0.
func New(thisName, superName string) *Builder {
	b := &Builder{
		Magic:        0xCAFEBABE,
		MajorVersion: 52,
		AccessFlags:  0x0021,
		next:         1,
		utf8:         map[string]uint16{},
		classes:      map[string]uint16{},
	}
	b.ThisClass = b.Class(thisName)
	if superName != "" {
		b.SuperClass = b.Class(superName)
	}
	return b
}

// Utf8 adds an interned Utf8 entry encoded as modified UTF-8.
func (b *Builder) Utf8(s string) uint16 {
	if index, ok := b.utf8[s]; ok {
		return index
	}
	index := b.RawUtf8(encodeModified(s))
	b.utf8[s] = index
	return index
}

// RawUtf8 adds a Utf8 entry with the given bytes as content.
func (b *Builder) RawUtf8(content []byte) uint16 {
	body := binary.BigEndian.AppendUint16(nil, uint16(len(content)))
	return b.RawEntry(1, append(body, content...)...)
}

func (b *Builder) Integer(v int32) uint16 {
	return b.RawEntry(3, u32(uint32(v))...)
}

func (b *Builder) Float(v float32) uint16 {
	return b.RawEntry(4, u32(math.Float32bits(v))...)
}

// Long adds a Long entry, which occupies two slots.
func (b *Builder) Long(v int64) uint16 {
	index := b.RawEntry(5, binary.BigEndian.AppendUint64(nil, uint64(v))...)
	b.next++
	return index
}

// Double adds a Double entry, which occupies two slots.
func (b *Builder) Double(v float64) uint16 {
	index := b.RawEntry(6, binary.BigEndian.AppendUint64(nil, math.Float64bits(v))...)
	b.next++
	return index
}

// Class adds an interned Class entry.
func (b *Builder) Class(name string) uint16 {
	if index, ok := b.classes[name]; ok {
		return index
	}
	nameIndex := b.Utf8(name)
	index := b.RawEntry(7, u16(nameIndex)...)
	b.classes[name] = index
	return index
}

func (b *Builder) StringConst(s string) uint16 {
	return b.RawEntry(8, u16(b.Utf8(s))...)
}

func (b *Builder) NameAndType(name, descriptor string) uint16 {
	nameIndex := b.Utf8(name)
	descIndex := b.Utf8(descriptor)
	return b.RawEntry(12, append(u16(nameIndex), u16(descIndex)...)...)
}

func (b *Builder) Fieldref(class, name, descriptor string) uint16 {
	return b.ref(9, class, name, descriptor)
}

func (b *Builder) Methodref(class, name, descriptor string) uint16 {
	return b.ref(10, class, name, descriptor)
}

func (b *Builder) InterfaceMethodref(class, name, descriptor string) uint16 {
	return b.ref(11, class, name, descriptor)
}

func (b *Builder) MethodHandle(kind uint8, refIndex uint16) uint16 {
	return b.RawEntry(15, append([]byte{kind}, u16(refIndex)...)...)
}

func (b *Builder) MethodType(descriptor string) uint16 {
	return b.RawEntry(16, u16(b.Utf8(descriptor))...)
}

func (b *Builder) InvokeDynamic(bootstrap uint16, name, descriptor string) uint16 {
	nat := b.NameAndType(name, descriptor)
	return b.RawEntry(18, append(u16(bootstrap), u16(nat)...)...)
}

// RawEntry appends an entry with an arbitrary tag and body and returns its index.
func (b *Builder) RawEntry(tag byte, body ...byte) uint16 {
	index := b.next
	b.pool = append(b.pool, tag)
	b.pool = append(b.pool, body...)
	b.next++
	return index
}

func (b *Builder) ref(tag byte, class, name, descriptor string) uint16 {
	classIndex := b.Class(class)
	nat := b.NameAndType(name, descriptor)
	return b.RawEntry(tag, append(u16(classIndex), u16(nat)...)...)
}

// SetPoolCount overrides the constant pool count written to the output.
func (b *Builder) SetPoolCount(count uint16) {
	b.poolCount = count
}

// AddInterface adds an implemented interface.
func (b *Builder) AddInterface(name string) {
	b.ifaces = append(b.ifaces, b.Class(name))
}

// AddField adds a field with the given encoded attributes.
func (b *Builder) AddField(flags uint16, name, descriptor string, attrs ...[]byte) {
	b.fields = append(b.fields, b.member(flags, name, descriptor, attrs))
}

// AddMethod adds a method with the given encoded attributes.
func (b *Builder) AddMethod(flags uint16, name, descriptor string, attrs ...[]byte) {
	b.methods = append(b.methods, b.member(flags, name, descriptor, attrs))
}

// AddAttribute adds an encoded class level attribute.
func (b *Builder) AddAttribute(attr []byte) {
	b.attrs = append(b.attrs, attr)
}

// AddTrailing appends bytes after the class attributes.
func (b *Builder) AddTrailing(data ...byte) {
	b.trailing = append(b.trailing, data...)
}

func (b *Builder) member(flags uint16, name, descriptor string, attrs [][]byte) []byte {
	buf := u16(flags)
	buf = append(buf, u16(b.Utf8(name))...)
	buf = append(buf, u16(b.Utf8(descriptor))...)
	return append(buf, list(attrs)...)
}

// Attribute encodes an attribute with the correct length.
func (b *Builder) Attribute(name string, body []byte) []byte {
	return b.AttributeWithLength(name, uint32(len(body)), body)
}

// AttributeWithLength encodes an attribute with an arbitrary declared length.
func (b *Builder) AttributeWithLength(name string, length uint32, body []byte) []byte {
	buf := u16(b.Utf8(name))
	buf = append(buf, u32(length)...)
	return append(buf, body...)
}

func (b *Builder) SourceFile(name string) []byte {
	return b.Attribute("SourceFile", u16(b.Utf8(name)))
}

func (b *Builder) ConstantValue(index uint16) []byte {
	return b.Attribute("ConstantValue", u16(index))
}

// LineNumberTable encodes pairs of start pc and line number.
func (b *Builder) LineNumberTable(pairs ...[2]uint16) []byte {
	body := u16(uint16(len(pairs)))
	for _, p := range pairs {
		body = append(body, u16(p[0])...)
		body = append(body, u16(p[1])...)
	}
	return b.Attribute("LineNumberTable", body)
}

func (b *Builder) LocalVariableTable(vars ...LocalVariable) []byte {
	body := u16(uint16(len(vars)))
	for _, v := range vars {
		body = append(body, u16(v.StartPC)...)
		body = append(body, u16(v.Length)...)
		body = append(body, u16(b.Utf8(v.Name))...)
		body = append(body, u16(b.Utf8(v.Descriptor))...)
		body = append(body, u16(v.Slot)...)
	}
	return b.Attribute("LocalVariableTable", body)
}

// Code encodes a Code attribute with nested attributes.
func (b *Builder) Code(maxStack, maxLocals uint16, code []byte, handlers []Handler, attrs ...[]byte) []byte {
	return b.Attribute("Code", b.CodeBody(maxStack, maxLocals, code, handlers, attrs...))
}

// CodeBody encodes the body of a Code attribute without name and length.
func (b *Builder) CodeBody(maxStack, maxLocals uint16, code []byte, handlers []Handler, attrs ...[]byte) []byte {
	body := u16(maxStack)
	body = append(body, u16(maxLocals)...)
	body = append(body, u32(uint32(len(code)))...)
	body = append(body, code...)
	body = append(body, u16(uint16(len(handlers)))...)
	for _, h := range handlers {
		body = append(body, u16(h.StartPC)...)
		body = append(body, u16(h.EndPC)...)
		body = append(body, u16(h.HandlerPC)...)
		body = append(body, u16(h.CatchType)...)
	}
	return append(body, list(attrs)...)
}

// PoolBytes returns the encoded constant pool including its count.
func (b *Builder) PoolBytes() []byte {
	count := b.next
	if b.poolCount != 0 {
		count = b.poolCount
	}
	return append(u16(count), b.pool...)
}

// Bytes returns the complete class file.
func (b *Builder) Bytes() []byte {
	buf := u32(b.Magic)
	buf = append(buf, u16(b.MinorVersion)...)
	buf = append(buf, u16(b.MajorVersion)...)
	buf = append(buf, b.PoolBytes()...)
	buf = append(buf, u16(b.AccessFlags)...)
	buf = append(buf, u16(b.ThisClass)...)
	buf = append(buf, u16(b.SuperClass)...)
	buf = append(buf, u16(uint16(len(b.ifaces)))...)
	for _, i := range b.ifaces {
		buf = append(buf, u16(i)...)
	}
	buf = append(buf, list(b.fields)...)
	buf = append(buf, list(b.methods)...)
	buf = append(buf, list(b.attrs)...)
	return append(buf, b.trailing...)
}

func list(items [][]byte) []byte {
	buf := u16(uint16(len(items)))
	for _, item := range items {
		buf = append(buf, item...)
	}
	return buf
}

func u16(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func u32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

// encodeModified encodes s as modified UTF-8.
func encodeModified(s string) []byte {
	var buf []byte
	for _, unit := range utf16.Encode([]rune(s)) {
		switch {
		case unit != 0 && unit < 0x80:
			buf = append(buf, byte(unit))
		case unit < 0x800:
			buf = append(buf, byte(0xC0|unit>>6), byte(0x80|unit&0x3F))
		default:
			buf = append(buf, byte(0xE0|unit>>12), byte(0x80|(unit>>6)&0x3F), byte(0x80|unit&0x3F))
		}
	}
	return buf
}
