// Package classfile decodes a complete class file into an immutable Class record.
package classfile

import (
	"github.com/retroenv/classdisasm/internal/access"
	"github.com/retroenv/classdisasm/internal/attribute"
	"github.com/retroenv/classdisasm/internal/constpool"
	"github.com/retroenv/classdisasm/internal/descriptor"
)

// Names of the initialization methods.
const (
	ConstructorName       = "<init>"
	StaticInitializerName = "<clinit>"
)

// Metadata describes the file a class was loaded from.
type Metadata struct {
	Path         string // canonical path
	Size         int64
	Hash         string // hex encoded SHA-256 of the raw bytes
	LastModified string // formatted for display
}

// Class is a decoded class file. It is not modified after decoding.
type Class struct {
	Pool         *constpool.Pool
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  access.Set
	ThisClass    uint16
	SuperClass   uint16 // 0 for java/lang/Object
	Interfaces   []uint16
	Fields       []*Field
	Methods      []*Method
	Attributes   []attribute.Attribute
	Metadata     Metadata
}

// Field is a decoded field_info structure.
type Field struct {
	AccessFlags     access.Set
	NameIndex       uint16
	DescriptorIndex uint16
	Name            string
	Type            descriptor.Type
	Attributes      []attribute.Attribute
}

// Method is a decoded method_info structure.
type Method struct {
	AccessFlags     access.Set
	NameIndex       uint16
	DescriptorIndex uint16
	Name            string
	Descriptor      descriptor.Method
	Attributes      []attribute.Attribute
}

// Name returns the internal name of the class, for example java/lang/String.
// Class records returned by the decoder always resolve.
func (c *Class) Name() string {
	name, _ := c.Pool.ClassName(c.ThisClass)
	return name
}

// SuperName returns the internal name of the super class or an empty string
// if the class has none.
func (c *Class) SuperName() string {
	if c.SuperClass == 0 {
		return ""
	}
	name, _ := c.Pool.ClassName(c.SuperClass)
	return name
}

// InterfaceNames returns the internal names of the implemented interfaces.
func (c *Class) InterfaceNames() []string {
	names := make([]string, 0, len(c.Interfaces))
	for _, index := range c.Interfaces {
		name, _ := c.Pool.ClassName(index)
		names = append(names, name)
	}
	return names
}

// SourceFile returns the name stored in the SourceFile attribute.
func (c *Class) SourceFile() (string, bool) {
	sf, ok := attribute.Find[attribute.SourceFile](c.Attributes)
	if !ok {
		return "", false
	}
	name, err := c.Pool.Utf8(sf.Index)
	return name, err == nil
}

// ConstantValue returns the ConstantValue attribute of the field.
func (f *Field) ConstantValue() (attribute.ConstantValue, bool) {
	return attribute.Find[attribute.ConstantValue](f.Attributes)
}

// IsConstructor returns whether the method is an instance initializer.
func (m *Method) IsConstructor() bool {
	return m.Name == ConstructorName
}

// IsStaticInitializer returns whether the method is the class initializer.
func (m *Method) IsStaticInitializer() bool {
	return m.Name == StaticInitializerName
}

// Code returns the Code attribute of the method, abstract and native methods
// have none.
func (m *Method) Code() (*attribute.Code, bool) {
	return attribute.Find[*attribute.Code](m.Attributes)
}
