package classfile

import (
	"fmt"

	"github.com/retroenv/classdisasm/internal/access"
	"github.com/retroenv/classdisasm/internal/attribute"
	"github.com/retroenv/classdisasm/internal/constpool"
	"github.com/retroenv/classdisasm/internal/cursor"
	"github.com/retroenv/classdisasm/internal/descriptor"
	"github.com/retroenv/retrogolib/log"
)

// Decoder decodes class files.
type Decoder struct {
	logger *log.Logger
}

// NewDecoder returns a new class file decoder.
func NewDecoder(logger *log.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// decodeState holds the state of a single Decode call.
type decodeState struct {
	logger *log.Logger
	c      *cursor.Cursor
	cls    *Class
	attrs  *attribute.Decoder
}

type stage struct {
	name string
	run  func(s *decodeState) error
}

var stages = []stage{
	{StageHeader, (*decodeState).readHeader},
	{StagePool, (*decodeState).readPool},
	{StageClassInfo, (*decodeState).readClassInfo},
	{StageInterfaces, (*decodeState).readInterfaces},
	{StageFields, (*decodeState).readFields},
	{StageMethods, (*decodeState).readMethods},
	{StageAttributes, (*decodeState).readAttributes},
	{StageTrailing, (*decodeState).checkEnd},
}

// Decode decodes the class file contained in data. The metadata is attached to the
// returned record as is. Any failure is returned as *DecodeError.
func (d *Decoder) Decode(data []byte, meta Metadata) (*Class, error) {
	s := &decodeState{
		logger: d.logger,
		c:      cursor.New(data),
		cls:    &Class{Metadata: meta},
	}

	for _, st := range stages {
		offset := s.c.Offset()
		if err := st.run(s); err != nil {
			return nil, &DecodeError{Stage: st.name, Offset: offset, Err: err}
		}
		d.logger.Debug("Decoded class file section",
			log.String("stage", st.name),
			log.Int("offset", offset),
			log.Int("size", s.c.Offset()-offset))
	}
	return s.cls, nil
}

func (s *decodeState) readPool() error {
	pool, err := constpool.Decode(s.c)
	if err != nil {
		return err
	}
	if err := pool.Validate(); err != nil {
		return err
	}
	s.cls.Pool = pool
	s.attrs = attribute.NewDecoder(s.logger, pool)
	return nil
}

func (s *decodeState) readHeader() error {
	magic, err := s.c.U32()
	if err != nil {
		return err
	}
	if magic != Magic {
		return &BadMagicError{Found: magic}
	}
	if s.cls.MinorVersion, err = s.c.U16(); err != nil {
		return err
	}
	if s.cls.MajorVersion, err = s.c.U16(); err != nil {
		return err
	}
	return nil
}

func (s *decodeState) readClassInfo() error {
	flags, err := s.c.U16()
	if err != nil {
		return err
	}
	s.cls.AccessFlags = access.New(access.Class, flags)

	if s.cls.ThisClass, err = s.c.U16(); err != nil {
		return err
	}
	if _, err := s.cls.Pool.ClassName(s.cls.ThisClass); err != nil {
		return fmt.Errorf("this class: %w", err)
	}

	if s.cls.SuperClass, err = s.c.U16(); err != nil {
		return err
	}
	if s.cls.SuperClass != 0 {
		if _, err := s.cls.Pool.ClassName(s.cls.SuperClass); err != nil {
			return fmt.Errorf("super class: %w", err)
		}
	}
	return nil
}

func (s *decodeState) readInterfaces() error {
	count, err := s.c.U16()
	if err != nil {
		return err
	}

	s.cls.Interfaces = make([]uint16, count)
	for i := range s.cls.Interfaces {
		index, err := s.c.U16()
		if err != nil {
			return err
		}
		if _, err := s.cls.Pool.ClassName(index); err != nil {
			return fmt.Errorf("interface %d: %w", i, err)
		}
		s.cls.Interfaces[i] = index
	}
	return nil
}

// member holds the parts shared by field_info and method_info.
type member struct {
	flags      access.Set
	nameIndex  uint16
	descIndex  uint16
	name       string
	descriptor string
	attrs      []attribute.Attribute
}

func (s *decodeState) readMember(kind access.Kind) (member, error) {
	var m member
	flags, err := s.c.U16()
	if err != nil {
		return m, err
	}
	m.flags = access.New(kind, flags)
	if m.nameIndex, err = s.c.U16(); err != nil {
		return m, err
	}
	if m.descIndex, err = s.c.U16(); err != nil {
		return m, err
	}

	if m.name, err = s.cls.Pool.Utf8(m.nameIndex); err != nil {
		return m, fmt.Errorf("name: %w", err)
	}
	if m.descriptor, err = s.cls.Pool.Utf8(m.descIndex); err != nil {
		return m, fmt.Errorf("descriptor of %s: %w", m.name, err)
	}
	if m.attrs, err = s.attrs.DecodeList(s.c); err != nil {
		return m, fmt.Errorf("attributes of %s: %w", m.name, err)
	}
	return m, nil
}

func (s *decodeState) readFields() error {
	count, err := s.c.U16()
	if err != nil {
		return err
	}

	s.cls.Fields = make([]*Field, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := s.readMember(access.Field)
		if err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		typ, err := descriptor.ParseField(m.descriptor)
		if err != nil {
			return fmt.Errorf("field %s: %w", m.name, err)
		}

		s.cls.Fields = append(s.cls.Fields, &Field{
			AccessFlags:     m.flags,
			NameIndex:       m.nameIndex,
			DescriptorIndex: m.descIndex,
			Name:            m.name,
			Type:            typ,
			Attributes:      m.attrs,
		})
	}
	return nil
}

func (s *decodeState) readMethods() error {
	count, err := s.c.U16()
	if err != nil {
		return err
	}

	s.cls.Methods = make([]*Method, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := s.readMember(access.Method)
		if err != nil {
			return fmt.Errorf("method %d: %w", i, err)
		}
		desc, err := descriptor.ParseMethod(m.descriptor)
		if err != nil {
			return fmt.Errorf("method %s: %w", m.name, err)
		}

		s.cls.Methods = append(s.cls.Methods, &Method{
			AccessFlags:     m.flags,
			NameIndex:       m.nameIndex,
			DescriptorIndex: m.descIndex,
			Name:            m.name,
			Descriptor:      desc,
			Attributes:      m.attrs,
		})
	}
	return nil
}

func (s *decodeState) readAttributes() error {
	attrs, err := s.attrs.DecodeList(s.c)
	if err != nil {
		return err
	}
	s.cls.Attributes = attrs
	return nil
}

func (s *decodeState) checkEnd() error {
	if n := s.c.Remaining(); n > 0 {
		return fmt.Errorf("%d unexpected trailing bytes", n)
	}
	return nil
}
