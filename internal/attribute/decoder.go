package attribute

import (
	"errors"
	"fmt"

	"github.com/retroenv/classdisasm/internal/constpool"
	"github.com/retroenv/classdisasm/internal/cursor"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// ErrLengthMismatch is returned when a recognized attribute consumed a different
// number of bytes than its declared length.
var ErrLengthMismatch = errors.New("attribute length mismatch")

// LengthMismatchError describes a recognized attribute whose body did not match its
// declared length.
type LengthMismatchError struct {
	Name     string
	Offset   int // offset of the attribute body
	Declared uint32
	Consumed int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d declares %d bytes, decoded %d",
		ErrLengthMismatch, e.Name, e.Offset, e.Declared, e.Consumed)
}

// Unwrap allows errors.Is(err, ErrLengthMismatch).
func (e *LengthMismatchError) Unwrap() error {
	return ErrLengthMismatch
}

type readerFunc func(d *Decoder, c *cursor.Cursor) (Attribute, error)

// readerFor returns the decoder of a recognized attribute name.
func readerFor(name string) (readerFunc, bool) {
	switch name {
	case NameCode:
		return (*Decoder).readCode, true
	case NameConstantValue:
		return (*Decoder).readConstantValue, true
	case NameLineNumberTable:
		return (*Decoder).readLineNumberTable, true
	case NameLocalVariableTable:
		return (*Decoder).readLocalVariableTable, true
	case NameSourceFile:
		return (*Decoder).readSourceFile, true
	default:
		return nil, false
	}
}

// Decoder decodes attribute lists against a constant pool.
type Decoder struct {
	logger  *log.Logger
	pool    *constpool.Pool
	skipped set.Set[string] // unknown names that were already logged
}

// NewDecoder returns a decoder that resolves names using the given pool.
func NewDecoder(logger *log.Logger, pool *constpool.Pool) *Decoder {
	return &Decoder{
		logger:  logger,
		pool:    pool,
		skipped: set.New[string](),
	}
}

// DecodeList reads an attribute count followed by that many attributes.
func (d *Decoder) DecodeList(c *cursor.Cursor) ([]Attribute, error) {
	count, err := c.U16()
	if err != nil {
		return nil, fmt.Errorf("reading attribute count: %w", err)
	}

	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		attr, err := d.decode(c)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (d *Decoder) decode(c *cursor.Cursor) (Attribute, error) {
	nameIndex, err := c.U16()
	if err != nil {
		return nil, fmt.Errorf("reading name index: %w", err)
	}
	length, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("reading length: %w", err)
	}
	name, err := d.pool.Utf8(nameIndex)
	if err != nil {
		return nil, fmt.Errorf("resolving name: %w", err)
	}

	reader, ok := readerFor(name)
	if !ok {
		return d.skip(c, name, length)
	}

	start := c.Offset()
	attr, err := reader(d, c)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	consumed := c.Offset() - start
	if uint64(consumed) != uint64(length) {
		return nil, &LengthMismatchError{
			Name:     name,
			Offset:   start,
			Declared: length,
			Consumed: consumed,
		}
	}
	return attr, nil
}

func (d *Decoder) skip(c *cursor.Cursor, name string, length uint32) (Attribute, error) {
	data, err := c.Bytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("skipping %s: %w", name, err)
	}

	if !d.skipped.Contains(name) {
		d.skipped.Add(name)
		d.logger.Debug("Skipping attribute without decoder",
			log.String("name", name),
			log.Int("length", int(length)))
	}
	return Unknown{Kind: name, Data: data}, nil
}

func (d *Decoder) readSourceFile(c *cursor.Cursor) (Attribute, error) {
	index, err := c.U16()
	if err != nil {
		return nil, err
	}
	if _, err := d.pool.Utf8(index); err != nil {
		return nil, err
	}
	return SourceFile{Index: index}, nil
}

func (d *Decoder) readConstantValue(c *cursor.Cursor) (Attribute, error) {
	index, err := c.U16()
	if err != nil {
		return nil, err
	}
	e, err := d.pool.Entry(index)
	if err != nil {
		return nil, err
	}
	switch e.Kind() {
	case constpool.KindInteger, constpool.KindFloat, constpool.KindLong,
		constpool.KindDouble, constpool.KindString:
		return ConstantValue{Index: index}, nil
	default:
		return nil, &constpool.WrongKindError{
			Index: index,
			Expected: []constpool.Kind{constpool.KindInteger, constpool.KindFloat, constpool.KindLong,
				constpool.KindDouble, constpool.KindString},
			Actual: e.Kind(),
		}
	}
}

func (d *Decoder) readLineNumberTable(c *cursor.Cursor) (Attribute, error) {
	count, err := c.U16()
	if err != nil {
		return nil, err
	}

	table := LineNumberTable{Entries: make([]LineNumber, count)}
	for i := range table.Entries {
		e := &table.Entries[i]
		if e.StartPC, err = c.U16(); err != nil {
			return nil, err
		}
		if e.Line, err = c.U16(); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (d *Decoder) readLocalVariableTable(c *cursor.Cursor) (Attribute, error) {
	count, err := c.U16()
	if err != nil {
		return nil, err
	}

	table := LocalVariableTable{Entries: make([]LocalVariable, count)}
	for i := range table.Entries {
		e := &table.Entries[i]
		for _, field := range []*uint16{&e.StartPC, &e.Length, &e.NameIndex, &e.DescriptorIndex, &e.Slot} {
			if *field, err = c.U16(); err != nil {
				return nil, err
			}
		}
		if _, err := d.pool.Utf8(e.NameIndex); err != nil {
			return nil, fmt.Errorf("local variable %d name: %w", i, err)
		}
		if _, err := d.pool.Utf8(e.DescriptorIndex); err != nil {
			return nil, fmt.Errorf("local variable %d descriptor: %w", i, err)
		}
	}
	return table, nil
}

func (d *Decoder) readCode(c *cursor.Cursor) (Attribute, error) {
	code := &Code{}
	var err error
	if code.MaxStack, err = c.U16(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = c.U16(); err != nil {
		return nil, err
	}

	length, err := c.U32()
	if err != nil {
		return nil, err
	}
	if code.Code, err = c.Bytes(int(length)); err != nil {
		return nil, err
	}

	if code.ExceptionTable, err = d.readExceptionTable(c); err != nil {
		return nil, err
	}

	if code.Attributes, err = d.DecodeList(c); err != nil {
		return nil, fmt.Errorf("nested attributes: %w", err)
	}
	return code, nil
}

func (d *Decoder) readExceptionTable(c *cursor.Cursor) ([]ExceptionHandler, error) {
	count, err := c.U16()
	if err != nil {
		return nil, err
	}

	handlers := make([]ExceptionHandler, count)
	for i := range handlers {
		h := &handlers[i]
		for _, field := range []*uint16{&h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType} {
			if *field, err = c.U16(); err != nil {
				return nil, err
			}
		}
		if h.CatchType != 0 {
			if _, err := d.pool.ClassName(h.CatchType); err != nil {
				return nil, fmt.Errorf("exception handler %d catch type: %w", i, err)
			}
		}
	}
	return handlers, nil
}
