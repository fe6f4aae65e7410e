// Package constpool decodes and resolves the constant pool of a class file.
package constpool

import (
	"fmt"
	"math"

	"github.com/retroenv/classdisasm/internal/cursor"
	"github.com/retroenv/classdisasm/internal/mutf8"
)

// Pool is an immutable, 1-indexed constant pool. Slot 0 always holds a Filler.
type Pool struct {
	entries []Entry
}

// MemberRef is a field or method reference resolved to its names.
type MemberRef struct {
	Kind       Kind
	ClassName  string
	Name       string
	Descriptor string
}

// New creates a pool from the given entries, which start at index 1.
// Fillers are inserted after Long and Double entries.
func New(entries ...Entry) *Pool {
	p := &Pool{entries: []Entry{Filler{}}}
	for _, e := range entries {
		p.entries = append(p.entries, e)
		if width(e) == 2 {
			p.entries = append(p.entries, Filler{})
		}
	}
	return p
}

// Decode reads the constant pool count and all entries from the cursor.
func Decode(c *cursor.Cursor) (*Pool, error) {
	count, err := c.U16()
	if err != nil {
		return nil, fmt.Errorf("reading constant pool count: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: constant pool count is 0", ErrInvalidIndex)
	}

	p := &Pool{entries: make([]Entry, 1, count)}
	p.entries[0] = Filler{}

	for i := 1; i < int(count); i++ {
		tag, err := c.U8()
		if err != nil {
			return nil, fmt.Errorf("reading tag at index %d: %w", i, err)
		}

		entry, err := decodeEntry(c, Kind(tag), i)
		if err != nil {
			return nil, err
		}
		p.entries = append(p.entries, entry)

		if width(entry) == 2 {
			i++
			if i >= int(count) {
				return nil, fmt.Errorf("%w: %s at index %d overflows pool count %d",
					ErrInvalidIndex, entry.Kind(), i-1, count)
			}
			p.entries = append(p.entries, Filler{})
		}
	}
	return p, nil
}

func decodeEntry(c *cursor.Cursor, kind Kind, index int) (Entry, error) {
	entry, err := readEntry(c, kind, index)
	if err != nil {
		return nil, fmt.Errorf("reading %s at index %d: %w", kind, index, err)
	}
	return entry, nil
}

//nolint:cyclop // one case per tag
func readEntry(c *cursor.Cursor, kind Kind, index int) (Entry, error) {
	switch kind {
	case KindUtf8:
		length, err := c.U16()
		if err != nil {
			return nil, err
		}
		b, err := c.Bytes(int(length))
		if err != nil {
			return nil, err
		}
		s, err := mutf8.Decode(b)
		if err != nil {
			return nil, err
		}
		return Utf8{Value: s}, nil

	case KindInteger:
		v, err := c.U32()
		return Integer{Value: int32(v)}, err

	case KindFloat:
		v, err := c.U32()
		return Float{Value: math.Float32frombits(v)}, err

	case KindLong:
		v, err := c.U64()
		return Long{Value: int64(v)}, err

	case KindDouble:
		v, err := c.U64()
		return Double{Value: math.Float64frombits(v)}, err

	case KindClass:
		v, err := c.U16()
		return Class{NameIndex: v}, err

	case KindString:
		v, err := c.U16()
		return String{StringIndex: v}, err

	case KindMethodType:
		v, err := c.U16()
		return MethodType{DescriptorIndex: v}, err

	case KindFieldref, KindMethodref, KindInterfaceMethodref:
		ref, err := readRef(c)
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindFieldref:
			return Fieldref{ref}, nil
		case KindMethodref:
			return Methodref{ref}, nil
		default:
			return InterfaceMethodref{ref}, nil
		}

	case KindNameAndType:
		name, desc, err := readPair(c)
		return NameAndType{NameIndex: name, DescriptorIndex: desc}, err

	case KindInvokeDynamic:
		bootstrap, nat, err := readPair(c)
		return InvokeDynamic{BootstrapMethodAttrIndex: bootstrap, NameAndTypeIndex: nat}, err

	case KindMethodHandle:
		refKind, err := c.U8()
		if err != nil {
			return nil, err
		}
		refIndex, err := c.U16()
		return MethodHandle{ReferenceKind: refKind, ReferenceIndex: refIndex}, err

	default:
		return nil, &UnsupportedTagError{Tag: uint8(kind), Index: index}
	}
}

func readRef(c *cursor.Cursor) (Ref, error) {
	class, nat, err := readPair(c)
	return Ref{ClassIndex: class, NameAndTypeIndex: nat}, err
}

func readPair(c *cursor.Cursor) (uint16, uint16, error) {
	a, err := c.U16()
	if err != nil {
		return 0, 0, err
	}
	b, err := c.U16()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Count returns the declared pool count, which includes slot 0 and all fillers.
func (p *Pool) Count() int {
	return len(p.entries)
}

// At returns the raw entry at the index including fillers, for iteration from 1 to Count()-1.
func (p *Pool) At(index int) Entry {
	return p.entries[index]
}

// Entry returns the entry at the index. Slot 0, filler slots and out of range indices fail.
func (p *Pool) Entry(index uint16) (Entry, error) {
	if index == 0 || int(index) >= len(p.entries) {
		return nil, fmt.Errorf("%w %d: pool count is %d", ErrInvalidIndex, index, len(p.entries))
	}
	e := p.entries[index]
	if e.Kind() == KindFiller {
		return nil, fmt.Errorf("%w %d: unused slot", ErrInvalidIndex, index)
	}
	return e, nil
}

// Utf8 returns the text of the Utf8 entry at the index.
func (p *Pool) Utf8(index uint16) (string, error) {
	e, err := p.expect(index, KindUtf8)
	if err != nil {
		return "", err
	}
	return e.(Utf8).Value, nil
}

// ClassName returns the internal name referenced by the Class entry at the index.
func (p *Pool) ClassName(index uint16) (string, error) {
	e, err := p.expect(index, KindClass)
	if err != nil {
		return "", err
	}
	name, err := p.Utf8(e.(Class).NameIndex)
	if err != nil {
		return "", fmt.Errorf("resolving class name of index %d: %w", index, err)
	}
	return name, nil
}

// StringValue returns the text referenced by the String entry at the index.
func (p *Pool) StringValue(index uint16) (string, error) {
	e, err := p.expect(index, KindString)
	if err != nil {
		return "", err
	}
	s, err := p.Utf8(e.(String).StringIndex)
	if err != nil {
		return "", fmt.Errorf("resolving string of index %d: %w", index, err)
	}
	return s, nil
}

// NameAndType returns the name and descriptor of the NameAndType entry at the index.
func (p *Pool) NameAndType(index uint16) (string, string, error) {
	e, err := p.expect(index, KindNameAndType)
	if err != nil {
		return "", "", err
	}
	nat := e.(NameAndType)

	name, err := p.Utf8(nat.NameIndex)
	if err != nil {
		return "", "", fmt.Errorf("resolving name of index %d: %w", index, err)
	}
	descriptor, err := p.Utf8(nat.DescriptorIndex)
	if err != nil {
		return "", "", fmt.Errorf("resolving descriptor of index %d: %w", index, err)
	}
	return name, descriptor, nil
}

// MethodType returns the descriptor of the MethodType entry at the index.
func (p *Pool) MethodType(index uint16) (string, error) {
	e, err := p.expect(index, KindMethodType)
	if err != nil {
		return "", err
	}
	return p.Utf8(e.(MethodType).DescriptorIndex)
}

// MemberRef resolves a Fieldref, Methodref or InterfaceMethodref entry to its class
// name, member name and descriptor.
func (p *Pool) MemberRef(index uint16) (MemberRef, error) {
	e, err := p.expect(index, KindFieldref, KindMethodref, KindInterfaceMethodref)
	if err != nil {
		return MemberRef{}, err
	}
	ref := e.(memberRef).ref()

	className, err := p.ClassName(ref.ClassIndex)
	if err != nil {
		return MemberRef{}, fmt.Errorf("resolving %s class of index %d: %w", e.Kind(), index, err)
	}
	name, descriptor, err := p.NameAndType(ref.NameAndTypeIndex)
	if err != nil {
		return MemberRef{}, fmt.Errorf("resolving %s member of index %d: %w", e.Kind(), index, err)
	}

	return MemberRef{
		Kind:       e.Kind(),
		ClassName:  className,
		Name:       name,
		Descriptor: descriptor,
	}, nil
}

func (p *Pool) expect(index uint16, kinds ...Kind) (Entry, error) {
	e, err := p.Entry(index)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if e.Kind() == k {
			return e, nil
		}
	}
	return nil, &WrongKindError{Index: index, Expected: kinds, Actual: e.Kind()}
}
