package constpool

import "fmt"

// Validate checks that every index embedded in a pool entry resolves to an entry of the
// kind the format requires. A pool that passes can be rendered without lookup errors.
func (p *Pool) Validate() error {
	for i := 1; i < len(p.entries); i++ {
		if err := p.validateEntry(uint16(i), p.entries[i]); err != nil {
			return fmt.Errorf("validating %s at index %d: %w", p.entries[i].Kind(), i, err)
		}
	}
	return nil
}

func (p *Pool) validateEntry(index uint16, e Entry) error {
	switch v := e.(type) {
	case Class:
		_, err := p.expect(v.NameIndex, KindUtf8)
		return err

	case String:
		_, err := p.expect(v.StringIndex, KindUtf8)
		return err

	case MethodType:
		_, err := p.expect(v.DescriptorIndex, KindUtf8)
		return err

	case NameAndType:
		if _, err := p.expect(v.NameIndex, KindUtf8); err != nil {
			return err
		}
		_, err := p.expect(v.DescriptorIndex, KindUtf8)
		return err

	case Fieldref, Methodref, InterfaceMethodref:
		_, err := p.MemberRef(index)
		return err

	case InvokeDynamic:
		_, _, err := p.NameAndType(v.NameAndTypeIndex)
		return err

	case MethodHandle:
		return p.validateMethodHandle(v)

	default:
		return nil
	}
}

func (p *Pool) validateMethodHandle(h MethodHandle) error {
	var kinds []Kind
	switch h.ReferenceKind {
	case 1, 2, 3, 4:
		kinds = []Kind{KindFieldref}
	case 5, 6, 7, 8:
		kinds = []Kind{KindMethodref, KindInterfaceMethodref}
	case 9:
		kinds = []Kind{KindInterfaceMethodref}
	default:
		return fmt.Errorf("invalid method handle reference kind %d", h.ReferenceKind)
	}

	if _, err := p.expect(h.ReferenceIndex, kinds...); err != nil {
		return err
	}
	_, err := p.MemberRef(h.ReferenceIndex)
	return err
}
