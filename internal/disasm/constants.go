package disasm

import (
	"fmt"
	"strconv"

	"github.com/retroenv/classdisasm/internal/constpool"
)

// poolView resolves pool references for display. Lookups on a validated pool do not
// fail, errors are rendered as empty strings.
type poolView struct {
	*constpool.Pool
}

func (v poolView) utf8(index uint16) string {
	s, _ := v.Utf8(index)
	return s
}

func (v poolView) className(index uint16) string {
	s, _ := v.ClassName(index)
	return s
}

// nameAndType returns name:descriptor with initializer names quoted.
func (v poolView) nameAndType(index uint16) string {
	name, desc, _ := v.NameAndType(index)
	return memberName(name) + ":" + desc
}

// memberRef returns class.name:descriptor for a field, method or interface method ref.
func (v poolView) memberRef(index uint16) string {
	ref, _ := v.MemberRef(index)
	return ref.ClassName + "." + memberName(ref.Name) + ":" + ref.Descriptor
}

func (v poolView) refComment(r constpool.Ref) string {
	return v.className(r.ClassIndex) + "." + v.nameAndType(r.NameAndTypeIndex)
}

func memberName(name string) string {
	if name == "<init>" || name == "<clinit>" {
		return `"` + name + `"`
	}
	return name
}

func (p *printer) constantPool() {
	p.line("Constant pool:")
	for i := 1; i < p.pool.Count(); i++ {
		e := p.pool.At(i)
		if e.Kind() == constpool.KindFiller {
			continue
		}

		value, comment := p.pool.describe(e)
		index := fmt.Sprintf("#%d", i)
		if comment == "" {
			p.line("%5s = %-18s %s", index, e.Kind(), value)
			continue
		}
		p.line("%5s = %-18s %-14s // %s", index, e.Kind(), value, comment)
	}
}

// describe returns the value column and the resolved comment of a pool entry.
func (v poolView) describe(e constpool.Entry) (string, string) {
	switch e := e.(type) {
	case constpool.Utf8:
		return escape(e.Value), ""
	case constpool.Integer:
		return strconv.Itoa(int(e.Value)), ""
	case constpool.Float:
		return javaFloat(float64(e.Value), 32) + "f", ""
	case constpool.Long:
		return strconv.FormatInt(e.Value, 10) + "l", ""
	case constpool.Double:
		return javaFloat(e.Value, 64) + "d", ""

	case constpool.Class:
		return fmt.Sprintf("#%d", e.NameIndex), v.utf8(e.NameIndex)
	case constpool.String:
		return fmt.Sprintf("#%d", e.StringIndex), escape(v.utf8(e.StringIndex))
	case constpool.MethodType:
		return fmt.Sprintf("#%d", e.DescriptorIndex), v.utf8(e.DescriptorIndex)

	case constpool.Fieldref:
		return refIndices(e.Ref), v.refComment(e.Ref)
	case constpool.Methodref:
		return refIndices(e.Ref), v.refComment(e.Ref)
	case constpool.InterfaceMethodref:
		return refIndices(e.Ref), v.refComment(e.Ref)

	case constpool.NameAndType:
		return fmt.Sprintf("#%d:#%d", e.NameIndex, e.DescriptorIndex),
			memberName(v.utf8(e.NameIndex)) + ":" + v.utf8(e.DescriptorIndex)

	case constpool.MethodHandle:
		return fmt.Sprintf("%d:#%d", e.ReferenceKind, e.ReferenceIndex),
			constpool.ReferenceKindName(e.ReferenceKind) + " " + v.memberRef(e.ReferenceIndex)

	case constpool.InvokeDynamic:
		return fmt.Sprintf("#%d:#%d", e.BootstrapMethodAttrIndex, e.NameAndTypeIndex),
			fmt.Sprintf("#%d:%s", e.BootstrapMethodAttrIndex, v.nameAndType(e.NameAndTypeIndex))

	default:
		return "", ""
	}
}

func refIndices(r constpool.Ref) string {
	return fmt.Sprintf("#%d.#%d", r.ClassIndex, r.NameAndTypeIndex)
}
