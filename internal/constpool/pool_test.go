package constpool

import (
	"errors"
	"testing"

	"github.com/retroenv/classdisasm/internal/classbuilder"
	"github.com/retroenv/classdisasm/internal/cursor"
	"github.com/retroenv/retrogolib/assert"
)

func decodeBuilder(t *testing.T, b *classbuilder.Builder) *Pool {
	t.Helper()
	c := cursor.New(b.PoolBytes())
	p, err := Decode(c)
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Remaining())
	return p
}

//nolint:funlen // test functions can be long
func TestDecodeAllTags(t *testing.T) {
	b := classbuilder.New("Main", "java/lang/Object")
	intIndex := b.Integer(-42)
	floatIndex := b.Float(1.5)
	longIndex := b.Long(1 << 40)
	doubleIndex := b.Double(2.25)
	stringIndex := b.StringConst("hello")
	fieldIndex := b.Fieldref("Main", "count", "I")
	methodIndex := b.Methodref("java/lang/Object", "<init>", "()V")
	ifaceIndex := b.InterfaceMethodref("java/lang/Runnable", "run", "()V")
	handleIndex := b.MethodHandle(6, methodIndex)
	typeIndex := b.MethodType("(I)V")
	indyIndex := b.InvokeDynamic(0, "run", "()Ljava/lang/Runnable;")

	p := decodeBuilder(t, b)

	name, err := p.ClassName(b.ThisClass)
	assert.NoError(t, err)
	assert.Equal(t, "Main", name)

	e, err := p.Entry(intIndex)
	assert.NoError(t, err)
	assert.Equal(t, Integer{Value: -42}, e)

	e, err = p.Entry(floatIndex)
	assert.NoError(t, err)
	assert.Equal(t, Float{Value: 1.5}, e)

	e, err = p.Entry(longIndex)
	assert.NoError(t, err)
	assert.Equal(t, Long{Value: 1 << 40}, e)
	assert.Equal(t, longIndex+2, doubleIndex)

	e, err = p.Entry(doubleIndex)
	assert.NoError(t, err)
	assert.Equal(t, Double{Value: 2.25}, e)

	s, err := p.StringValue(stringIndex)
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)

	ref, err := p.MemberRef(fieldIndex)
	assert.NoError(t, err)
	assert.Equal(t, MemberRef{Kind: KindFieldref, ClassName: "Main", Name: "count", Descriptor: "I"}, ref)

	ref, err = p.MemberRef(methodIndex)
	assert.NoError(t, err)
	assert.Equal(t, "java/lang/Object", ref.ClassName)
	assert.Equal(t, "<init>", ref.Name)

	ref, err = p.MemberRef(ifaceIndex)
	assert.NoError(t, err)
	assert.Equal(t, KindInterfaceMethodref, ref.Kind)

	e, err = p.Entry(handleIndex)
	assert.NoError(t, err)
	assert.Equal(t, MethodHandle{ReferenceKind: 6, ReferenceIndex: methodIndex}, e)

	desc, err := p.MethodType(typeIndex)
	assert.NoError(t, err)
	assert.Equal(t, "(I)V", desc)

	e, err = p.Entry(indyIndex)
	assert.NoError(t, err)
	assert.Equal(t, KindInvokeDynamic, e.Kind())

	assert.NoError(t, p.Validate())
}

func TestSlotZeroAndFillers(t *testing.T) {
	b := classbuilder.New("Main", "")
	longIndex := b.Long(7)
	p := decodeBuilder(t, b)

	// Utf8 + Class + Long (2 slots) + slot 0
	assert.Equal(t, 5, p.Count())

	_, err := p.Entry(0)
	assert.True(t, errors.Is(err, ErrInvalidIndex))

	_, err = p.Utf8(0)
	assert.True(t, errors.Is(err, ErrInvalidIndex))

	_, err = p.Entry(longIndex + 1)
	assert.True(t, errors.Is(err, ErrInvalidIndex))

	_, err = p.Entry(uint16(p.Count()))
	assert.True(t, errors.Is(err, ErrInvalidIndex))

	assert.Equal(t, KindFiller, p.At(0).Kind())
	assert.Equal(t, KindFiller, p.At(int(longIndex)+1).Kind())
}

func TestWrongKind(t *testing.T) {
	b := classbuilder.New("Main", "")
	p := decodeBuilder(t, b)

	_, err := p.Utf8(b.ThisClass)
	assert.True(t, errors.Is(err, ErrWrongKind))

	var kindErr *WrongKindError
	assert.True(t, errors.As(err, &kindErr))
	assert.Equal(t, b.ThisClass, kindErr.Index)
	assert.Equal(t, KindClass, kindErr.Actual)
	assert.Equal(t, []Kind{KindUtf8}, kindErr.Expected)
	assert.ErrorContains(t, err, "expected Utf8, found Class")

	_, err = p.ClassName(1)
	assert.True(t, errors.Is(err, ErrWrongKind))

	_, err = p.MemberRef(b.ThisClass)
	assert.ErrorContains(t, err, "expected Fieldref or Methodref or InterfaceMethodref")
}

func TestDecodeErrors(t *testing.T) {
	t.Run("unsupported tag", func(t *testing.T) {
		b := classbuilder.New("Main", "")
		b.RawEntry(2, 0, 0)

		_, err := Decode(cursor.New(b.PoolBytes()))
		assert.True(t, errors.Is(err, ErrUnsupportedTag))
		var tagErr *UnsupportedTagError
		assert.True(t, errors.As(err, &tagErr))
		assert.Equal(t, uint8(2), tagErr.Tag)
		assert.Equal(t, 3, tagErr.Index)
	})

	t.Run("zero count", func(t *testing.T) {
		_, err := Decode(cursor.New([]byte{0, 0}))
		assert.True(t, errors.Is(err, ErrInvalidIndex))
	})

	t.Run("long in last slot", func(t *testing.T) {
		b := classbuilder.New("Main", "")
		b.Long(1)
		b.SetPoolCount(4)

		_, err := Decode(cursor.New(b.PoolBytes()))
		assert.True(t, errors.Is(err, ErrInvalidIndex))
	})

	t.Run("truncated", func(t *testing.T) {
		data := classbuilder.New("Main", "").PoolBytes()
		for cut := 0; cut < len(data); cut++ {
			_, err := Decode(cursor.New(data[:cut]))
			assert.True(t, errors.Is(err, cursor.ErrTruncated), "cut at", cut)
		}
	})

	t.Run("malformed utf8", func(t *testing.T) {
		b := classbuilder.New("Main", "")
		b.RawUtf8([]byte{0xF0, 0x9F, 0x98, 0x80})

		_, err := Decode(cursor.New(b.PoolBytes()))
		assert.ErrorContains(t, err, "reading Utf8 at index 3")
	})
}

func TestNewInsertsFillers(t *testing.T) {
	p := New(
		Utf8{Value: "Main"},
		Class{NameIndex: 1},
		Double{Value: 1},
		Utf8{Value: "after"},
	)

	assert.Equal(t, 6, p.Count())
	s, err := p.Utf8(5)
	assert.NoError(t, err)
	assert.Equal(t, "after", s)
	assert.NoError(t, p.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"class to class", []Entry{Class{NameIndex: 1}}},
		{"string to slot 0", []Entry{String{StringIndex: 0}}},
		{"name and type descriptor", []Entry{Utf8{Value: "x"}, NameAndType{NameIndex: 1, DescriptorIndex: 3}, Integer{}}},
		{"method ref to utf8 class", []Entry{Utf8{Value: "x"}, NameAndType{NameIndex: 1, DescriptorIndex: 1}, Methodref{Ref{ClassIndex: 1, NameAndTypeIndex: 2}}}},
		{"method handle kind", []Entry{MethodHandle{ReferenceKind: 10, ReferenceIndex: 1}}},
		{"method handle target", []Entry{Utf8{Value: "x"}, MethodHandle{ReferenceKind: 1, ReferenceIndex: 1}}},
		{"method type", []Entry{MethodType{DescriptorIndex: 9}}},
		{"invoke dynamic", []Entry{InvokeDynamic{NameAndTypeIndex: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.entries...).Validate()
			assert.Error(t, err)
		})
	}
}

func TestReferenceKindName(t *testing.T) {
	assert.Equal(t, "REF_invokeStatic", ReferenceKindName(6))
	assert.Equal(t, "REF_unknown(0)", ReferenceKindName(0))
	assert.Equal(t, "REF_unknown(12)", ReferenceKindName(12))
}
