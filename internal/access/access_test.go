package access

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSetQueries(t *testing.T) {
	s := New(Method, Public|Static)

	assert.True(t, s.Has("ACC_PUBLIC"))
	assert.True(t, s.Has("static"))
	assert.False(t, s.Has("ACC_PRIVATE"))
	assert.False(t, s.Has("no-such-flag"))
	assert.True(t, s.Is(Public|Static))
	assert.False(t, s.Is(Public|Final))
	assert.Equal(t, []string{"ACC_PUBLIC", "ACC_STATIC"}, s.Names())
	assert.Equal(t, []string{"public", "static"}, s.Keywords())
	assert.Equal(t, "(0x0009) ACC_PUBLIC, ACC_STATIC", s.String())
}

func TestSharedBitsDependOnKind(t *testing.T) {
	class := New(Class, Public|Super)
	method := New(Method, Public|Synchronized)

	assert.Equal(t, []string{"ACC_PUBLIC", "ACC_SUPER"}, class.Names())
	assert.Equal(t, []string{"public"}, class.Keywords())
	assert.Equal(t, []string{"ACC_PUBLIC", "ACC_SYNCHRONIZED"}, method.Names())
	assert.Equal(t, []string{"public", "synchronized"}, method.Keywords())

	field := New(Field, Volatile|Transient)
	assert.Equal(t, []string{"ACC_VOLATILE", "ACC_TRANSIENT"}, field.Names())

	bridge := New(Method, Bridge|Varargs)
	assert.Equal(t, []string{"ACC_BRIDGE", "ACC_VARARGS"}, bridge.Names())
	assert.Empty(t, bridge.Keywords())
}

func TestInterfaceOmitsAbstractKeyword(t *testing.T) {
	s := New(Class, Public|Interface|Abstract)

	assert.Equal(t, []string{"public"}, s.Keywords())
	assert.Equal(t, "(0x0601) ACC_PUBLIC, ACC_INTERFACE, ACC_ABSTRACT", s.String())
}

func TestEmptyAndUnknown(t *testing.T) {
	s := New(Field, 0)
	assert.Equal(t, "(0x0000)", s.String())
	assert.Empty(t, s.Flags())

	odd := New(Field, Public|0x0100)
	assert.Equal(t, uint16(0x0100), odd.Unknown())
	assert.Equal(t, Field, odd.Kind())
	assert.Equal(t, uint16(0x0101), odd.Raw())
}
