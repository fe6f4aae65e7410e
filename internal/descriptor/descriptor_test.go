package descriptor

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func externals(types []Type) []string {
	var s []string
	for _, t := range types {
		s = append(s, t.External())
	}
	return s
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		descriptor string
		args       []string
		ret        string
		argSlots   int
	}{
		{"(IJLjava/lang/String;)V", []string{"int", "long", "java.lang.String"}, "void", 4},
		{"([I)[[D", []string{"int[]"}, "double[][]", 1},
		{"()V", nil, "void", 0},
		{"(BCDFSZ)Z", []string{"byte", "char", "double", "float", "short", "boolean"}, "boolean", 7},
		{"([[Ljava/util/List;D)Ljava/lang/Object;", []string{"java.util.List[][]", "double"}, "java.lang.Object", 3},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			m, err := ParseMethod(tt.descriptor)
			assert.NoError(t, err)
			assert.Equal(t, tt.args, externals(m.Args))
			assert.Equal(t, tt.ret, m.Return.External())
			assert.Equal(t, tt.argSlots, m.ArgSlots())
			assert.Equal(t, tt.descriptor, m.Internal())
		})
	}
}

func TestParseMethodStructure(t *testing.T) {
	m, err := ParseMethod("([I)[[D")
	assert.NoError(t, err)
	assert.Len(t, m.Args, 1)
	assert.Equal(t, Type{Base: Int, Dims: 1}, m.Args[0])
	assert.Equal(t, Type{Base: Double, Dims: 2}, m.Return)

	m, err = ParseMethod("(Ljava/lang/String;)V")
	assert.NoError(t, err)
	assert.Equal(t, Type{Base: Object, ClassName: "java/lang/String"}, m.Args[0])
	assert.True(t, m.Return.IsVoid())
}

func TestParseField(t *testing.T) {
	typ, err := ParseField("[Ljava/lang/Object;")
	assert.NoError(t, err)
	assert.Equal(t, "java.lang.Object[]", typ.External())
	assert.Equal(t, 1, typ.Slots())

	typ, err = ParseField("J")
	assert.NoError(t, err)
	assert.Equal(t, 2, typ.Slots())
	assert.Equal(t, "J", typ.Internal())
	assert.Equal(t, "long", typ.String())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		method     bool
	}{
		{"missing paren", "IV", true},
		{"unterminated arguments", "(I", true},
		{"unterminated class", "(Ljava/lang/String)V", true},
		{"unknown code", "(Q)V", true},
		{"void argument", "(V)V", true},
		{"void array return", "()[V", true},
		{"missing return", "(I)", true},
		{"trailing", "()VI", true},
		{"empty class name", "(L;)V", true},
		{"array without type", "([)V", true},
		{"field void", "V", false},
		{"field trailing", "II", false},
		{"field empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.method {
				_, err = ParseMethod(tt.descriptor)
			} else {
				_, err = ParseField(tt.descriptor)
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var malformed *MalformedError
			assert.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.descriptor, malformed.Descriptor)
		})
	}
}
