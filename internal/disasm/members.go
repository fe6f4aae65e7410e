package disasm

import (
	"strconv"
	"strings"

	"github.com/retroenv/classdisasm/internal/access"
	"github.com/retroenv/classdisasm/internal/attribute"
	"github.com/retroenv/classdisasm/internal/classfile"
	"github.com/retroenv/classdisasm/internal/constpool"
)

func (p *printer) members() {
	p.line("{")
	first := true
	separate := func() {
		if !first {
			p.line("")
		}
		first = false
	}

	for _, f := range p.cls.Fields {
		separate()
		p.field(f)
	}
	for _, m := range p.cls.Methods {
		separate()
		p.method(m)
	}
	p.line("}")
}

func (p *printer) field(f *classfile.Field) {
	decl := append(f.AccessFlags.Keywords(), f.Type.External(), f.Name)
	p.line("  %s;", strings.Join(decl, " "))
	p.line("    descriptor: %s", p.pool.utf8(f.DescriptorIndex))
	p.line("    flags: %s", f.AccessFlags)

	if !p.options.Verbose {
		return
	}
	if cv, ok := f.ConstantValue(); ok {
		p.line("    ConstantValue: %s", p.constantValue(cv.Index))
	}
}

// constantValue renders a field initializer as type and value.
func (p *printer) constantValue(index uint16) string {
	e, err := p.pool.Entry(index)
	if err != nil {
		return ""
	}

	switch e := e.(type) {
	case constpool.Integer:
		return "int " + strconv.Itoa(int(e.Value))
	case constpool.Float:
		return "float " + javaFloat(float64(e.Value), 32) + "f"
	case constpool.Long:
		return "long " + strconv.FormatInt(e.Value, 10) + "l"
	case constpool.Double:
		return "double " + javaFloat(e.Value, 64) + "d"
	case constpool.String:
		return "String " + escape(p.pool.utf8(e.StringIndex))
	default:
		return ""
	}
}

func (p *printer) method(m *classfile.Method) {
	p.line("  %s;", p.signature(m))
	p.line("    descriptor: %s", p.pool.utf8(m.DescriptorIndex))
	p.line("    flags: %s", m.AccessFlags)

	if !p.options.Verbose {
		return
	}
	if code, ok := m.Code(); ok {
		p.code(m, code)
	}
}

// signature reconstructs the source declaration of a method.
func (p *printer) signature(m *classfile.Method) string {
	if m.IsStaticInitializer() {
		return "static {}"
	}

	decl := m.AccessFlags.Keywords()
	name := m.Name
	if m.IsConstructor() {
		name = simpleName(p.cls.Name())
	} else {
		decl = append(decl, m.Descriptor.Return.External())
	}

	args := make([]string, len(m.Descriptor.Args))
	for i, arg := range m.Descriptor.Args {
		args[i] = arg.External()
	}
	if last := len(args) - 1; last >= 0 && m.AccessFlags.Is(access.Varargs) && m.Descriptor.Args[last].Dims > 0 {
		args[last] = strings.TrimSuffix(args[last], "[]") + "..."
	}

	decl = append(decl, name+"("+strings.Join(args, ", ")+")")
	return strings.Join(decl, " ")
}

func (p *printer) code(m *classfile.Method, code *attribute.Code) {
	argsSize := m.Descriptor.ArgSlots()
	if !m.AccessFlags.Is(access.Static) {
		argsSize++ // this
	}

	p.line("    Code:")
	p.line("      stack=%d, locals=%d, args_size=%d", code.MaxStack, code.MaxLocals, argsSize)

	if len(code.ExceptionTable) > 0 {
		p.line("      Exception table:")
		p.line("         from    to  target type")
		for _, h := range code.ExceptionTable {
			catchType := "any"
			if h.CatchType != 0 {
				catchType = "Class " + p.pool.className(h.CatchType)
			}
			p.line("        %5d %5d %7d   %s", h.StartPC, h.EndPC, h.HandlerPC, catchType)
		}
	}

	for _, attr := range code.Attributes {
		switch attr := attr.(type) {
		case attribute.LineNumberTable:
			p.line("      LineNumberTable:")
			for _, e := range attr.Entries {
				p.line("        line %d: %d", e.Line, e.StartPC)
			}

		case attribute.LocalVariableTable:
			p.line("      LocalVariableTable:")
			p.line("        Start  Length  Slot  Name   Signature")
			for _, e := range attr.Entries {
				p.line("        %5d %7d %5d %5s   %s", e.StartPC, e.Length, e.Slot,
					p.pool.utf8(e.NameIndex), p.pool.utf8(e.DescriptorIndex))
			}
		}
	}
}
