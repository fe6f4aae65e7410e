// Package disasm renders decoded class files as text in the layout of javap.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/classdisasm/internal/access"
	"github.com/retroenv/classdisasm/internal/classfile"
)

const javaLangObject = "java/lang/Object"

// Options of the renderer.
type Options struct {
	Verbose bool // include Code attributes and field constant values
}

// Renderer renders class records. It holds no per class state and can be reused.
type Renderer struct {
	options Options
}

// New returns a new renderer.
func New(options Options) *Renderer {
	return &Renderer{options: options}
}

// Render writes the listing of the class to w. The class is expected to come from
// classfile.Decoder, which guarantees that all pool references resolve.
func (r *Renderer) Render(w io.Writer, cls *classfile.Class) error {
	p := &printer{
		options: r.options,
		cls:     cls,
		pool:    poolView{cls.Pool},
	}
	p.header()
	p.declaration()
	p.summary()
	p.constantPool()
	p.members()
	p.trailer()

	if _, err := io.WriteString(w, p.sb.String()); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// printer accumulates the listing of a single class.
type printer struct {
	options Options
	cls     *classfile.Class
	pool    poolView
	sb      strings.Builder
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) header() {
	meta := p.cls.Metadata
	p.line("Classfile %s", meta.Path)
	p.line("  Last modified %s; size %d bytes", meta.LastModified, meta.Size)
	p.line("  SHA-256 checksum %s", meta.Hash)
	if source, ok := p.cls.SourceFile(); ok {
		p.line("  Compiled from %q", source)
	}
}

func (p *printer) declaration() {
	flags := p.cls.AccessFlags
	parts := flags.Keywords()

	isInterface := flags.Is(access.Interface)
	if isInterface {
		parts = append(parts, "interface")
	} else {
		parts = append(parts, "class")
	}
	parts = append(parts, externalName(p.cls.Name()))

	if super := p.cls.SuperName(); super != "" && super != javaLangObject {
		parts = append(parts, "extends", externalName(super))
	}

	if names := p.cls.InterfaceNames(); len(names) > 0 {
		for i, name := range names {
			names[i] = externalName(name)
		}
		// interfaces list their super interfaces with extends
		if isInterface {
			parts = append(parts, "extends")
		} else {
			parts = append(parts, "implements")
		}
		parts = append(parts, strings.Join(names, ", "))
	}

	p.line("%s", strings.Join(parts, " "))
}

func (p *printer) summary() {
	cls := p.cls
	p.line("  minor version: %d", cls.MinorVersion)
	p.line("  major version: %d", cls.MajorVersion)
	p.line("  flags: %s", cls.AccessFlags)
	p.line("  %-40s// %s", fmt.Sprintf("this_class: #%d", cls.ThisClass), cls.Name())
	if cls.SuperClass == 0 {
		p.line("  super_class: #0")
	} else {
		p.line("  %-40s// %s", fmt.Sprintf("super_class: #%d", cls.SuperClass), cls.SuperName())
	}
	p.line("  interfaces: %d, fields: %d, methods: %d, attributes: %d",
		len(cls.Interfaces), len(cls.Fields), len(cls.Methods), len(cls.Attributes))
}

func (p *printer) trailer() {
	if source, ok := p.cls.SourceFile(); ok {
		p.line("SourceFile: %q", source)
	}
}

// externalName converts an internal binary name to the dotted source form.
func externalName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// simpleName returns the class name without its package.
func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
