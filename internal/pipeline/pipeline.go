// Package pipeline orchestrates the disassembly workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/classdisasm/internal/classfile"
	"github.com/retroenv/classdisasm/internal/disasm"
	"github.com/retroenv/classdisasm/internal/loader"
	"github.com/retroenv/classdisasm/internal/options"
	"github.com/retroenv/classdisasm/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete disassembly workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new disassembly pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(logger),
	}
}

// Execute loads the input file of the options, writes its listing to writer and
// verifies it against the reference listing if one is set.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*classfile.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading class file: %w", err)
	}

	cls, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading class file: %w", err)
	}

	if err := p.ExecuteWithClass(ctx, cls, opts, writer); err != nil {
		return nil, err
	}
	return cls, nil
}

// ExecuteWithClass runs the rendering and verification stages for an already
// decoded class.
func (p *Pipeline) ExecuteWithClass(ctx context.Context, cls *classfile.Class, opts options.Program, writer io.Writer) error {
	p.printInfo(opts, cls)

	var listing strings.Builder
	renderer := disasm.New(disasm.Options{Verbose: opts.Verbose})
	if err := renderer.Render(io.MultiWriter(writer, &listing), cls); err != nil {
		return fmt.Errorf("rendering listing: %w", err)
	}

	if opts.Reference == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("verifying listing: %w", err)
	}
	if err := verification.VerifyOutput(p.logger, listing.String(), opts.Reference); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	p.logger.Info("Verification successful")
	return nil
}

// printInfo prints information about the class being processed.
func (p *Pipeline) printInfo(opts options.Program, cls *classfile.Class) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing class file",
		log.String("file", opts.Input),
		log.String("class", cls.Name()),
		log.Int("major_version", int(cls.MajorVersion)),
		log.Int("methods", len(cls.Methods)),
	)
	if unknown := cls.AccessFlags.Unknown(); unknown != 0 {
		p.logger.Warn("Class has access flags without meaning",
			log.String("flags", fmt.Sprintf("0x%04x", unknown)))
	}
}
