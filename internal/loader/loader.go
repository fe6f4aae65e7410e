// Package loader handles class file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/classdisasm/internal/classfile"
	"github.com/retroenv/classdisasm/internal/metadata"
	"github.com/retroenv/retrogolib/log"
)

// Loader handles loading class files from disk.
type Loader struct {
	logger  *log.Logger
	decoder *classfile.Decoder
}

// New creates a new class file loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger:  logger,
		decoder: classfile.NewDecoder(logger),
	}
}

// Load reads the file at path completely, collects its metadata and decodes it.
func (l *Loader) Load(path string) (*classfile.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	meta, err := metadata.Collect(path, data)
	if err != nil {
		return nil, fmt.Errorf("collecting metadata of %s: %w", path, err)
	}
	l.logger.Debug("Loaded class file",
		log.String("path", meta.Path),
		log.Int("size", len(data)),
		log.String("sha256", meta.Hash))

	cls, err := l.decoder.Decode(data, meta)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cls, nil
}
