package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/classdisasm/internal/classbuilder"
	"github.com/retroenv/classdisasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// minimalClass returns a one method class without super class and interfaces.
func minimalClass() []byte {
	b := classbuilder.New("Minimal", "")
	code := b.Code(0, 1, []byte{0xb1}, nil)
	b.AddMethod(0x0001, "<init>", "()V", code)
	return b.Bytes()
}

func TestNew(t *testing.T) {
	p := New(log.NewTestLogger(t))

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
}

//nolint:funlen // test functions can be long
func TestExecute(t *testing.T) {
	input := createTempFile(t, "Minimal.class", minimalClass())

	t.Run("execute pipeline successfully", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		opts := options.Program{Parameters: options.Parameters{Input: input}}

		var buf bytes.Buffer
		cls, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
		assert.Equal(t, "Minimal", cls.Name())

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Classfile "))
		assert.Contains(t, out, "  interfaces: 0, fields: 0, methods: 1, attributes: 0\n")
		assert.Contains(t, out, "  super_class: #0\n")
		assert.Contains(t, out, "  public Minimal();\n")
		assert.False(t, strings.Contains(out, "Code:"))
	})

	t.Run("verbose", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		opts := options.Program{
			Parameters:  options.Parameters{Input: input},
			Flags:       options.Flags{Quiet: true},
			OutputFlags: options.OutputFlags{Verbose: true},
		}

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "      stack=0, locals=1, args_size=1\n")
	})

	t.Run("verify against reference", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		opts := options.Program{Parameters: options.Parameters{Input: input}}

		var first bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &first)
		assert.NoError(t, err)

		opts.Reference = createTempFile(t, "Minimal.javap", first.Bytes())
		var second bytes.Buffer
		_, err = p.Execute(context.Background(), opts, &second)
		assert.NoError(t, err)
		assert.Equal(t, first.String(), second.String())

		changed := strings.Replace(first.String(), "major version: 52", "major version: 61", 1)
		opts.Reference = createTempFile(t, "Changed.javap", []byte(changed))
		_, err = p.Execute(context.Background(), opts, &second)
		assert.ErrorContains(t, err, "verification failed")
	})

	t.Run("invalid class file", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		opts := options.Program{Parameters: options.Parameters{
			Input: createTempFile(t, "Broken.class", []byte("not a class file")),
		}}

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &buf)
		assert.ErrorContains(t, err, "bad magic")
		assert.Equal(t, 0, buf.Len())
	})

	t.Run("cancelled context", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := options.Program{Parameters: options.Parameters{Input: input}}
		_, err := p.Execute(ctx, opts, &bytes.Buffer{})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
