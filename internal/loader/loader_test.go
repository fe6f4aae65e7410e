package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/classdisasm/internal/classbuilder"
	"github.com/retroenv/classdisasm/internal/classfile"
	"github.com/retroenv/classdisasm/internal/cursor"
	"github.com/retroenv/classdisasm/internal/metadata"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Main.class")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("load class file", func(t *testing.T) {
		b := classbuilder.New("Main", "java/lang/Object")
		b.AddMethod(0x0009, "main", "([Ljava/lang/String;)V")
		data := b.Bytes()
		path := createTempFile(t, data)

		cls, err := New(log.NewTestLogger(t)).Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "Main", cls.Name())
		assert.Len(t, cls.Methods, 1)

		canonical, err := metadata.CanonicalPath(path)
		assert.NoError(t, err)
		assert.Equal(t, canonical, cls.Metadata.Path)
		assert.Equal(t, int64(len(data)), cls.Metadata.Size)
		assert.Equal(t, metadata.Checksum(data), cls.Metadata.Hash)
		assert.NotEmpty(t, cls.Metadata.LastModified)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New(log.NewTestLogger(t)).Load(filepath.Join(t.TempDir(), "missing.class"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("bad magic", func(t *testing.T) {
		path := createTempFile(t, []byte{'P', 'K', 3, 4, 0, 0, 0, 0})

		_, err := New(log.NewTestLogger(t)).Load(path)
		assert.True(t, errors.Is(err, classfile.ErrBadMagic))
	})

	t.Run("truncated", func(t *testing.T) {
		path := createTempFile(t, []byte{0xca, 0xfe, 0xba, 0xbe, 0})

		_, err := New(log.NewTestLogger(t)).Load(path)
		assert.True(t, errors.Is(err, cursor.ErrTruncated))
		assert.ErrorContains(t, err, "decoding header at offset 0")
	})
}
