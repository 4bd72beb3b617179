package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testDir = "/cache/test"

// countingFs counts opens for reading so tests can assert the disk was not touched.
type countingFs struct {
	afero.Fs
	reads atomic.Int64
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.reads.Add(1)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		c.reads.Add(1)
	}
	return c.Fs.OpenFile(name, flag, perm)
}

// failingRemoveFs refuses every file removal.
type failingRemoveFs struct {
	afero.Fs
}

func (failingRemoveFs) Remove(string) error {
	return errors.New("remove refused")
}

// xorCipher is a reversible stand-in for a real cipher.
type xorCipher struct {
	key byte
}

func (x xorCipher) Encrypt(plaintext string) (string, error) {
	out := []byte(plaintext)
	for i := range out {
		out[i] ^= x.key
	}
	return hex.EncodeToString(out), nil
}

func (x xorCipher) Decrypt(ciphertext string) (string, error) {
	out, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	for i := range out {
		out[i] ^= x.key
	}
	return string(out), nil
}

// emptyCipher violates the converter contract by returning empty output.
type emptyCipher struct{}

func (emptyCipher) Encrypt(string) (string, error) { return "", nil }
func (emptyCipher) Decrypt(string) (string, error) { return "", nil }

type profile struct {
	Name string `json:"name" msgpack:"name"`
	Age  int    `json:"age,omitempty" msgpack:"age"`
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithFileSystem(afero.NewMemMapFs())}, opts...)
	engine, err := NewEngine(opts...)
	require.NoError(t, err)
	return engine
}

func newStringHandler(t *testing.T, disk *Disk) *Handler[string] {
	t.Helper()
	handler, err := NewStringHandler(disk)
	require.NoError(t, err)
	return handler
}
