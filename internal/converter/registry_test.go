package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replaceRegistries(t *testing.T) {
	t.Helper()
	prevFormats, prevCiphers := globalFormats, globalCiphers
	globalFormats = newRegistry[Format]("format")
	globalCiphers = newRegistry[Cipher]("cipher")
	t.Cleanup(func() {
		globalFormats, globalCiphers = prevFormats, prevCiphers
	})
}

func TestBuiltinsRegistered(t *testing.T) {
	assert.Equal(t, []string{"json", "msgpack", "yaml"}, FormatKeys())
	assert.Equal(t, []string{"secretbox", "tink"}, CipherKeys())
}

func TestRegisterResolveIsCaseInsensitive(t *testing.T) {
	replaceRegistries(t)

	require.NoError(t, RegisterFormat(Format{Key: " JSON ", New: func() ObjectConverter { return JSONConverter{} }}))

	format, ok := ResolveFormat("Json")
	require.True(t, ok)
	assert.Equal(t, "json", format.Key)

	_, ok = ResolveFormat("")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicatesAndMissingFactory(t *testing.T) {
	replaceRegistries(t)

	newJSON := func() ObjectConverter { return JSONConverter{} }
	require.NoError(t, RegisterFormat(Format{Key: "json", New: newJSON}))
	assert.Error(t, RegisterFormat(Format{Key: "json", New: newJSON}))
	assert.Error(t, RegisterFormat(Format{Key: "  ", New: newJSON}))
	assert.Error(t, RegisterCipher(Cipher{Key: "noop"}))
}

func TestNewConvertersByKey(t *testing.T) {
	conv, err := NewObjectConverter("yaml")
	require.NoError(t, err)
	assert.IsType(t, YAMLConverter{}, conv)

	_, err = NewObjectConverter("protobuf")
	assert.Error(t, err)

	_, err = NewEncryptConverter("rot13", "x")
	assert.Error(t, err)

	_, err = NewEncryptConverter("secretbox", "")
	assert.Error(t, err)
}
