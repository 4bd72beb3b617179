package converter

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/google/tink/go/aead"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/tink"
)

// TinkAEAD 用 Tink AEAD primitive 加密，associatedData 绑定到每条密文。
type TinkAEAD struct {
	primitive      tink.AEAD
	associatedData []byte
}

// NewTinkAEAD 从 keyset handle 构造 AEAD 加密器。
func NewTinkAEAD(handle *keyset.Handle, associatedData []byte) (*TinkAEAD, error) {
	if handle == nil {
		return nil, errors.New("tink keyset handle is nil")
	}
	primitive, err := aead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("tink aead primitive: %w", err)
	}
	return &TinkAEAD{primitive: primitive, associatedData: associatedData}, nil
}

// NewTinkKeyset 生成新的 AES256-GCM keyset。
func NewTinkKeyset() (*keyset.Handle, error) {
	return keyset.NewHandle(aead.AES256GCMKeyTemplate())
}

// LoadTinkKeyset 读取明文 JSON keyset 文件。
func LoadTinkKeyset(path string) (*keyset.Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tink keyset: %w", err)
	}
	defer f.Close()

	handle, err := insecurecleartextkeyset.Read(keyset.NewJSONReader(f))
	if err != nil {
		return nil, fmt.Errorf("read tink keyset: %w", err)
	}
	return handle, nil
}

// WriteTinkKeyset 将 keyset 以明文 JSON 写入文件，仅用于本地开发与测试。
func WriteTinkKeyset(handle *keyset.Handle, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create tink keyset: %w", err)
	}
	if err := insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(f)); err != nil {
		f.Close()
		return fmt.Errorf("write tink keyset: %w", err)
	}
	return f.Close()
}

func (t *TinkAEAD) Encrypt(plaintext string) (string, error) {
	sealed, err := t.primitive.Encrypt([]byte(plaintext), t.associatedData)
	if err != nil {
		return "", fmt.Errorf("tink encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (t *TinkAEAD) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	opened, err := t.primitive.Decrypt(raw, t.associatedData)
	if err != nil {
		return "", fmt.Errorf("tink decrypt: %w", err)
	}
	return string(opened), nil
}

func init() {
	MustRegisterCipher(Cipher{
		Key:         "tink",
		Description: "Tink AEAD; secret is the path of a cleartext JSON keyset",
		New: func(secret string) (EncryptConverter, error) {
			handle, err := LoadTinkKeyset(secret)
			if err != nil {
				return nil, err
			}
			return NewTinkAEAD(handle, []byte("diskcache"))
		},
	})
}

var _ EncryptConverter = (*TinkAEAD)(nil)
