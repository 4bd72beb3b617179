package converter

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	secretboxKeySize   = 32
	secretboxNonceSize = 24
)

// scrypt 参数固定，保证同一口令在重启后派生出相同密钥。
var secretboxSalt = []byte("diskcache/secretbox/v1")

// Secretbox 使用 NaCl secretbox（XSalsa20-Poly1305）加密，密文格式为 base64(nonce || box)。
type Secretbox struct {
	key    [secretboxKeySize]byte
	random io.Reader
}

// NewSecretbox 以 32 字节原始密钥构造加密器。
func NewSecretbox(key [secretboxKeySize]byte) *Secretbox {
	return &Secretbox{key: key, random: rand.Reader}
}

// NewSecretboxFromPassphrase 通过 scrypt 从口令派生密钥。
func NewSecretboxFromPassphrase(passphrase string) (*Secretbox, error) {
	if passphrase == "" {
		return nil, errors.New("secretbox passphrase is empty")
	}
	derived, err := scrypt.Key([]byte(passphrase), secretboxSalt, 1<<15, 8, 1, secretboxKeySize)
	if err != nil {
		return nil, fmt.Errorf("derive secretbox key: %w", err)
	}
	var key [secretboxKeySize]byte
	copy(key[:], derived)
	return NewSecretbox(key), nil
}

func (s *Secretbox) Encrypt(plaintext string) (string, error) {
	var nonce [secretboxNonceSize]byte
	if _, err := io.ReadFull(s.random, nonce[:]); err != nil {
		return "", fmt.Errorf("secretbox nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Secretbox) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) < secretboxNonceSize+secretbox.Overhead {
		return "", ErrMalformedCiphertext
	}
	var nonce [secretboxNonceSize]byte
	copy(nonce[:], raw[:secretboxNonceSize])
	opened, ok := secretbox.Open(nil, raw[secretboxNonceSize:], &nonce, &s.key)
	if !ok {
		return "", errors.New("secretbox: authentication failed")
	}
	return string(opened), nil
}

func init() {
	MustRegisterCipher(Cipher{
		Key:         "secretbox",
		Description: "NaCl secretbox keyed by an scrypt-derived passphrase",
		New: func(secret string) (EncryptConverter, error) {
			return NewSecretboxFromPassphrase(secret)
		},
	})
}

var _ EncryptConverter = (*Secretbox)(nil)
