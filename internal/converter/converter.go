package converter

import "errors"

// EncryptConverter 负责对落盘字符串进行加解密，两个方法对合法输入都必须返回非空结果。
type EncryptConverter interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ObjectConverter 负责对象与字符串之间的互转，target 必须是指针。
type ObjectConverter interface {
	Encode(value any) (string, error)
	Decode(data string, target any) error
}

// ErrMalformedCiphertext 表示密文长度或编码不合法，无法解密。
var ErrMalformedCiphertext = errors.New("converter: malformed ciphertext")
