package cache

import (
	"errors"
	"fmt"
)

// StringCodec 负责 T 与字符串之间的转换，ToString 为空时回退到 fmt.Sprint。
type StringCodec[T any] struct {
	ToString   func(T) (string, error)
	FromString func(string) (T, error)
}

// stringConverterCodec 把 T 的字符串形式包进 Envelope，Disk 要求时先加密，
// 再通过共享同一前缀的内部 msgpack 处理器落盘。
type stringConverterCodec[T any] struct {
	inner *Handler[Envelope]
	conv  StringCodec[T]
}

// NewStringConverterHandler 构建以字符串形式存储、可选落盘加密的处理器。
func NewStringConverterHandler[T any](disk *Disk, prefix string, conv StringCodec[T]) (*Handler[T], error) {
	if conv.FromString == nil {
		return nil, fmt.Errorf("%w: FromString is nil", ErrInvalidArgument)
	}
	if conv.ToString == nil {
		conv.ToString = func(value T) (string, error) { return fmt.Sprint(value), nil }
	}

	inner, err := NewHandler[Envelope](disk, prefix, SerializableCodec[Envelope]{})
	if err != nil {
		return nil, err
	}
	inner.mirror = false

	return NewHandler[T](disk, prefix, &stringConverterCodec[T]{inner: inner, conv: conv})
}

func (c *stringConverterCodec[T]) Encode(entry Entry, value T) (bool, error) {
	encrypt := entry.Disk.IsEncrypt()
	encryptConverter, _ := entry.Disk.EncryptConverter()
	if encrypt && encryptConverter == nil {
		return false, fmt.Errorf("%w: encryption is enabled but no encrypt converter is set", ErrConfiguration)
	}

	data, err := c.conv.ToString(value)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return false, err
		}
		return false, fmt.Errorf("%w: convert %T to string: %v", ErrConfiguration, value, err)
	}
	if data == "" {
		return false, fmt.Errorf("%w: value converted to an empty string", ErrConfiguration)
	}

	envelope := Envelope{IsEncrypted: encrypt, Data: data}
	if encrypt {
		ciphertext, err := encryptConverter.Encrypt(data)
		if err != nil {
			return false, fmt.Errorf("%w: encrypt: %v", ErrConfiguration, err)
		}
		if ciphertext == "" {
			return false, fmt.Errorf("%w: encrypt returned an empty string", ErrConfiguration)
		}
		envelope.Data = ciphertext
	}

	return c.inner.put(entry.Key, envelope)
}

func (c *stringConverterCodec[T]) Decode(entry Entry) (T, bool, error) {
	var zero T
	envelope, ok, err := c.inner.get(entry.Key)
	if err != nil || !ok {
		return zero, false, err
	}

	if envelope.Data == "" {
		entry.Logger.Warn("cache entry has an empty envelope")
		return zero, false, nil
	}

	data := envelope.Data
	if envelope.IsEncrypted {
		encryptConverter, _ := entry.Disk.EncryptConverter()
		if encryptConverter == nil {
			return zero, false, fmt.Errorf("%w: entry is encrypted but no encrypt converter is set", ErrConfiguration)
		}
		data, err = encryptConverter.Decrypt(envelope.Data)
		if err != nil {
			return zero, false, fmt.Errorf("%w: decrypt: %v", ErrConfiguration, err)
		}
		if data == "" {
			return zero, false, fmt.Errorf("%w: decrypt returned an empty string", ErrConfiguration)
		}
	}

	value, err := c.conv.FromString(data)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return zero, false, err
		}
		entry.Logger.WithError(err).Warn("cache entry could not be converted")
		return zero, false, nil
	}
	return value, true, nil
}
