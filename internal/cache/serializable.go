package cache

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"
)

// SerializablePrefix 是 NewSerializableHandler 写入条目的键前缀。
const SerializablePrefix = "serializable_"

// SerializableCodec 直接以 msgpack 写入值本身，用于 msgpack 可直接承载的结构以及字符串信封。
type SerializableCodec[T any] struct{}

func (SerializableCodec[T]) Encode(entry Entry, value T) (bool, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%w: msgpack encode %T: %v", ErrConfiguration, value, err)
	}
	if err := writeFileAtomic(entry.FS, entry.Path, data); err != nil {
		entry.Logger.WithError(err).Warn("cache write failed")
		return false, nil
	}
	return true, nil
}

func (SerializableCodec[T]) Decode(entry Entry) (T, bool, error) {
	var value T
	data, err := afero.ReadFile(entry.FS, entry.Path)
	if err != nil {
		entry.Logger.WithError(err).Warn("cache read failed")
		return value, false, nil
	}
	if err := msgpack.Unmarshal(data, &value); err != nil {
		entry.Logger.WithError(err).Warn("cache entry is corrupt")
		var zero T
		return zero, false, nil
	}
	return value, true, nil
}

// NewSerializableHandler 在 SerializablePrefix 下以 msgpack 存储 T。
func NewSerializableHandler[T any](disk *Disk) (*Handler[T], error) {
	return NewHandler[T](disk, SerializablePrefix, SerializableCodec[T]{})
}
