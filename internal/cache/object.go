package cache

import (
	"fmt"

	"github.com/any-hub/diskcache/internal/converter"
)

// ObjectPrefix 是对象处理器写入条目的键前缀。
const ObjectPrefix = "object_"

// NewObjectHandler 以 Disk 解析到的 ObjectConverter 生成的字符串形式存储 T。
// 缺少转换器时在 put/get 阶段返回 ErrConfiguration，因此构造后仍可再配置转换器。
func NewObjectHandler[T any](disk *Disk) (*Handler[T], error) {
	if disk == nil {
		return nil, fmt.Errorf("%w: disk is nil", ErrInvalidArgument)
	}
	return NewStringConverterHandler(disk, ObjectPrefix, StringCodec[T]{
		ToString: func(value T) (string, error) {
			conv, err := requireObjectConverter(disk)
			if err != nil {
				return "", err
			}
			return conv.Encode(value)
		},
		FromString: func(data string) (T, error) {
			var value T
			conv, err := requireObjectConverter(disk)
			if err != nil {
				return value, err
			}
			err = conv.Decode(data, &value)
			return value, err
		},
	})
}

func requireObjectConverter(disk *Disk) (converter.ObjectConverter, error) {
	conv, _ := disk.ObjectConverter()
	if conv == nil {
		return nil, fmt.Errorf("%w: no object converter is set", ErrConfiguration)
	}
	return conv, nil
}
