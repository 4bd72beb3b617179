package cache

import "strconv"

// 内置字符串转换处理器的键前缀。
const (
	StringPrefix  = "string_"
	IntPrefix     = "int_"
	Int64Prefix   = "long_"
	Float64Prefix = "double_"
	BoolPrefix    = "boolean_"
)

// NewStringHandler 存储原始字符串，写入空字符串会被拒绝。
func NewStringHandler(disk *Disk) (*Handler[string], error) {
	return NewStringConverterHandler(disk, StringPrefix, StringCodec[string]{
		ToString:   func(v string) (string, error) { return v, nil },
		FromString: func(s string) (string, error) { return s, nil },
	})
}

func NewIntHandler(disk *Disk) (*Handler[int], error) {
	return NewStringConverterHandler(disk, IntPrefix, StringCodec[int]{
		ToString:   func(v int) (string, error) { return strconv.Itoa(v), nil },
		FromString: strconv.Atoi,
	})
}

func NewInt64Handler(disk *Disk) (*Handler[int64], error) {
	return NewStringConverterHandler(disk, Int64Prefix, StringCodec[int64]{
		ToString: func(v int64) (string, error) { return strconv.FormatInt(v, 10), nil },
		FromString: func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		},
	})
}

func NewFloat64Handler(disk *Disk) (*Handler[float64], error) {
	return NewStringConverterHandler(disk, Float64Prefix, StringCodec[float64]{
		ToString: func(v float64) (string, error) { return strconv.FormatFloat(v, 'g', -1, 64), nil },
		FromString: func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		},
	})
}

func NewBoolHandler(disk *Disk) (*Handler[bool], error) {
	return NewStringConverterHandler(disk, BoolPrefix, StringCodec[bool]{
		ToString:   func(v bool) (string, error) { return strconv.FormatBool(v), nil },
		FromString: strconv.ParseBool,
	})
}
