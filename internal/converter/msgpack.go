package converter

import (
	"encoding/base64"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackConverter 以 msgpack 二进制编码对象，再用 base64 转为可打印字符串。
type MsgpackConverter struct{}

func (MsgpackConverter) Encode(value any) (string, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("msgpack encode %T: %w", value, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (MsgpackConverter) Decode(data string, target any) error {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("msgpack decode %T: %w", target, err)
	}
	if err := msgpack.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("msgpack decode %T: %w", target, err)
	}
	return nil
}

func init() {
	MustRegisterFormat(Format{
		Key:         "msgpack",
		Description: "base64 encoded msgpack",
		New:         func() ObjectConverter { return MsgpackConverter{} },
	})
}

var _ ObjectConverter = MsgpackConverter{}
