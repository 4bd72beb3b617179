package converter

import (
	"fmt"

	"github.com/goccy/go-json"
)

// JSONConverter 使用 JSON 作为对象的字符串形式，是默认格式。
type JSONConverter struct{}

func (JSONConverter) Encode(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("json encode %T: %w", value, err)
	}
	return string(data), nil
}

func (JSONConverter) Decode(data string, target any) error {
	if err := json.Unmarshal([]byte(data), target); err != nil {
		return fmt.Errorf("json decode %T: %w", target, err)
	}
	return nil
}

func init() {
	MustRegisterFormat(Format{
		Key:         "json",
		Description: "JSON text",
		New:         func() ObjectConverter { return JSONConverter{} },
	})
}

var _ ObjectConverter = JSONConverter{}
