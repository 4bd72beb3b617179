package converter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLConverter 以 YAML 文本保存对象，便于人工查看缓存文件。
type YAMLConverter struct{}

func (YAMLConverter) Encode(value any) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("yaml encode %T: %w", value, err)
	}
	return string(data), nil
}

func (YAMLConverter) Decode(data string, target any) error {
	if err := yaml.Unmarshal([]byte(data), target); err != nil {
		return fmt.Errorf("yaml decode %T: %w", target, err)
	}
	return nil
}

func init() {
	MustRegisterFormat(Format{
		Key:         "yaml",
		Description: "YAML document",
		New:         func() ObjectConverter { return YAMLConverter{} },
	})
}

var _ ObjectConverter = YAMLConverter{}
