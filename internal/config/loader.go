package config

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	if err := v.BindEnv("Secret", "DISKCACHE_SECRET"); err != nil {
		return nil, fmt.Errorf("绑定环境变量失败: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(pathDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absStorage, err := filepath.Abs(string(cfg.Global.StoragePath))
	if err != nil {
		return nil, fmt.Errorf("无法解析缓存目录: %w", err)
	}
	cfg.Global.StoragePath = Path(absStorage)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("StoragePath", "./storage")
	v.SetDefault("ListenAddr", "127.0.0.1:5130")
	v.SetDefault("ObjectFormat", "json")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.ListenAddr == "" {
		g.ListenAddr = "127.0.0.1:5130"
	}
	if g.ObjectFormat == "" {
		g.ObjectFormat = "json"
	}
}

// pathDecodeHook 展开 Path 字段中的 "~"，其余类型原样返回。
func pathDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Path(""))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			expanded, err := homedir.Expand(v)
			if err != nil {
				return nil, fmt.Errorf("无法展开路径 %s: %w", v, err)
			}
			return Path(expanded), nil
		case Path:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的路径类型: %T", v)
		}
	}
}
