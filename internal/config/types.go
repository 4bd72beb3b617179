package config

import (
	"path/filepath"
	"strings"
)

// Path 是配置中的目录字段，解析时会展开开头的 "~"。
type Path string

// String 返回原始路径字符串。
func (p Path) String() string {
	return string(p)
}

// GlobalConfig 描述全局运行时行为，所有 Disk 共享同一份参数。
type GlobalConfig struct {
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
	StoragePath   Path   `mapstructure:"StoragePath"`
	ListenAddr    string `mapstructure:"ListenAddr"`
	// ObjectFormat 为引擎的全局对象转换器，Disk 未覆盖时使用。
	ObjectFormat string `mapstructure:"ObjectFormat"`
	// Cipher/Secret 为引擎的全局加密转换器，可留空。
	Cipher string `mapstructure:"Cipher"`
	Secret string `mapstructure:"Secret"`
}

// DiskConfig 描述一个缓存目录及其加密与内存镜像开关。
type DiskConfig struct {
	Name          string `mapstructure:"Name"`
	Directory     Path   `mapstructure:"Directory"`
	Encrypt       bool   `mapstructure:"Encrypt"`
	MemorySupport bool   `mapstructure:"MemorySupport"`
	Cipher        string `mapstructure:"Cipher"`
	Secret        string `mapstructure:"Secret"`
	ObjectFormat  string `mapstructure:"ObjectFormat"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Disks  []DiskConfig `mapstructure:"Disk"`
}

// DiskDirectory 返回 Disk 的最终目录：绝对路径原样使用，相对路径挂在 StoragePath 下，
// 未配置时使用 Disk 名称。
func (c *Config) DiskDirectory(d DiskConfig) string {
	dir := strings.TrimSpace(string(d.Directory))
	if dir == "" {
		dir = d.Name
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(string(c.Global.StoragePath), dir)
}

// EncryptionMode 输出 `encrypted` 或 `plain`，供日志字段使用。
func (d DiskConfig) EncryptionMode() string {
	if d.Encrypt {
		return "encrypted"
	}
	return "plain"
}

// DiskModes 返回所有 Disk 的加密模式摘要，例如 session:encrypted。
func DiskModes(disks []DiskConfig) []string {
	if len(disks) == 0 {
		return nil
	}
	result := make([]string, len(disks))
	for i, disk := range disks {
		result[i] = disk.Name + ":" + disk.EncryptionMode()
	}
	return result
}
