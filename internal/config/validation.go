package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/any-hub/diskcache/internal/converter"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := &c.Global
	if strings.TrimSpace(string(g.StoragePath)) == "" {
		return newFieldError("Global.StoragePath", "不能为空")
	}
	if err := validateListenAddr(g.ListenAddr); err != nil {
		return fmt.Errorf("Global.ListenAddr: %w", err)
	}
	if g.ObjectFormat != "" {
		format, err := normalizeFormat(g.ObjectFormat)
		if err != nil {
			return newFieldError("Global.ObjectFormat", err.Error())
		}
		g.ObjectFormat = format
	}
	if g.Cipher != "" {
		cipher, err := normalizeCipher(g.Cipher)
		if err != nil {
			return newFieldError("Global.Cipher", err.Error())
		}
		g.Cipher = cipher
		if g.Secret == "" {
			return newFieldError("Global.Secret", "配置 Cipher 时必须提供")
		}
	}

	if len(c.Disks) == 0 {
		return errors.New("至少需要配置一个 Disk")
	}

	seenNames := map[string]struct{}{}
	for i := range c.Disks {
		disk := &c.Disks[i]
		disk.Name = strings.TrimSpace(disk.Name)
		if disk.Name == "" {
			return newFieldError("Disk[].Name", "不能为空")
		}
		if strings.ContainsAny(disk.Name, `/\ `) {
			return newFieldError(diskField(disk.Name, "Name"), "不允许包含路径分隔符或空格")
		}
		if _, exists := seenNames[disk.Name]; exists {
			return newFieldError(diskField(disk.Name, "Name"), "重复")
		}
		seenNames[disk.Name] = struct{}{}

		if disk.ObjectFormat != "" {
			format, err := normalizeFormat(disk.ObjectFormat)
			if err != nil {
				return newFieldError(diskField(disk.Name, "ObjectFormat"), err.Error())
			}
			disk.ObjectFormat = format
		}

		if disk.Cipher != "" {
			cipher, err := normalizeCipher(disk.Cipher)
			if err != nil {
				return newFieldError(diskField(disk.Name, "Cipher"), err.Error())
			}
			disk.Cipher = cipher
			if disk.Secret == "" {
				return newFieldError(diskField(disk.Name, "Secret"), "配置 Cipher 时必须提供")
			}
		}
		if disk.Encrypt && disk.Cipher == "" && g.Cipher == "" {
			return newFieldError(diskField(disk.Name, "Encrypt"), "开启加密时需要 Disk 或全局 Cipher")
		}
	}

	return nil
}

func normalizeFormat(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := converter.ResolveFormat(key); !ok {
		return "", fmt.Errorf("仅支持 %s", strings.Join(converter.FormatKeys(), "/"))
	}
	return key, nil
}

func normalizeCipher(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := converter.ResolveCipher(key); !ok {
		return "", fmt.Errorf("仅支持 %s", strings.Join(converter.CipherKeys(), "/"))
	}
	return key, nil
}

func validateListenAddr(addr string) error {
	if addr == "" {
		return errors.New("不能为空")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if port == "" {
		return errors.New("缺少端口")
	}
	return nil
}
