package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/any-hub/diskcache/internal/cache"
	"github.com/any-hub/diskcache/internal/config"
	"github.com/any-hub/diskcache/internal/converter"
)

// DiskRoute 将 Disk 配置与运行期对象聚合在一起，供 CLI 与管理端直接复用。
type DiskRoute struct {
	// Config 是用户在 config.toml 中声明的 Disk 字段副本。
	Config config.DiskConfig
	// Directory 是解析 StoragePath 之后的最终目录。
	Directory string
	Disk      *cache.Disk
	// Strings 是管理端与 CLI 读写条目使用的字符串处理器。
	Strings *cache.Handler[string]
}

// DiskRegistry 提供按名称查找 DiskRoute 的能力。
type DiskRegistry struct {
	routes  map[string]*DiskRoute
	ordered []*DiskRoute
}

// NewDiskRegistry 根据配置为每个 Disk 构建路由。调用方应在启动阶段创建一次并复用。
func NewDiskRegistry(cfg *config.Config, engine *cache.Engine) (*DiskRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if engine == nil {
		return nil, errors.New("engine is nil")
	}

	registry := &DiskRegistry{
		routes: make(map[string]*DiskRoute, len(cfg.Disks)),
	}

	for _, diskCfg := range cfg.Disks {
		name := strings.TrimSpace(diskCfg.Name)
		if name == "" {
			return nil, errors.New("disk name is empty")
		}
		if _, exists := registry.routes[name]; exists {
			return nil, fmt.Errorf("duplicate disk name detected for %s", name)
		}

		route, err := buildDiskRoute(cfg, engine, diskCfg)
		if err != nil {
			return nil, err
		}
		registry.routes[name] = route
		registry.ordered = append(registry.ordered, route)
	}

	return registry, nil
}

// Lookup 根据名称查找 DiskRoute。
func (r *DiskRegistry) Lookup(name string) (*DiskRoute, bool) {
	if r == nil {
		return nil, false
	}
	route, ok := r.routes[strings.TrimSpace(name)]
	return route, ok
}

// List 返回按配置顺序排列的 DiskRoute，用于 /-/disks 输出。
func (r *DiskRegistry) List() []*DiskRoute {
	if r == nil || len(r.ordered) == 0 {
		return nil
	}
	result := make([]*DiskRoute, len(r.ordered))
	copy(result, r.ordered)
	return result
}

func buildDiskRoute(cfg *config.Config, engine *cache.Engine, diskCfg config.DiskConfig) (*DiskRoute, error) {
	directory := cfg.DiskDirectory(diskCfg)
	disk := engine.NewDisk(directory).
		SetEncrypt(diskCfg.Encrypt).
		SetMemorySupport(diskCfg.MemorySupport)

	if diskCfg.Cipher != "" {
		conv, err := converter.NewEncryptConverter(diskCfg.Cipher, diskCfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("disk %s: %w", diskCfg.Name, err)
		}
		disk.SetEncryptConverter(conv)
	}
	if diskCfg.ObjectFormat != "" {
		conv, err := converter.NewObjectConverter(diskCfg.ObjectFormat)
		if err != nil {
			return nil, fmt.Errorf("disk %s: %w", diskCfg.Name, err)
		}
		disk.SetObjectConverter(conv)
	}

	strs, err := cache.NewStringHandler(disk)
	if err != nil {
		return nil, fmt.Errorf("disk %s: %w", diskCfg.Name, err)
	}

	return &DiskRoute{
		Config:    diskCfg,
		Directory: directory,
		Disk:      disk,
		Strings:   strs,
	}, nil
}

// Purge 删除 Disk 目录并清空引擎内存层。内存键不含目录，无法只清理单个 Disk。
func (r *DiskRoute) Purge() error {
	if err := r.Disk.Delete(); err != nil {
		return err
	}
	r.Disk.Engine().ClearMemory()
	return nil
}
