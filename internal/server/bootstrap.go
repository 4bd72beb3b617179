package server

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/any-hub/diskcache/internal/cache"
	"github.com/any-hub/diskcache/internal/config"
	"github.com/any-hub/diskcache/internal/converter"
)

// Runtime 聚合一次进程内共享的缓存引擎、Disk 路由与指标注册表。
type Runtime struct {
	Engine   *cache.Engine
	Registry *DiskRegistry
	Metrics  *prometheus.Registry
}

// BootstrapOptions 允许测试替换文件系统。
type BootstrapOptions struct {
	Logger logrus.FieldLogger
	FS     afero.Fs
}

// Bootstrap 根据配置构建引擎：设置全局转换器、注册指标，并为每个 [[Disk]] 创建路由。
func Bootstrap(cfg *config.Config, opts BootstrapOptions) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	reg := prometheus.NewRegistry()
	metrics, err := cache.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("注册缓存指标失败: %w", err)
	}

	engineOpts := []cache.Option{cache.WithMetrics(metrics)}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, cache.WithLogger(opts.Logger))
	}
	if opts.FS != nil {
		engineOpts = append(engineOpts, cache.WithFileSystem(opts.FS))
	}
	engine, err := cache.NewEngine(engineOpts...)
	if err != nil {
		return nil, err
	}

	if err := applyGlobalConverters(engine, cfg.Global); err != nil {
		return nil, err
	}

	registry, err := NewDiskRegistry(cfg, engine)
	if err != nil {
		return nil, err
	}

	return &Runtime{Engine: engine, Registry: registry, Metrics: reg}, nil
}

func applyGlobalConverters(engine *cache.Engine, g config.GlobalConfig) error {
	if g.ObjectFormat != "" {
		conv, err := converter.NewObjectConverter(g.ObjectFormat)
		if err != nil {
			return fmt.Errorf("Global.ObjectFormat: %w", err)
		}
		engine.SetGlobalObjectConverter(conv)
	}
	if g.Cipher != "" {
		conv, err := converter.NewEncryptConverter(g.Cipher, g.Secret)
		if err != nil {
			return fmt.Errorf("Global.Cipher: %w", err)
		}
		engine.SetGlobalEncryptConverter(conv)
	}
	return nil
}
