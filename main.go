package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/any-hub/diskcache/internal/config"
	"github.com/any-hub/diskcache/internal/logging"
	"github.com/any-hub/diskcache/internal/server"
	"github.com/any-hub/diskcache/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	op          string
	disk        string
	key         string
	value       string
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["disks"] = len(cfg.Disks)
		fields["modes"] = config.DiskModes(cfg.Disks)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动顺序固定为“配置 → 引擎 → DiskRegistry → 一次性操作或管理端”，
	// 所有 Disk 共享同一个引擎，也就共享同一把锁与内存层。
	rt, err := server.Bootstrap(cfg, server.BootstrapOptions{Logger: logger})
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存引擎失败: %v\n", err)
		return 1
	}

	if opts.op != "" {
		return runOp(rt, opts)
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["disks"] = len(cfg.Disks)
	fields["modes"] = config.DiskModes(cfg.Disks)
	fields["listen_addr"] = cfg.Global.ListenAddr
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, rt, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("diskcache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		opts       cliOptions
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 DISKCACHE_CONFIG 覆盖）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")
	fs.StringVar(&opts.op, "op", "", "一次性操作: put|get|remove|purge|size|keys")
	fs.StringVar(&opts.disk, "disk", "", "操作的 Disk 名称")
	fs.StringVar(&opts.key, "key", "", "条目键")
	fs.StringVar(&opts.value, "value", "", "put 写入的值")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	if opts.op != "" {
		if _, ok := operations[opts.op]; !ok {
			return cliOptions{}, fmt.Errorf("未知操作: %s", opts.op)
		}
		if opts.disk == "" {
			return cliOptions{}, errors.New("-op 需要同时指定 -disk")
		}
	}

	path := os.Getenv("DISKCACHE_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}
	opts.configPath = path

	return opts, nil
}

// serve 启动管理端，收到信号后优雅关闭。
func serve(ctx context.Context, cfg *config.Config, rt *server.Runtime, logger *logrus.Logger) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:   logger,
		Registry: rt.Registry,
		Gatherer: rt.Metrics,
	})
	if err != nil {
		return err
	}

	addr := cfg.Global.ListenAddr
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"addr":   addr,
	}).Info("Fiber 服务启动")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.WithField("action", "shutdown").Info("Fiber 服务关闭")
		return app.Shutdown()
	})
	return g.Wait()
}
