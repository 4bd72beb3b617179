package cache

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/any-hub/diskcache/internal/converter"
	"github.com/any-hub/diskcache/internal/logging"
)

// Engine 是所有 Disk 与 Handler 共享的状态：串行化全部缓存操作的互斥锁、内存层、
// 进程级转换器以及文件系统。测试可各自构建隔离的引擎，程序通常只创建一个。
type Engine struct {
	// mu 是唯一的锁域，put/get/remove 与 Disk.Delete 在整个操作期间持有，不可重入。
	mu     sync.Mutex
	memory *memoryTier

	fs      afero.Fs
	logger  logrus.FieldLogger
	digest  DigestFunc
	metrics *Metrics

	// confMu 保护全局转换器槽位，它们会在持有 mu 的操作内部被读取。
	confMu        sync.RWMutex
	globalEncrypt converter.EncryptConverter
	globalObject  converter.ObjectConverter
}

// Option 用于定制 Engine。
type Option func(*Engine)

// WithFileSystem 替换默认的 OS 文件系统，测试中通常传入 afero.NewMemMapFs。
func WithFileSystem(fsys afero.Fs) Option {
	return func(e *Engine) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// WithLogger 设置记录 I/O 失败的日志器。
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDigest 覆盖文件名摘要算法，默认 MD5。
func WithDigest(digest DigestFunc) Option {
	return func(e *Engine) {
		e.digest = digest
	}
}

// WithMetrics 挂载 prometheus 指标。
func WithMetrics(metrics *Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// NewEngine 构建引擎并试算一次摘要，摘要不可用时返回 ErrDigestUnavailable。
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		memory: newMemoryTier(),
		fs:     afero.NewOsFs(),
		logger: logging.Discard(),
		digest: MD5Digest,
	}
	for _, opt := range opts {
		opt(e)
	}

	if _, err := checkDigest(e.digest, []byte("probe")); err != nil {
		return nil, err
	}
	return e, nil
}

// NewDisk 创建挂在该引擎上的缓存目录描述，目录在首次使用时才创建。
func (e *Engine) NewDisk(directory string) *Disk {
	return &Disk{engine: e, directory: directory}
}

// FileSystem 返回引擎使用的文件系统。
func (e *Engine) FileSystem() afero.Fs {
	return e.fs
}

// SetGlobalEncryptConverter 设置全局加密转换器，供未单独配置的 Disk 回退使用；传 nil 清除。
func (e *Engine) SetGlobalEncryptConverter(conv converter.EncryptConverter) {
	e.confMu.Lock()
	e.globalEncrypt = conv
	e.confMu.Unlock()
}

// SetGlobalObjectConverter 设置全局对象转换器；传 nil 清除。
func (e *Engine) SetGlobalObjectConverter(conv converter.ObjectConverter) {
	e.confMu.Lock()
	e.globalObject = conv
	e.confMu.Unlock()
}

// GlobalEncryptConverter 返回全局加密转换器及其是否存在。
func (e *Engine) GlobalEncryptConverter() (converter.EncryptConverter, bool) {
	e.confMu.RLock()
	defer e.confMu.RUnlock()
	return e.globalEncrypt, e.globalEncrypt != nil
}

// GlobalObjectConverter 返回全局对象转换器及其是否存在。
func (e *Engine) GlobalObjectConverter() (converter.ObjectConverter, bool) {
	e.confMu.RLock()
	defer e.confMu.RUnlock()
	return e.globalObject, e.globalObject != nil
}

// MemoryLen 返回内存层当前的条目数。
func (e *Engine) MemoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.len()
}

// ClearMemory 清空内存层，磁盘内容不受影响。
func (e *Engine) ClearMemory() {
	e.mu.Lock()
	e.memory = newMemoryTier()
	e.mu.Unlock()
}

func (e *Engine) entryLogger(op, directory, key string) logrus.FieldLogger {
	return e.logger.WithFields(logging.CacheFields(op, directory, key))
}
