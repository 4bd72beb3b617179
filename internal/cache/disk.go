package cache

import (
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/any-hub/diskcache/internal/converter"
)

// Source 表示解析到的转换器来源。
type Source int

const (
	SourceNone Source = iota
	SourceInstance
	SourceGlobal
)

func (s Source) String() string {
	switch s {
	case SourceInstance:
		return "instance"
	case SourceGlobal:
		return "global"
	default:
		return "none"
	}
}

// Disk 描述一个缓存目录及其加密、内存镜像配置，可被多个 Handler 共享。
type Disk struct {
	engine    *Engine
	directory string

	mu               sync.RWMutex
	encrypt          bool
	memorySupport    bool
	encryptConverter converter.EncryptConverter
	objectConverter  converter.ObjectConverter
}

// SetEncrypt 控制后续写入是否加密；已写入的条目按各自信封中的标记解密。
func (d *Disk) SetEncrypt(encrypt bool) *Disk {
	d.mu.Lock()
	d.encrypt = encrypt
	d.mu.Unlock()
	return d
}

// SetMemorySupport 控制是否把读写结果镜像到引擎的内存层。
func (d *Disk) SetMemorySupport(memorySupport bool) *Disk {
	d.mu.Lock()
	d.memorySupport = memorySupport
	d.mu.Unlock()
	return d
}

// SetEncryptConverter 设置实例级加密转换器；传 nil 表示未设置，回退到全局。
func (d *Disk) SetEncryptConverter(conv converter.EncryptConverter) *Disk {
	d.mu.Lock()
	d.encryptConverter = conv
	d.mu.Unlock()
	return d
}

// SetObjectConverter 设置实例级对象转换器；传 nil 表示未设置，回退到全局。
func (d *Disk) SetObjectConverter(conv converter.ObjectConverter) *Disk {
	d.mu.Lock()
	d.objectConverter = conv
	d.mu.Unlock()
	return d
}

// ClearEncryptConverter 清除实例级加密转换器，之后回退到全局转换器。
func (d *Disk) ClearEncryptConverter() *Disk {
	return d.SetEncryptConverter(nil)
}

// ClearObjectConverter 清除实例级对象转换器。
func (d *Disk) ClearObjectConverter() *Disk {
	return d.SetObjectConverter(nil)
}

func (d *Disk) IsEncrypt() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.encrypt
}

func (d *Disk) IsMemorySupport() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.memorySupport
}

// EncryptConverter 按 实例 → 全局 → 无 的顺序解析加密转换器。
func (d *Disk) EncryptConverter() (converter.EncryptConverter, Source) {
	d.mu.RLock()
	conv := d.encryptConverter
	d.mu.RUnlock()
	if conv != nil {
		return conv, SourceInstance
	}
	if global, ok := d.engine.GlobalEncryptConverter(); ok {
		return global, SourceGlobal
	}
	return nil, SourceNone
}

// ObjectConverter 按 实例 → 全局 → 无 的顺序解析对象转换器。
func (d *Disk) ObjectConverter() (converter.ObjectConverter, Source) {
	d.mu.RLock()
	conv := d.objectConverter
	d.mu.RUnlock()
	if conv != nil {
		return conv, SourceInstance
	}
	if global, ok := d.engine.GlobalObjectConverter(); ok {
		return global, SourceGlobal
	}
	return nil, SourceNone
}

// Directory 返回缓存目录，每次调用都会确保目录（含父目录）存在。
func (d *Disk) Directory() (string, error) {
	if err := d.engine.fs.MkdirAll(d.directory, 0o755); err != nil {
		return d.directory, err
	}
	return d.directory, nil
}

// Path 返回配置的目录，不访问文件系统。
func (d *Disk) Path() string {
	return d.directory
}

// Engine 返回 Disk 所属的引擎。
func (d *Disk) Engine() *Engine {
	return d.engine
}

// Delete 递归删除整个缓存目录。内存层不会被清理，因为其键不包含目录信息。
func (d *Disk) Delete() error {
	e := d.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.fs.RemoveAll(d.directory); err != nil {
		e.entryLogger("delete", d.directory, "").WithError(err).Warn("cache directory delete failed")
		e.metrics.observe("delete", resultFailed)
		return err
	}
	e.metrics.observe("delete", resultOK)
	return nil
}

// Size 返回目录下所有文件的总字节数。
func (d *Disk) Size() (int64, error) {
	e := d.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	return directorySize(e.fs, d.directory)
}

// Keys 列出目录中的真实键（文件名），目录不存在时返回空列表。
func (d *Disk) Keys() ([]string, error) {
	e := d.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	exists, err := afero.DirExists(e.fs, d.directory)
	if err != nil || !exists {
		return nil, err
	}
	infos, err := afero.ReadDir(e.fs, d.directory)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.Mode().IsRegular() || isTempFile(info.Name()) {
			continue
		}
		keys = append(keys, info.Name())
	}
	sort.Strings(keys)
	return keys, nil
}
