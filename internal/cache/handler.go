package cache

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Entry 是一次操作中 Codec 看到的上下文：逻辑键、对应文件路径以及读写所需的依赖。
type Entry struct {
	Key    string
	Path   string
	Disk   *Disk
	FS     afero.Fs
	Logger logrus.FieldLogger
}

// Codec 负责一类值在磁盘上的字节格式。
//
// 写文件失败时 Encode 返回 false 且 error 为 nil；条目无法读取或解析时 Decode 返回 false。
// error 只用于 ErrConfiguration 等致命情况。两者都在持有引擎锁时调用。
type Codec[T any] interface {
	Encode(entry Entry, value T) (bool, error)
	Decode(entry Entry) (T, bool, error)
}

// Handler 在一个键前缀下执行 T 类型值的 put/get/remove 流程，所有操作都串行化在引擎锁上。
type Handler[T any] struct {
	disk   *Disk
	prefix string
	codec  Codec[T]
	// mirror 为 false 表示内部处理器，其值只是同前缀外层处理器的实现细节，不写入内存层。
	mirror bool
}

// NewHandler 在 prefix 下把 codec 绑定到 disk。
func NewHandler[T any](disk *Disk, prefix string, codec Codec[T]) (*Handler[T], error) {
	if disk == nil {
		return nil, fmt.Errorf("%w: disk is nil", ErrInvalidArgument)
	}
	if prefix == "" {
		return nil, fmt.Errorf("%w: key prefix is empty", ErrInvalidArgument)
	}
	if codec == nil {
		return nil, fmt.Errorf("%w: codec is nil", ErrInvalidArgument)
	}
	return &Handler[T]{disk: disk, prefix: prefix, codec: codec, mirror: true}, nil
}

// Put 写入 key 对应的值。nil 值（nil 指针、map、slice 或接口）等同删除并返回 true。
// 只有写入成功后才更新内存层。
func (h *Handler[T]) Put(key string, value T) (bool, error) {
	e := h.disk.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, err := h.put(key, value)
	e.metrics.observe("put", outcome(ok, err, resultFailed))
	return ok, err
}

// Get 读取 key 对应的值；Disk 开启内存镜像时优先查询内存层。
func (h *Handler[T]) Get(key string) (T, bool, error) {
	e := h.disk.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok, err := h.get(key)
	e.metrics.observe("get", outcome(ok, err, resultMiss))
	return value, ok, err
}

// GetOr 在 key 不存在时返回 def。
func (h *Handler[T]) GetOr(key string, def T) (T, error) {
	value, ok, err := h.Get(key)
	if err != nil || !ok {
		return def, err
	}
	return value, nil
}

// Remove 从内存层移除 key 并删除文件，仅当删除失败时返回 false。
func (h *Handler[T]) Remove(key string) (bool, error) {
	e := h.disk.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, err := h.remove(key)
	e.metrics.observe("remove", outcome(ok, err, resultFailed))
	return ok, err
}

func (h *Handler[T]) put(key string, value T) (bool, error) {
	if isNil(value) {
		if _, err := h.remove(key); err != nil {
			return false, err
		}
		return true, nil
	}

	entry, ok, err := h.entry("put", key)
	if err != nil || !ok {
		return false, err
	}
	ok, err = h.codec.Encode(entry, value)
	if err != nil || !ok {
		return false, err
	}
	if err := h.mirrorPut(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (h *Handler[T]) get(key string) (T, bool, error) {
	var zero T
	e := h.disk.engine

	if h.mirror && h.disk.IsMemorySupport() {
		memKey, err := h.memoryKey(key)
		if err != nil {
			return zero, false, err
		}
		if cached, ok := e.memory.get(memKey); ok {
			if value, ok := cached.(T); ok {
				e.metrics.memoryHit()
				return value, true, nil
			}
		}
	}

	entry, ok, err := h.entry("get", key)
	if err != nil || !ok {
		return zero, false, err
	}
	exists, err := regularFileExists(entry.FS, entry.Path)
	if err != nil {
		entry.Logger.WithError(err).Warn("cache stat failed")
		return zero, false, nil
	}
	if !exists {
		return zero, false, nil
	}

	value, ok, err := h.codec.Decode(entry)
	if err != nil || !ok {
		return zero, false, err
	}
	if err := h.mirrorPut(key, value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (h *Handler[T]) remove(key string) (bool, error) {
	memKey, err := h.memoryKey(key)
	if err != nil {
		return false, err
	}
	h.disk.engine.memory.remove(memKey)

	entry, ok, err := h.entry("remove", key)
	if err != nil || !ok {
		return false, err
	}
	exists, err := regularFileExists(entry.FS, entry.Path)
	if err != nil {
		entry.Logger.WithError(err).Warn("cache stat failed")
		return false, nil
	}
	if !exists {
		return true, nil
	}
	if err := entry.FS.Remove(entry.Path); err != nil {
		entry.Logger.WithError(err).Warn("cache remove failed")
		return false, nil
	}
	return true, nil
}

// entry 解析 key 的哈希文件路径。键错误是致命的；目录创建失败属于 I/O 失败，返回 ok=false。
func (h *Handler[T]) entry(op, key string) (Entry, bool, error) {
	e := h.disk.engine
	fileKey, err := realKey(e.digest, key, h.prefix, true)
	if err != nil {
		return Entry{}, false, err
	}

	logger := e.entryLogger(op, h.disk.directory, key)
	dir, err := h.disk.Directory()
	if err != nil {
		logger.WithError(err).Warn("cache directory unavailable")
		return Entry{}, false, nil
	}

	return Entry{
		Key:    key,
		Path:   filepath.Join(dir, fileKey),
		Disk:   h.disk,
		FS:     e.fs,
		Logger: logger,
	}, true, nil
}

func (h *Handler[T]) memoryKey(key string) (string, error) {
	return realKey(h.disk.engine.digest, key, h.prefix, false)
}

func (h *Handler[T]) mirrorPut(key string, value T) error {
	if !h.mirror || !h.disk.IsMemorySupport() {
		return nil
	}
	memKey, err := h.memoryKey(key)
	if err != nil {
		return err
	}
	h.disk.engine.memory.put(memKey, value)
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
