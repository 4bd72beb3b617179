package cache

import (
	"reflect"
)

// ObjectCache 每个 Go 类型最多保存一个值，以类型的完整名称作为键。
type ObjectCache struct {
	disk *Disk
}

func NewObjectCache(disk *Disk) *ObjectCache {
	return &ObjectCache{disk: disk}
}

// Put 以值的类型名写入。nil 值没有可用的类型键，返回 false 且不落盘。
func (c *ObjectCache) Put(value any) (bool, error) {
	if isNil(value) {
		return false, nil
	}
	handler, err := NewObjectHandler[any](c.disk)
	if err != nil {
		return false, err
	}
	return handler.Put(TypeKey(reflect.TypeOf(value)), value)
}

// GetObject 返回缓存中的 T 实例。
func GetObject[T any](c *ObjectCache) (T, bool, error) {
	var zero T
	handler, err := NewObjectHandler[T](c.disk)
	if err != nil {
		return zero, false, err
	}
	return handler.Get(typeKeyOf[T]())
}

// RemoveObject 删除缓存中的 T 实例。
func RemoveObject[T any](c *ObjectCache) (bool, error) {
	handler, err := NewObjectHandler[T](c.disk)
	if err != nil {
		return false, err
	}
	return handler.Remove(typeKeyOf[T]())
}

// TypeKey 把 t 渲染为 "<import path>.<name>"，指针会被解引用；未命名类型使用其字面写法。
func TypeKey(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func typeKeyOf[T any]() string {
	return TypeKey(reflect.TypeOf((*T)(nil)).Elem())
}
