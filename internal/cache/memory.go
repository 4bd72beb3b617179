package cache

// memoryTier 以未哈希的真实键镜像已解码的值，只在持有引擎锁时访问，不会自行淘汰。
type memoryTier struct {
	entries map[string]any
}

func newMemoryTier() *memoryTier {
	return &memoryTier{entries: make(map[string]any)}
}

func (m *memoryTier) get(key string) (any, bool) {
	value, ok := m.entries[key]
	return value, ok
}

func (m *memoryTier) put(key string, value any) {
	m.entries[key] = value
}

func (m *memoryTier) remove(key string) {
	if len(m.entries) == 0 {
		return
	}
	delete(m.entries, key)
}

func (m *memoryTier) len() int {
	return len(m.entries)
}
