package converter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// FormatFactory 创建一个新的 ObjectConverter 实例。
type FormatFactory func() ObjectConverter

// CipherFactory 根据密钥材料（口令或 keyset 路径）创建 EncryptConverter。
type CipherFactory func(secret string) (EncryptConverter, error)

// Format 描述一种可按名称引用的对象编码格式。
type Format struct {
	Key         string
	Description string
	New         FormatFactory
}

// Cipher 描述一种可按名称引用的加密实现。
type Cipher struct {
	Key         string
	Description string
	New         CipherFactory
}

var (
	globalFormats = newRegistry[Format]("format")
	globalCiphers = newRegistry[Cipher]("cipher")
)

type registry[M any] struct {
	kind  string
	mu    sync.RWMutex
	items map[string]M
}

func newRegistry[M any](kind string) *registry[M] {
	return &registry[M]{kind: kind, items: make(map[string]M)}
}

// RegisterFormat 将格式加入全局注册表，重复键会返回错误。
func RegisterFormat(format Format) error {
	if format.New == nil {
		return fmt.Errorf("format %s has no factory", format.Key)
	}
	format.Key = globalFormats.normalizeKey(format.Key)
	return globalFormats.register(format.Key, format)
}

// MustRegisterFormat 在注册失败时 panic，适合 init() 中调用。
func MustRegisterFormat(format Format) {
	if err := RegisterFormat(format); err != nil {
		panic(err)
	}
}

// ResolveFormat 返回指定键的格式描述，键大小写不敏感。
func ResolveFormat(key string) (Format, bool) {
	return globalFormats.resolve(key)
}

// FormatKeys 返回所有已注册格式的键，按字母序排列。
func FormatKeys() []string {
	return globalFormats.keys()
}

// RegisterCipher 将加密实现加入全局注册表，重复键会返回错误。
func RegisterCipher(cipher Cipher) error {
	if cipher.New == nil {
		return fmt.Errorf("cipher %s has no factory", cipher.Key)
	}
	cipher.Key = globalCiphers.normalizeKey(cipher.Key)
	return globalCiphers.register(cipher.Key, cipher)
}

// MustRegisterCipher 在注册失败时 panic，适合 init() 中调用。
func MustRegisterCipher(cipher Cipher) {
	if err := RegisterCipher(cipher); err != nil {
		panic(err)
	}
}

// ResolveCipher 返回指定键的加密实现描述。
func ResolveCipher(key string) (Cipher, bool) {
	return globalCiphers.resolve(key)
}

// CipherKeys 返回所有已注册加密实现的键。
func CipherKeys() []string {
	return globalCiphers.keys()
}

// NewObjectConverter 按注册键构造对象转换器。
func NewObjectConverter(key string) (ObjectConverter, error) {
	format, ok := ResolveFormat(key)
	if !ok {
		return nil, fmt.Errorf("format %q is not registered", key)
	}
	return format.New(), nil
}

// NewEncryptConverter 按注册键与密钥材料构造加密转换器。
func NewEncryptConverter(key, secret string) (EncryptConverter, error) {
	cipher, ok := ResolveCipher(key)
	if !ok {
		return nil, fmt.Errorf("cipher %q is not registered", key)
	}
	conv, err := cipher.New(secret)
	if err != nil {
		return nil, fmt.Errorf("cipher %s: %w", cipher.Key, err)
	}
	return conv, nil
}

func (r *registry[M]) normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *registry[M]) register(key string, meta M) error {
	if key == "" {
		return fmt.Errorf("%s key is required", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%s %s already registered", r.kind, key)
	}
	r.items[key] = meta
	return nil
}

func (r *registry[M]) resolve(key string) (M, bool) {
	var zero M
	if key == "" {
		return zero, false
	}
	normalized := r.normalizeKey(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.items[normalized]
	return meta, ok
}

func (r *registry[M]) keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.items) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
