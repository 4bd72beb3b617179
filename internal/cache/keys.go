package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// DigestFunc 对逻辑键求摘要，用作文件名。
type DigestFunc func(data []byte) ([]byte, error)

// MD5Digest 是默认的 DigestFunc：128 位，渲染为 32 个十六进制字符。
func MD5Digest(data []byte) ([]byte, error) {
	sum := md5.Sum(data)
	return sum[:], nil
}

// RealKey 使用 MD5 计算 prefix 下 key 的存储键。
func RealKey(key, prefix string, hash bool) (string, error) {
	return realKey(MD5Digest, key, prefix, hash)
}

// realKey 在 hash 为 true 时返回 prefix+hex(digest(key))，否则返回 prefix+key。
// 未哈希的形式只用于内存层查找。
func realKey(digest DigestFunc, key, prefix string, hash bool) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: key is empty", ErrInvalidArgument)
	}
	if prefix == "" {
		return "", fmt.Errorf("%w: key prefix is empty", ErrInvalidArgument)
	}
	if !hash {
		return prefix + key, nil
	}

	sum, err := checkDigest(digest, []byte(key))
	if err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(sum), nil
}

func checkDigest(digest DigestFunc, data []byte) ([]byte, error) {
	if digest == nil {
		return nil, fmt.Errorf("%w: no digest configured", ErrDigestUnavailable)
	}
	sum, err := digest(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDigestUnavailable, err)
	}
	if len(sum) == 0 {
		return nil, fmt.Errorf("%w: empty digest", ErrDigestUnavailable)
	}
	return sum, nil
}
