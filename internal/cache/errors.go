package cache

import "errors"

// 致命缓存错误。I/O 失败不会通过这些错误返回，而是降级为 false 或不存在。
var (
	ErrInvalidArgument   = errors.New("cache: invalid argument")
	ErrConfiguration     = errors.New("cache: configuration error")
	ErrDigestUnavailable = errors.New("cache: digest unavailable")
)
