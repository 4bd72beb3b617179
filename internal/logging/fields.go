package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// CacheFields 描述一次缓存操作：操作类型、缓存目录与逻辑键。
func CacheFields(op, directory, key string) logrus.Fields {
	fields := logrus.Fields{
		"action":    "cache_" + op,
		"directory": directory,
	}
	if key != "" {
		fields["key"] = key
	}
	return fields
}

// RequestFields 提供管理端请求的公共字段。
func RequestFields(method, path, disk, requestID string) logrus.Fields {
	return logrus.Fields{
		"method":     method,
		"path":       path,
		"disk":       disk,
		"request_id": requestID,
	}
}
