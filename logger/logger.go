/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\logger\logger.go
 * @Description: go-loadgen 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package logger

import (
	"io"
	"time"

	"github.com/kamalyes/go-logger"
)

// 类型别名
type (
	ILogger   = logger.ILogger
	LogConfig = logger.LogConfig
	LogLevel  = logger.LogLevel
)

// 常量别名 - 日志级别
const (
	DEBUG = logger.DEBUG
	INFO  = logger.INFO
	WARN  = logger.WARN
	ERROR = logger.ERROR
	FATAL = logger.FATAL
)

// 函数别名
var (
	NewLogger       = logger.NewLogger
	NewRotateWriter = logger.NewRotateWriter
)

// ParseLogLevel 解析日志级别字符串，非法值回退到 INFO
func ParseLogLevel(value string) logger.LogLevel {
	level, err := logger.ParseLevel(value)
	if err != nil {
		return logger.INFO
	}
	return level
}

// Default 全局默认 logger 实例
var Default logger.ILogger

func init() {
	Default = New()
}

func DefaultConfig() *logger.LogConfig {
	config := logger.DefaultConfig().
		WithPrefix("[LOADGEN] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)
	return config
}

// New 创建日志器，不传配置时使用默认配置（带 LOADGEN 前缀）
func New(configs ...*logger.LogConfig) *logger.Logger {
	if len(configs) > 0 && configs[0] != nil {
		return logger.NewLogger(configs[0])
	}
	return logger.NewLogger(DefaultConfig())
}

// SetDefault 设置全局默认 logger
func SetDefault(l logger.ILogger) {
	Default = l
}

// NewLoggerWithWriter 创建新日志器（便捷函数）
func NewLoggerWithWriter(prefix string, writer io.Writer) *logger.Logger {
	config := logger.DefaultConfig().
		WithPrefix(prefix).
		WithOutput(writer)
	return logger.NewLogger(config)
}
