/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\executor\worker.go
 * @Description: Worker实现 - 无监管重试循环
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"time"

	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-loadgen/statistics"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// WorkerHandle 一个运行中的并发单元
type WorkerHandle struct {
	ID      uint64
	running *syncx.Bool
}

// IsRunning worker是否仍在运行
func (h *WorkerHandle) IsRunning() bool {
	return h.running.Load()
}

// Worker 工作单元
// 无限循环调用 WorkUnit；单次调用失败只告警后短暂停顿再继续，
// 只有池下发的取消信号能让worker退出（瞬态故障自愈）
type Worker struct {
	id         uint64
	unit       WorkUnit
	collector  *statistics.Collector
	retryDelay time.Duration
	logger     logger.ILogger
}

// NewWorker 创建Worker
func NewWorker(id uint64, unit WorkUnit, collector *statistics.Collector, retryDelay time.Duration, log logger.ILogger) *Worker {
	return &Worker{
		id:         id,
		unit:       unit,
		collector:  collector,
		retryDelay: retryDelay,
		logger:     log,
	}
}

// Run 运行重试循环，直到 ctx 取消
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debugf("Worker %d: 收到取消信号，退出", w.id)
			return
		default:
		}

		w.collector.AddUnitCall()
		if err := w.unit(ctx); err != nil {
			// 取消引发的失败不算瞬态错误
			if ctx.Err() != nil {
				w.logger.Debugf("Worker %d: 取消期间中断当前操作，退出", w.id)
				return
			}
			w.collector.AddUnitError(err.Error())
			w.logger.Warnf("⚠️  Worker %d: 本次负载操作失败: %v，稍后重试", w.id, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retryDelay):
			}
		}
	}
}
