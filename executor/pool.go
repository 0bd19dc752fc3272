/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\executor\pool.go
 * @Description: Worker池 - 协作式取消与幂等停止
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-loadgen/statistics"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

const (
	// DefaultStopGrace 停止宽限期：超过后不再等待未确认的worker
	DefaultStopGrace = 5 * time.Second
	// DefaultRetryDelay worker瞬态错误后的停顿
	DefaultRetryDelay = 50 * time.Millisecond
)

// Pool Worker池
// worker之间无协调、无共享可变状态，水平扩展只靠数量
type Pool struct {
	collector  *statistics.Collector
	grace      time.Duration
	retryDelay time.Duration
	logger     logger.ILogger

	handles []*WorkerHandle
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	stopped *syncx.Bool
	done    chan struct{}
}

// NewPool 创建Worker池
func NewPool(collector *statistics.Collector, log logger.ILogger) *Pool {
	return &Pool{
		collector:  collector,
		grace:      DefaultStopGrace,
		retryDelay: DefaultRetryDelay,
		logger:     log,
		stopped:    syncx.NewBool(false),
		done:       make(chan struct{}),
	}
}

// SetStopGrace 调整停止宽限期（测试用）
func (p *Pool) SetStopGrace(d time.Duration) {
	p.grace = d
}

// SetRetryDelay 调整瞬态错误停顿（测试用）
func (p *Pool) SetRetryDelay(d time.Duration) {
	p.retryDelay = d
}

// Start 每个WorkUnit启动一个独立worker
// 磁盘模式下每个unit绑定自己的独占临时文件，CPU模式下各unit独立访问共享引擎
func (p *Pool) Start(ctx context.Context, units []WorkUnit) []*WorkerHandle {
	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.handles = make([]*WorkerHandle, 0, len(units))
	for i, unit := range units {
		handle := &WorkerHandle{ID: uint64(i), running: syncx.NewBool(true)}
		p.handles = append(p.handles, handle)

		worker := NewWorker(handle.ID, unit, p.collector, p.retryDelay, p.logger)
		p.wg.Add(1)
		go func(h *WorkerHandle, w *Worker) {
			defer p.wg.Done()
			defer h.running.Store(false)
			w.Run(workerCtx)
		}(handle, worker)
	}

	p.logger.Info("👷 已启动 %d 个worker", len(units))
	return p.handles
}

// StopAll 停止全部worker
// 幂等：CAS保证只下发一次取消；所有调用方都会阻塞到worker确认退出或宽限期耗尽
func (p *Pool) StopAll() {
	if p.stopped.CAS(false, true) {
		if p.cancel != nil {
			p.cancel()
		}
		go func() {
			p.wg.Wait()
			close(p.done)
		}()
	}

	select {
	case <-p.done:
		p.logger.Info("🛑 全部worker已确认停止")
	case <-time.After(p.grace):
		p.logger.Warnf("⚠️  停止宽限期(%v)耗尽，仍有 %d 个worker未确认退出", p.grace, p.runningCount())
	}
}

// ActiveWorkers 仍在运行的worker数
func (p *Pool) ActiveWorkers() int {
	// StopAll 之前句柄列表只增不变，无需加锁
	return p.runningCount()
}

// Handles 全部worker句柄
func (p *Pool) Handles() []*WorkerHandle {
	return p.handles
}

func (p *Pool) runningCount() int {
	n := 0
	for _, h := range p.handles {
		if h.running.Load() {
			n++
		}
	}
	return n
}
