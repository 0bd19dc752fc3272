/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\statistics\collector.go
 * @Description: 负载统计收集器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Collector 负载统计收集器
// worker只写计数器，控制器只读快照，无共享可变状态
type Collector struct {
	iterations *syncx.Uint64 // 计算批次累计迭代数（CPU模式）
	reads      *syncx.Uint64 // 读操作数（磁盘模式）
	writes     *syncx.Uint64 // 写操作数（磁盘模式）
	unitCalls  *syncx.Uint64 // WorkUnit 调用总数
	unitErrors *syncx.Uint64 // WorkUnit 瞬态错误总数

	// 错误消息聚合（仅日志/报告展示，不影响运行结果）
	errors *syncx.Map[string, uint64]

	startTime time.Time
}

// Snapshot 统计快照
type Snapshot struct {
	Iterations uint64
	Reads      uint64
	Writes     uint64
	UnitCalls  uint64
	UnitErrors uint64
	Elapsed    time.Duration
}

// NewCollector 创建统计收集器
func NewCollector() *Collector {
	return &Collector{
		iterations: syncx.NewUint64(0),
		reads:      syncx.NewUint64(0),
		writes:     syncx.NewUint64(0),
		unitCalls:  syncx.NewUint64(0),
		unitErrors: syncx.NewUint64(0),
		errors:     syncx.NewMap[string, uint64](),
		startTime:  time.Now(),
	}
}

// AddIterations 累加计算批次迭代数
func (c *Collector) AddIterations(n uint64) {
	c.iterations.Add(n)
}

// AddRead 记录一次读操作
func (c *Collector) AddRead() {
	c.reads.Add(1)
}

// AddWrite 记录一次写操作
func (c *Collector) AddWrite() {
	c.writes.Add(1)
}

// AddUnitCall 记录一次WorkUnit调用
func (c *Collector) AddUnitCall() {
	c.unitCalls.Add(1)
}

// AddUnitError 记录一次WorkUnit瞬态错误
func (c *Collector) AddUnitError(msg string) {
	c.unitErrors.Add(1)
	old, _ := c.errors.Load(msg)
	c.errors.Store(msg, old+1)
}

// GetSnapshot 读取统计快照
func (c *Collector) GetSnapshot() Snapshot {
	return Snapshot{
		Iterations: c.iterations.Load(),
		Reads:      c.reads.Load(),
		Writes:     c.writes.Load(),
		UnitCalls:  c.unitCalls.Load(),
		UnitErrors: c.unitErrors.Load(),
		Elapsed:    time.Since(c.startTime),
	}
}

// GetErrors 错误消息聚合副本
func (c *Collector) GetErrors() map[string]uint64 {
	out := make(map[string]uint64)
	c.errors.Range(func(msg string, count uint64) bool {
		out[msg] = count
		return true
	})
	return out
}
