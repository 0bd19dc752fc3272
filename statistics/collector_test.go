/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\statistics\collector_test.go
 * @Description: 统计收集器测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-loadgen/types"
	"github.com/stretchr/testify/assert"
)

// TestCollectorCounters 测试基础计数
func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.AddIterations(100)
	c.AddIterations(50)
	c.AddRead()
	c.AddRead()
	c.AddWrite()
	c.AddUnitCall()
	c.AddUnitError("timeout")
	c.AddUnitError("timeout")
	c.AddUnitError("io error")

	snap := c.GetSnapshot()
	assert.Equal(t, uint64(150), snap.Iterations)
	assert.Equal(t, uint64(2), snap.Reads)
	assert.Equal(t, uint64(1), snap.Writes)
	assert.Equal(t, uint64(1), snap.UnitCalls)
	assert.Equal(t, uint64(3), snap.UnitErrors)

	errs := c.GetErrors()
	assert.Equal(t, uint64(2), errs["timeout"])
	assert.Equal(t, uint64(1), errs["io error"])
}

// TestCollectorConcurrent 测试并发计数不丢失
func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()

	workers := 16
	perWorker := 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				c.AddUnitCall()
				c.AddRead()
				c.AddWrite()
				c.AddIterations(2)
				c.AddUnitError("并发故障")
			}
		}()
	}
	wg.Wait()

	total := uint64(workers * perWorker)
	snap := c.GetSnapshot()
	assert.Equal(t, total, snap.UnitCalls)
	assert.Equal(t, total, snap.Reads)
	assert.Equal(t, total, snap.Writes)
	assert.Equal(t, total*2, snap.Iterations)
	assert.Equal(t, total, snap.UnitErrors)
	assert.Equal(t, total, c.GetErrors()["并发故障"])
}

// TestBuildSummary 测试摘要构建
func TestBuildSummary(t *testing.T) {
	c := NewCollector()
	c.AddIterations(500)
	c.AddRead()
	c.AddWrite()
	c.AddUnitCall()
	c.AddUnitError("flaky")

	s := BuildSummary(c, types.LoadModeDisk, types.StopTriggerStopFile, 4, 90*time.Second)

	assert.Equal(t, types.LoadModeDisk, s.Mode)
	assert.Equal(t, types.StopTriggerStopFile, s.StopTrigger)
	assert.Equal(t, 90*time.Second, s.TotalTime)
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, uint64(500), s.Iterations)
	assert.Equal(t, uint64(1), s.Reads)
	assert.Equal(t, uint64(1), s.Writes)
	assert.Equal(t, uint64(1), s.UnitErrors)
	assert.Equal(t, uint64(1), s.Errors["flaky"])
}

// TestBuildSummaryEmpty 测试零活动摘要
func TestBuildSummaryEmpty(t *testing.T) {
	c := NewCollector()
	s := BuildSummary(c, types.LoadModeCPU, types.StopTriggerDuration, 1, time.Minute)

	assert.Equal(t, uint64(0), s.UnitCalls)
	assert.Equal(t, 0, len(s.Errors))
}
