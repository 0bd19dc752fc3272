/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\monitor\disk.go
 * @Description: 磁盘IOPS采样器 - 物理盘计数器差分
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/kamalyes/go-loadgen/types"
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskCountersFunc 读取全部物理盘累计读/写次数之和（测试可注入）
type DiskCountersFunc func(ctx context.Context) (reads, writes uint64, err error)

// DiskSampler 磁盘IOPS采样器
// 对平台物理盘计数器做差分得到 读/秒、写/秒，跨全部物理盘求和
type DiskSampler struct {
	counters DiskCountersFunc

	lastReads  uint64
	lastWrites uint64
	lastTime   time.Time
	primed     bool // 首次采样只建立基线
}

// NewDiskSampler 创建磁盘IOPS采样器
func NewDiskSampler() *DiskSampler {
	return &DiskSampler{counters: sumPhysicalDiskCounters}
}

// NewDiskSamplerWithCounters 注入计数器来源（测试用）
func NewDiskSamplerWithCounters(fn DiskCountersFunc) *DiskSampler {
	return &DiskSampler{counters: fn}
}

// Interval 采样节拍
func (s *DiskSampler) Interval() time.Duration {
	return DiskSampleInterval
}

// Sample 差分物理盘计数器
func (s *DiskSampler) Sample(ctx context.Context, elapsed, remaining time.Duration) (*types.RunStatus, error) {
	status := &types.RunStatus{
		Timestamp: time.Now(),
		Target:    diskNominalOps,
		Elapsed:   elapsed,
		Remaining: remaining,
	}

	reads, writes, err := s.counters(ctx)
	if err != nil {
		status.Level = types.StatusLevelUnavailable
		status.Detail = "物理盘计数器不可用"
		return status, err
	}

	now := time.Now()
	if !s.primed {
		s.lastReads, s.lastWrites, s.lastTime = reads, writes, now
		s.primed = true
		status.Level = types.StatusLevelUnavailable
		status.Detail = "建立采样基线"
		return status, nil
	}

	seconds := now.Sub(s.lastTime).Seconds()
	if seconds <= 0 {
		status.Level = types.StatusLevelUnavailable
		status.Detail = "采样间隔过短"
		return status, nil
	}

	iops := types.DiskIOPS{
		ReadsPerSec:  float64(reads-s.lastReads) / seconds,
		WritesPerSec: float64(writes-s.lastWrites) / seconds,
	}
	iops.Total = iops.ReadsPerSec + iops.WritesPerSec

	s.lastReads, s.lastWrites, s.lastTime = reads, writes, now

	status.Measured = iops.Total
	status.Available = true
	status.Level = classifyDisk(iops.Total)
	status.Detail = fmt.Sprintf(" (读 %.1f/s, 写 %.1f/s)", iops.ReadsPerSec, iops.WritesPerSec)
	return status, nil
}

// classifyDisk 按总IOPS分档
func classifyDisk(total float64) types.StatusLevel {
	switch {
	case total >= diskNominalOps:
		return types.StatusLevelNominal
	case total >= diskAcceptableOps:
		return types.StatusLevelAcceptable
	}
	return types.StatusLevelUnderTarget
}

// sumPhysicalDiskCounters 汇总全部物理盘的累计读写次数
func sumPhysicalDiskCounters(ctx context.Context) (uint64, uint64, error) {
	stats, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	var reads, writes uint64
	for _, st := range stats {
		reads += st.ReadCount
		writes += st.WriteCount
	}
	return reads, writes, nil
}
