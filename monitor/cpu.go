/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\monitor\cpu.go
 * @Description: CPU利用率采样器 - 引擎环形缓冲区均值
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package monitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kamalyes/go-loadgen/types"
)

// UtilizationSource 引擎利用率来源（engine.Engine 的窄化，便于测试替身）
type UtilizationSource interface {
	UtilizationAvg(ctx context.Context) (avg float64, samples int, err error)
}

// CPUSampler 引擎CPU利用率采样器
type CPUSampler struct {
	source UtilizationSource
	target float64
}

// NewCPUSampler 创建CPU利用率采样器
func NewCPUSampler(source UtilizationSource, targetPercent int) *CPUSampler {
	return &CPUSampler{source: source, target: float64(targetPercent)}
}

// Interval 采样节拍
func (s *CPUSampler) Interval() time.Duration {
	return CPUSampleInterval
}

// Sample 读取引擎环形缓冲区利用率均值
// 遥测瞬态不可用时返回降级状态记录和错误，运行不受影响
func (s *CPUSampler) Sample(ctx context.Context, elapsed, remaining time.Duration) (*types.RunStatus, error) {
	status := &types.RunStatus{
		Timestamp: time.Now(),
		Target:    s.target,
		Elapsed:   elapsed,
		Remaining: remaining,
	}

	sampleCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	avg, samples, err := s.source.UtilizationAvg(sampleCtx)
	if err != nil {
		status.Level = types.StatusLevelUnavailable
		status.Detail = "引擎遥测不可用"
		return status, err
	}

	status.Measured = avg
	status.Available = true
	status.Level = classifyCPU(avg, s.target)
	status.Detail = fmt.Sprintf(" (近%d条采样均值)", samples)
	return status, nil
}

// classifyCPU 按与目标的偏差分档
func classifyCPU(measured, target float64) types.StatusLevel {
	diff := math.Abs(measured - target)
	switch {
	case diff <= cpuNominalBand:
		return types.StatusLevelNominal
	case diff <= cpuAcceptableBand:
		return types.StatusLevelAcceptable
	}
	return types.StatusLevelUnderTarget
}
