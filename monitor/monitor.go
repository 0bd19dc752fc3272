/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\monitor\monitor.go
 * @Description: 定时采样监控器公共定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/kamalyes/go-loadgen/types"
)

// 采样节拍（两种模式各自固定）
const (
	CPUSampleInterval  = 10 * time.Second
	DiskSampleInterval = 5 * time.Second
)

// 展示分类阈值（仅展示，不影响控制）
const (
	cpuNominalBand    = 5.0  // 与目标相差5个百分点内为达标
	cpuAcceptableBand = 15.0 // 15个百分点内为可接受
	diskNominalOps    = 100.0
	diskAcceptableOps = 50.0
)

// Sampler 定时采样器
// 由控制器在其循环内按 Interval 节拍串行调用，从不并发
type Sampler interface {
	// Sample 采样一次并生成状态记录；指标源不可用返回 error（非致命，降级展示）
	Sample(ctx context.Context, elapsed, remaining time.Duration) (*types.RunStatus, error)
	// Interval 采样节拍
	Interval() time.Duration
}

// FormatStatusLine 构造状态行
// 行的节拍与形态是对外契约（外部监控按行抓取），字段顺序不可随意调整
func FormatStatusLine(s *types.RunStatus) string {
	if !s.Available {
		return fmt.Sprintf("[%s] 指标暂不可用 (%s) | 目标 %.0f | 已运行 %s | 剩余 %s",
			s.Timestamp.Format(time.DateTime), s.Detail, s.Target,
			formatDur(s.Elapsed), formatDur(s.Remaining))
	}
	return fmt.Sprintf("[%s] 实测 %.1f | 目标 %.0f | 已运行 %s | 剩余 %s | %s%s",
		s.Timestamp.Format(time.DateTime), s.Measured, s.Target,
		formatDur(s.Elapsed), formatDur(s.Remaining), levelBadge(s.Level), s.Detail)
}

func levelBadge(level types.StatusLevel) string {
	switch level {
	case types.StatusLevelNominal:
		return "✅ 达标"
	case types.StatusLevelAcceptable:
		return "🟡 可接受"
	case types.StatusLevelUnderTarget:
		return "🔻 低于目标"
	}
	return "❔ 未知"
}

func formatDur(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}
