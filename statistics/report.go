/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\statistics\report.go
 * @Description: 最终运行摘要
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"fmt"
	"time"

	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-loadgen/types"
)

// Summary 最终运行摘要（仅控制台输出，从不持久化）
type Summary struct {
	Mode        types.LoadMode    `json:"mode"`
	StopTrigger types.StopTrigger `json:"stop_trigger"`
	TotalTime   time.Duration     `json:"total_time"`
	Workers     int               `json:"workers"`
	FilesGiven  int               `json:"files_given"`   // 生成的临时文件数（磁盘模式）
	FilesSwept  int               `json:"files_swept"`   // 清理成功的临时文件数
	Iterations  uint64            `json:"iterations"`    // 计算批次累计迭代数
	Reads       uint64            `json:"reads"`         // 读操作数
	Writes      uint64            `json:"writes"`        // 写操作数
	UnitCalls   uint64            `json:"unit_calls"`    // WorkUnit 调用数
	UnitErrors  uint64            `json:"unit_errors"`   // 瞬态错误数
	Errors      map[string]uint64 `json:"errors,omitempty"`
}

// BuildSummary 由收集器快照构建摘要
func BuildSummary(c *Collector, mode types.LoadMode, trigger types.StopTrigger, workers int, total time.Duration) *Summary {
	snap := c.GetSnapshot()
	return &Summary{
		Mode:        mode,
		StopTrigger: trigger,
		TotalTime:   total,
		Workers:     workers,
		Iterations:  snap.Iterations,
		Reads:       snap.Reads,
		Writes:      snap.Writes,
		UnitCalls:   snap.UnitCalls,
		UnitErrors:  snap.UnitErrors,
		Errors:      c.GetErrors(),
	}
}

// Print 打印运行摘要
func (s *Summary) Print(log logger.ILogger) {
	log.Info("")
	log.Info("📊 运行摘要")
	log.Info("")

	rows := []map[string]interface{}{
		{"指标": "负载模式", "值": string(s.Mode)},
		{"指标": "停止原因", "值": s.StopTrigger.Describe()},
		{"指标": "总运行时长", "值": s.TotalTime.Round(time.Second).String()},
		{"指标": "worker数", "值": fmt.Sprintf("%d", s.Workers)},
		{"指标": "WorkUnit调用数", "值": fmt.Sprintf("%d", s.UnitCalls)},
		{"指标": "瞬态错误数", "值": fmt.Sprintf("%d", s.UnitErrors)},
	}

	switch s.Mode {
	case types.LoadModeCPU:
		rows = append(rows, map[string]interface{}{"指标": "累计迭代数", "值": fmt.Sprintf("%d", s.Iterations)})
	case types.LoadModeDisk:
		rows = append(rows,
			map[string]interface{}{"指标": "读操作数", "值": fmt.Sprintf("%d", s.Reads)},
			map[string]interface{}{"指标": "写操作数", "值": fmt.Sprintf("%d", s.Writes)},
			map[string]interface{}{"指标": "临时文件 生成/清理", "值": fmt.Sprintf("%d/%d", s.FilesGiven, s.FilesSwept)},
		)
	}

	log.ConsoleTable(rows)

	if len(s.Errors) > 0 {
		log.Warn("⚠️  瞬态错误分布:")
		for msg, count := range s.Errors {
			log.Warnf("   %d × %s", count, msg)
		}
	}
}
