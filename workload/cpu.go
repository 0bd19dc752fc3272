/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\workload\cpu.go
 * @Description: CPU负载单元 - 数据库引擎侧计算批次
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package workload

import (
	"context"

	"github.com/kamalyes/go-loadgen/executor"
	"github.com/kamalyes/go-loadgen/statistics"
)

// ComputeBatchSeconds 单个计算批次的目标时长（秒）
// worker循环反复提交批次，批次越短对停止信号的响应越快
const ComputeBatchSeconds = 30

// ComputeRunner 计算批次执行方
type ComputeRunner interface {
	RunComputeBatch(ctx context.Context, seconds int) (int64, error)
}

// NewCPUUnit 构造CPU负载单元
// 每次调用向引擎提交一个限时计算批次，完成后记录迭代数
func NewCPUUnit(runner ComputeRunner, collector *statistics.Collector) executor.WorkUnit {
	return func(ctx context.Context) error {
		iterations, err := runner.RunComputeBatch(ctx, ComputeBatchSeconds)
		if err != nil {
			return err
		}
		collector.AddIterations(uint64(iterations))
		return nil
	}
}
