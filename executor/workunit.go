/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\executor\workunit.go
 * @Description: WorkUnit 契约与worker数推算
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import "context"

// WorkUnit 一次重试循环迭代的负载载荷
// 无状态、可并发、可无限重复调用；任何句柄都在单次调用内打开并完全释放
type WorkUnit func(ctx context.Context) error

// DeriveCPUWorkerCount CPU模式worker数推算: max(1, floor(cores × target/100))
// 目标仅是塑形输入，不做闭环反馈调节
func DeriveCPUWorkerCount(cores, targetPercent int) int {
	n := cores * targetPercent / 100
	if n < 1 {
		return 1
	}
	return n
}
