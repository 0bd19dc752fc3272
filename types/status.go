/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\types\status.go
 * @Description: 运行状态采样记录
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "time"

// RunStatus 某一时刻的运行状态观测值
// 由监控器产生，仅用于展示，不参与控制，也从不持久化
type RunStatus struct {
	Timestamp time.Time     // 采样时间
	Measured  float64       // 实测强度（CPU: 利用率百分比; Disk: 总IOPS）
	Target    float64       // 目标强度（CPU: 目标百分比; Disk: 固定展示阈值）
	Elapsed   time.Duration // 已运行时长
	Remaining time.Duration // 剩余时长
	Level     StatusLevel   // 展示分类
	Detail    string        // 附加描述（如 读/写 拆分）
	Available bool          // 指标源本次采样是否可用
}

// DiskIOPS 磁盘IOPS观测明细
type DiskIOPS struct {
	ReadsPerSec  float64
	WritesPerSec float64
	Total        float64
}
