/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\types\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "fmt"

// LoadMode 负载模式
type LoadMode string

const (
	LoadModeCPU  LoadMode = "cpu"  // CPU负载（数据库引擎计算查询）
	LoadModeDisk LoadMode = "disk" // 磁盘负载（随机读写）
)

// LoadMode 实现 flag.Value 接口
func (m *LoadMode) String() string {
	if m == nil {
		return string(LoadModeCPU)
	}
	return string(*m)
}

func (m *LoadMode) Set(value string) error {
	switch LoadMode(value) {
	case LoadModeCPU, LoadModeDisk:
		*m = LoadMode(value)
		return nil
	}
	return fmt.Errorf("无效的负载模式: %s (支持: %s, %s)", value, LoadModeCPU, LoadModeDisk)
}

// IOType 磁盘IO类型
type IOType string

const (
	IOTypeRead  IOType = "read"  // 只读
	IOTypeWrite IOType = "write" // 只写
	IOTypeMixed IOType = "mixed" // 每次迭代独立等概率选择读或写
)

// IOType 实现 flag.Value 接口
func (t *IOType) String() string {
	if t == nil {
		return string(IOTypeMixed)
	}
	return string(*t)
}

func (t *IOType) Set(value string) error {
	switch IOType(value) {
	case IOTypeRead, IOTypeWrite, IOTypeMixed:
		*t = IOType(value)
		return nil
	}
	return fmt.Errorf("无效的IO类型: %s (支持: %s, %s, %s)", value, IOTypeRead, IOTypeWrite, IOTypeMixed)
}

// RunState 运行状态机状态
type RunState string

const (
	RunStateInitializing RunState = "initializing"
	RunStateProvisioning RunState = "provisioning"
	RunStateRunning      RunState = "running"
	RunStateStopping     RunState = "stopping"
	RunStateStopped      RunState = "stopped"
)

// StopTrigger 停止触发来源（第一个被观察到的触发生效，其余忽略）
type StopTrigger string

const (
	StopTriggerNone      StopTrigger = ""
	StopTriggerDuration  StopTrigger = "duration_expired"
	StopTriggerStopFile  StopTrigger = "stop_file_detected"
	StopTriggerInterrupt StopTrigger = "interrupt_received"
)

// Describe 返回触发来源的可读描述
func (t StopTrigger) Describe() string {
	switch t {
	case StopTriggerDuration:
		return "运行时长到期"
	case StopTriggerStopFile:
		return "检测到停止信号文件"
	case StopTriggerInterrupt:
		return "收到中断信号"
	}
	return "未触发"
}

// StatusLevel 采样强度分类（仅用于展示，不影响控制）
type StatusLevel string

const (
	StatusLevelNominal     StatusLevel = "nominal"      // 达标
	StatusLevelAcceptable  StatusLevel = "acceptable"   // 可接受
	StatusLevelUnderTarget StatusLevel = "under_target" // 低于目标
	StatusLevelUnavailable StatusLevel = "unavailable"  // 指标源不可用
)

// ValidBlockSizesKB 允许的IO块大小（KB）
var ValidBlockSizesKB = []int{4, 8, 16, 32, 64, 128, 256, 512, 1024}

// IsValidBlockSizeKB 校验块大小是否在允许的集合内
func IsValidBlockSizeKB(kb int) bool {
	for _, v := range ValidBlockSizesKB {
		if v == kb {
			return true
		}
	}
	return false
}
