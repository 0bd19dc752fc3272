/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\provision\cpu.go
 * @Description: CPU模式资源准备 - 引擎连通性探测
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package provision

import (
	"context"
	"fmt"
	"runtime"

	"github.com/kamalyes/go-loadgen/engine"
	"github.com/kamalyes/go-loadgen/logger"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUProvisioner CPU模式资源准备器
// 只做一次短超时连通性探测，成功与否是唯一输出，不保留状态
type CPUProvisioner struct {
	engine engine.Engine
	logger logger.ILogger
}

// NewCPUProvisioner 创建CPU模式资源准备器
func NewCPUProvisioner(eng engine.Engine, log logger.ILogger) *CPUProvisioner {
	return &CPUProvisioner{engine: eng, logger: log}
}

// Prepare 探测引擎连通性，失败即致命
func (p *CPUProvisioner) Prepare(ctx context.Context) error {
	p.logger.Info("🔌 探测引擎连通性 (超时 %v)...", engine.ProbeTimeout)
	if err := p.engine.Probe(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	p.logger.Info("✅ 引擎连通性探测通过")
	return nil
}

// EngineCores 查询引擎逻辑核心数，失败时回退到本机核心数
// worker数量按引擎主机的核心数推算才有意义，本机核心数只是兜底
func (p *CPUProvisioner) EngineCores(ctx context.Context) int {
	cores, err := p.engine.CoreCount(ctx)
	if err == nil {
		p.logger.Info("🧮 引擎逻辑核心数: %d", cores)
		return cores
	}
	p.logger.Warnf("⚠️  查询引擎核心数失败: %v，回退到本机核心数", err)

	if local, lerr := cpu.Counts(true); lerr == nil && local > 0 {
		return local
	}
	return runtime.NumCPU()
}
