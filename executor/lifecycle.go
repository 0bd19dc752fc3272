/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\executor\lifecycle.go
 * @Description: 生命周期控制器 - 状态机与幂等有序关停
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-loadgen/monitor"
	"github.com/kamalyes/go-loadgen/provision"
	"github.com/kamalyes/go-loadgen/statistics"
	"github.com/kamalyes/go-loadgen/types"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// DefaultPollInterval 控制循环节拍：停止条件每500ms检查一次
const DefaultPollInterval = 500 * time.Millisecond

// ProvisionFunc 资源准备回调
// 成功返回待启动的WorkUnit列表与（磁盘模式下的）临时文件；失败即致命，worker不会启动
type ProvisionFunc func(ctx context.Context) (units []WorkUnit, scratch []provision.ScratchFile, err error)

// ControllerOptions 生命周期控制器配置
type ControllerOptions struct {
	Mode         types.LoadMode
	Duration     time.Duration
	StopFile     string
	PollInterval time.Duration // 0 取默认值
	Provision    ProvisionFunc
	Sampler      monitor.Sampler
	Collector    *statistics.Collector
	Pool         *Pool
	Logger       logger.ILogger
}

// LifecycleController 生命周期控制器
// "系统是否继续运行"的唯一权威：复用三个停止触发源（时长到期/停止信号文件/中断），
// 驱动恰好执行一次的有序关停（停worker → 清资源 → 打摘要）
type LifecycleController struct {
	opts ControllerOptions

	sm       *syncx.StateMachine[types.RunState]
	shutOnce *syncx.Bool
	shutDone chan struct{}

	mu        *syncx.RWLock
	state     types.RunState
	trigger   types.StopTrigger
	scratch   []provision.ScratchFile
	workers   int
	swept     int
	startTime time.Time

	logger logger.ILogger
}

// NewLifecycleController 创建生命周期控制器
func NewLifecycleController(opts ControllerOptions) *LifecycleController {
	opts.PollInterval = mathx.IfNotZero(opts.PollInterval, DefaultPollInterval)

	sm := syncx.NewStateMachine(types.RunStateInitializing)
	sm.AllowTransition(types.RunStateInitializing, types.RunStateProvisioning)
	sm.AllowTransition(types.RunStateProvisioning, types.RunStateRunning)
	sm.AllowTransition(types.RunStateProvisioning, types.RunStateStopped) // 准备失败路径
	sm.AllowTransition(types.RunStateRunning, types.RunStateStopping)
	sm.AllowTransition(types.RunStateStopping, types.RunStateStopped)

	return &LifecycleController{
		opts:     opts,
		sm:       sm,
		shutOnce: syncx.NewBool(false),
		shutDone: make(chan struct{}),
		mu:       syncx.NewRWLock(),
		state:    types.RunStateInitializing,
		logger:   opts.Logger,
	}
}

// transition 状态机转换并同步可观测状态
func (c *LifecycleController) transition(to types.RunState) error {
	if err := c.sm.TransitionTo(to); err != nil {
		return err
	}
	syncx.WithLock(c.mu, func() { c.state = to })
	return nil
}

// State 当前生命周期状态
func (c *LifecycleController) State() types.RunState {
	return syncx.WithRLockReturnValue(c.mu, func() types.RunState {
		return c.state
	})
}

// Trigger 生效的停止触发源（最先观察到的那个）
func (c *LifecycleController) Trigger() types.StopTrigger {
	return syncx.WithRLockReturnValue(c.mu, func() types.StopTrigger {
		return c.trigger
	})
}

// Run 执行完整生命周期：准备 → 运行 → 关停
// 返回错误仅发生在准备阶段（致命，进程以非零码退出）；任何停止触发都算正常完成
func (c *LifecycleController) Run(ctx context.Context) error {
	if err := c.transition(types.RunStateProvisioning); err != nil {
		return fmt.Errorf("控制器状态异常: %w", err)
	}

	units, scratch, err := c.opts.Provision(ctx)
	if err != nil {
		// 准备失败：worker从未启动，清理是空操作
		if terr := c.transition(types.RunStateStopped); terr != nil {
			c.logger.Warnf("⚠️  状态机转换失败: %v", terr)
		}
		return err
	}

	syncx.WithLock(c.mu, func() {
		c.scratch = scratch
		c.workers = len(units)
	})

	c.opts.Pool.Start(ctx, units)
	if err := c.transition(types.RunStateRunning); err != nil {
		return fmt.Errorf("控制器状态异常: %w", err)
	}

	c.startTime = time.Now()
	deadline := c.startTime.Add(c.opts.Duration)
	c.logger.Info("▶️  开始运行: 时长 %v, 停止信号文件 %s", c.opts.Duration, c.opts.StopFile)

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	lastSample := c.startTime
	for {
		select {
		case <-c.shutDone:
			// 外部调用方已完成关停
			return nil
		case <-ctx.Done():
			c.Shutdown(types.StopTriggerInterrupt)
			return nil
		case now := <-ticker.C:
			// 触发检查与采样在同一循环内严格串行
			if !now.Before(deadline) {
				c.Shutdown(types.StopTriggerDuration)
				return nil
			}
			if c.stopFilePresent() {
				c.Shutdown(types.StopTriggerStopFile)
				return nil
			}
			if now.Sub(lastSample) >= c.opts.Sampler.Interval() {
				lastSample = now
				c.sampleOnce(ctx, now, deadline)
			}
		}
	}
}

// sampleOnce 采样一次并输出状态行；遥测不可用只降级展示
func (c *LifecycleController) sampleOnce(ctx context.Context, now, deadline time.Time) {
	status, err := c.opts.Sampler.Sample(ctx, now.Sub(c.startTime), deadline.Sub(now))
	if err != nil {
		c.logger.Warnf("⚠️  采样失败: %v", err)
	}
	if status != nil {
		c.logger.Info("📈 %s", monitor.FormatStatusLine(status))
	}
}

// stopFilePresent 停止信号文件是否存在（存在即中止请求，不读内容）
func (c *LifecycleController) stopFilePresent() bool {
	_, err := os.Stat(c.opts.StopFile)
	return err == nil
}

// Shutdown 幂等有序关停：停worker → 删临时文件 → 删停止信号文件 → 打摘要
// 并发触发时（如时长到期与中断同时到达）CAS保证序列恰好执行一次，
// 后到的调用方阻塞到首个执行者完成为止
func (c *LifecycleController) Shutdown(trigger types.StopTrigger) {
	if !c.shutOnce.CAS(false, true) {
		<-c.shutDone
		return
	}
	defer close(c.shutDone)

	syncx.WithLock(c.mu, func() {
		c.trigger = trigger
	})
	c.logger.Info("")
	c.logger.Info("🛑 开始关停: %s", trigger.Describe())

	if err := c.transition(types.RunStateStopping); err != nil {
		c.logger.Warnf("⚠️  状态机转换失败: %v", err)
	}

	// 1. 停worker（阻塞到确认或宽限期耗尽）
	c.opts.Pool.StopAll()

	// 2. 清临时文件（尽力而为，单个失败不中断后续清理）
	scratch := syncx.WithRLockReturnValue(c.mu, func() []provision.ScratchFile {
		return c.scratch
	})
	if len(scratch) > 0 {
		swept := provision.CleanupScratchFiles(scratch, c.logger)
		syncx.WithLock(c.mu, func() { c.swept = swept })
		c.logger.Info("🧹 已清理临时文件: %d/%d", swept, len(scratch))
	}

	// 3. 删停止信号文件；外部抢先删除造成的竞态按无害空操作处理
	if err := os.Remove(c.opts.StopFile); err != nil && !os.IsNotExist(err) {
		c.logger.Warnf("⚠️  删除停止信号文件失败: %v", err)
	}

	if err := c.transition(types.RunStateStopped); err != nil {
		c.logger.Warnf("⚠️  状态机转换失败: %v", err)
	}

	// 4. 最终摘要
	c.printSummary(trigger)
}

func (c *LifecycleController) printSummary(trigger types.StopTrigger) {
	var total time.Duration
	if !c.startTime.IsZero() {
		total = time.Since(c.startTime)
	}

	workers, scratchCount, swept := 0, 0, 0
	syncx.WithRLock(c.mu, func() {
		workers = c.workers
		scratchCount = len(c.scratch)
		swept = c.swept
	})

	summary := statistics.BuildSummary(c.opts.Collector, c.opts.Mode, trigger, workers, total)
	summary.FilesGiven = scratchCount
	summary.FilesSwept = swept
	summary.Print(c.logger)
}
