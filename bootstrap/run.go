/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\bootstrap\run.go
 * @Description: 负载运行启动器 - 配置解析与模式装配
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-loadgen/config"
	"github.com/kamalyes/go-loadgen/engine"
	"github.com/kamalyes/go-loadgen/executor"
	"github.com/kamalyes/go-loadgen/monitor"
	"github.com/kamalyes/go-loadgen/provision"
	"github.com/kamalyes/go-loadgen/statistics"
	"github.com/kamalyes/go-loadgen/types"
	"github.com/kamalyes/go-loadgen/workload"
	"github.com/kamalyes/go-toolbox/pkg/osx"
	"github.com/kamalyes/go-toolbox/pkg/units"
)

// Options 启动选项
type Options struct {
	ConfigFile string
	ConfigFunc func() *config.Config // 从命令行构建配置的函数
	MaxMemory  string
	Logger     logger.ILogger
}

// Run 运行一次完整的负载会话
// 返回错误表示准备阶段致命失败（连接失败/空间不足/建文件失败），进程应以非零码退出；
// 三种停止触发都属于正常完成
func Run(opts Options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	log := opts.Logger
	log.Info("🚀 负载模式: %s", cfg.Mode)
	log.Info("📁 停止信号文件: %s (创建该文件即请求中止)", cfg.StopFile)

	// 创建context，支持Ctrl+C中断
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("\n⚠️  收到中断信号，正在停止...")
		cancel()
	}()

	// 启动内存监控（如果配置了阈值）
	if opts.MaxMemory != "" {
		if err := startMemoryMonitor(ctx, opts.MaxMemory, cancel, log); err != nil {
			log.Warnf("⚠️  %v", err)
		}
	}

	collector := statistics.NewCollector()
	pool := executor.NewPool(collector, log)

	var controller *executor.LifecycleController
	var cleanup func()
	switch cfg.Mode {
	case types.LoadModeCPU:
		controller, cleanup, err = buildCPUController(cfg, collector, pool, log)
	case types.LoadModeDisk:
		controller, cleanup, err = buildDiskController(cfg, collector, pool, log)
	default:
		return fmt.Errorf("未知的负载模式: %s", cfg.Mode)
	}
	if err != nil {
		return err
	}
	defer cleanup()

	return controller.Run(ctx)
}

// resolveConfig 解析配置：配置文件优先，其次命令行构建函数
func resolveConfig(opts Options) (*config.Config, error) {
	if opts.ConfigFile != "" {
		opts.Logger.Info("📄 加载配置文件: %s", opts.ConfigFile)
		loader := config.NewLoader()
		cfg, err := loader.LoadFromFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		return cfg, nil
	}
	if opts.ConfigFunc != nil {
		cfg := opts.ConfigFunc()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("配置验证失败: %w", err)
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("必须提供配置文件或命令行参数")
}

// buildCPUController 装配CPU模式：引擎客户端 + 计算批次worker + 利用率采样
func buildCPUController(cfg *config.Config, collector *statistics.Collector, pool *executor.Pool, log logger.ILogger) (*executor.LifecycleController, func(), error) {
	eng, err := engine.NewSQLEngine(cfg.CPU, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := eng.Close(); err != nil {
			log.Warnf("⚠️  关闭引擎连接池失败: %v", err)
		}
	}
	provisioner := provision.NewCPUProvisioner(eng, log)

	provisionFn := func(ctx context.Context) ([]executor.WorkUnit, []provision.ScratchFile, error) {
		if err := provisioner.Prepare(ctx); err != nil {
			return nil, nil, err
		}
		cores := provisioner.EngineCores(ctx)
		workers := executor.DeriveCPUWorkerCount(cores, cfg.CPU.TargetPercent)
		eng.SetPoolSize(workers)
		log.Info("🧮 引擎核心数: %d, 目标利用率: %d%%, worker数: %d", cores, cfg.CPU.TargetPercent, workers)

		units := make([]executor.WorkUnit, workers)
		for i := range units {
			units[i] = workload.NewCPUUnit(eng, collector)
		}
		return units, nil, nil
	}

	return executor.NewLifecycleController(executor.ControllerOptions{
		Mode:      types.LoadModeCPU,
		Duration:  time.Duration(cfg.CPU.DurationMinutes) * time.Minute,
		StopFile:  cfg.StopFile,
		Provision: provisionFn,
		Sampler:   monitor.NewCPUSampler(eng, cfg.CPU.TargetPercent),
		Collector: collector,
		Pool:      pool,
		Logger:    log,
	}), cleanup, nil
}

// buildDiskController 装配磁盘模式：临时文件准备 + 随机块读写worker + IOPS采样
func buildDiskController(cfg *config.Config, collector *statistics.Collector, pool *executor.Pool, log logger.ILogger) (*executor.LifecycleController, func(), error) {
	provisioner := provision.NewDiskProvisioner(cfg.Disk, log)

	provisionFn := func(ctx context.Context) ([]executor.WorkUnit, []provision.ScratchFile, error) {
		files, err := provisioner.Prepare(ctx)
		if err != nil {
			return nil, nil, err
		}
		log.Info("💽 IO类型: %s, worker数: %d, 单文件 %s, 块大小 %s",
			cfg.Disk.IOType, cfg.Disk.Threads,
			units.FormatBytes(uint64(cfg.Disk.FileSizeBytes())),
			units.FormatBytes(uint64(cfg.Disk.BlockSizeBytes())))

		workUnits := make([]executor.WorkUnit, len(files))
		for i, file := range files {
			workUnits[i] = workload.NewDiskUnit(workload.DiskUnitOptions{
				File:      file,
				IOType:    cfg.Disk.IOType,
				BlockSize: int64(cfg.Disk.BlockSizeBytes()),
				Collector: collector,
			})
		}
		return workUnits, files, nil
	}

	return executor.NewLifecycleController(executor.ControllerOptions{
		Mode:      types.LoadModeDisk,
		Duration:  time.Duration(cfg.Disk.DurationMinutes) * time.Minute,
		StopFile:  cfg.StopFile,
		Provision: provisionFn,
		Sampler:   monitor.NewDiskSampler(),
		Collector: collector,
		Pool:      pool,
		Logger:    log,
	}), func() {}, nil
}

// startMemoryMonitor 启动内存监控
func startMemoryMonitor(ctx context.Context, maxMemory string, cancel context.CancelFunc, log logger.ILogger) error {
	threshold, err := units.ParseBytes(maxMemory)
	if err != nil {
		return fmt.Errorf("内存阈值格式错误: %w,将忽略内存监控", err)
	}

	log.Infof("🔍 启动内存监控，阈值: %s (%d MB)", maxMemory, threshold/(1024*1024))

	mon := osx.NewAdvancedMonitor().
		AddThreshold(osx.LevelWarning, threshold*80/100).
		AddThreshold(osx.LevelCritical, threshold).
		SetMetricType(osx.MetricAlloc).
		SetCheckOnce(false).
		SetMaxHistory(200).
		OnWarning(func(snapshot osx.Snapshot) {
			log.Warnf("[⚠️  警告] 内存使用: %s / %s (%.1f%%), Goroutines: %d",
				units.FormatBytes(snapshot.Alloc),
				maxMemory,
				float64(snapshot.Alloc)/float64(threshold)*100,
				snapshot.Goroutines)
		}).
		OnCritical(func(snapshot osx.Snapshot) {
			log.Warnf("\n[🚨 严重] 内存使用超过阈值: %s / %s (%.1f%%)",
				units.FormatBytes(snapshot.Alloc),
				maxMemory,
				float64(snapshot.Alloc)/float64(threshold)*100)
			log.Warn("🛑 自动停止负载任务...")
			cancel()
		})

	go mon.Start(ctx, 5*time.Second)
	return nil
}
