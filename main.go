/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\main.go
 * @Description: 负载生成工具主入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kamalyes/go-loadgen/bootstrap"
	"github.com/kamalyes/go-loadgen/config"
	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-loadgen/types"
)

var (
	// 基础参数
	configFile string
	mode       types.LoadMode
	stopFile   string

	// CPU模式参数
	cpuTarget int
	duration  int
	server    string
	instance    string
	port        int
	database    string
	user        string
	password    string

	// 磁盘模式参数
	ioType         types.IOType
	threads        int
	dir            string
	fileSizeGB     float64
	blockKB        int
	skipSpaceCheck bool

	// 日志配置
	logLevel string
	logFile  string
	quiet    bool
	verbose  bool

	// 内存限制
	maxMemory string // 内存使用阈值
)

func init() {
	// 设置默认值
	mode = types.LoadModeCPU
	ioType = types.IOTypeMixed

	// 基础参数
	flag.StringVar(&configFile, "config", "", "配置文件路径 (yaml/json)")
	flag.Var(&mode, "mode", "负载模式 (cpu/disk)")
	flag.StringVar(&stopFile, "stop-file", "", "停止信号文件路径 (默认: 可执行文件目录下的 stop.signal)")

	// CPU模式参数
	flag.IntVar(&cpuTarget, "target", 70, "目标CPU利用率百分比 (1-95)")
	flag.IntVar(&duration, "duration", 10, "运行时长/分钟 (cpu: 1-60, disk: 1-120)")
	flag.StringVar(&server, "server", "localhost", "数据库引擎主机")
	flag.StringVar(&instance, "instance", "", "命名实例 (可选)")
	flag.IntVar(&port, "port", 1433, "数据库引擎端口")
	flag.StringVar(&database, "database", "scratchdb", "目标数据库")
	flag.StringVar(&user, "user", "", "登录用户 (留空使用集成认证)")
	flag.StringVar(&password, "password", "", "登录密码")

	// 磁盘模式参数
	flag.Var(&ioType, "io", "IO类型 (read/write/mixed)")
	flag.IntVar(&threads, "threads", 4, "磁盘worker数量 (1-16)")
	flag.StringVar(&dir, "dir", "./scratch", "临时文件目录")
	flag.Float64Var(&fileSizeGB, "file-size-gb", 1.0, "单个临时文件大小/GB (0.1-100)")
	flag.IntVar(&blockKB, "block-kb", 64, "IO块大小/KB (4/8/16/32/64/128/256/512/1024)")
	flag.BoolVar(&skipSpaceCheck, "skip-space-check", false, "跳过磁盘空间余量确认")

	// 日志配置
	flag.StringVar(&logLevel, "log-level", "info", "日志级别 (debug/info/warn/error)")
	flag.StringVar(&logFile, "log-file", "", "日志文件路径")
	flag.BoolVar(&quiet, "quiet", false, "静默模式（仅错误）")
	flag.BoolVar(&verbose, "verbose", false, "详细模式（包含调试信息）")

	// 内存限制
	flag.StringVar(&maxMemory, "max-memory", "", "内存使用阈值，超过后自动停止 (如: 1GB, 512MB)")
}

func main() {
	flag.Parse()

	// 初始化日志器
	initLogger()

	// 处理子命令
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "-h", "--help":
			printBanner()
			printSimpleUsage()
			os.Exit(0)
		case "examples", "demo", "-demo":
			printBanner()
			printExamplesHelp()
			os.Exit(0)
		case "version", "-v", "--version":
			printVersion()
			os.Exit(0)
		}
	}

	// 如果没有任何参数，显示简化帮助信息
	if len(os.Args) == 1 {
		printBanner()
		printSimpleUsage()
		os.Exit(0)
	}

	// 打印banner
	printBanner()

	opts := bootstrap.Options{
		ConfigFile: configFile,
		ConfigFunc: buildConfigFromFlags,
		MaxMemory:  maxMemory,
		Logger:     logger.Default,
	}
	if err := bootstrap.Run(opts); err != nil {
		logger.Default.Fatalf("❌ 负载运行失败: %v", err)
	}
}

// buildConfigFromFlags 从命令行参数构建配置
func buildConfigFromFlags() *config.Config {
	cfg := config.DefaultConfig()

	cfg.Mode = mode
	if stopFile != "" {
		cfg.StopFile = stopFile
	}

	switch mode {
	case types.LoadModeCPU:
		cfg.CPU.TargetPercent = cpuTarget
		cfg.CPU.DurationMinutes = duration
		cfg.CPU.Server = server
		cfg.CPU.Instance = instance
		cfg.CPU.Port = port
		cfg.CPU.Database = database
		cfg.CPU.User = user
		cfg.CPU.Password = password
	case types.LoadModeDisk:
		cfg.Disk.IOType = ioType
		cfg.Disk.DurationMinutes = duration
		cfg.Disk.Threads = threads
		cfg.Disk.Dir = dir
		cfg.Disk.FileSizeGB = fileSizeGB
		cfg.Disk.BlockKB = blockKB
		cfg.Disk.SkipSpaceCheck = skipSpaceCheck
	}

	return cfg
}

// initLogger 初始化日志器
func initLogger() {
	config := logger.DefaultConfig()

	// 优先级：verbose > quiet > logLevel
	switch {
	case verbose:
		config = config.WithLevel(logger.DEBUG).WithShowCaller(true).WithTimeFormat("2006-01-02 15:04:05.000")
	case quiet:
		config = config.WithLevel(logger.ERROR)
	default:
		config = config.WithLevel(logger.ParseLogLevel(logLevel))
	}

	// 配置输出
	if logFile != "" {
		rotateWriter := logger.NewRotateWriter(logFile, 100*1024*1024, 5)
		config = config.WithOutput(rotateWriter).WithColorful(false)
	}

	logger.SetDefault(logger.New(config))
}

// printBanner 打印启动banner
func printBanner() {
	logger.Default.Info(`
╔══════════════════════════════════════════════════════════╗
║                                                          ║
║     ⚡ Go Load Generation Tool ⚡                        ║
║                                                          ║
║     🚀 参数化负载发生器                                   ║
║     🔧 支持 CPU(数据库计算批次) / 磁盘随机IO             ║
║     ⚙️  基于 go-toolbox 工具库                           ║
║                                                          ║
╚══════════════════════════════════════════════════════════╝
`)
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Println("go-loadgen version 1.0.0")
	fmt.Println("参数化 CPU/磁盘 负载发生器")
}

// printSimpleUsage 打印简化的使用说明
func printSimpleUsage() {
	printHeader("使用方法:")
	flag.Usage()

	fmt.Println("\n常用子命令:")
	fmt.Println("  go-loadgen help          - 显示完整帮助信息")
	fmt.Println("  go-loadgen examples      - 显示详细使用示例")
	fmt.Println("  go-loadgen version       - 显示版本信息")

	fmt.Println("\n快速开始:")
	fmt.Println("  # CPU负载: 驱动引擎到70%利用率，持续10分钟")
	fmt.Println("  go-loadgen -mode cpu -target 70 -duration 10 -server localhost")
	fmt.Println("")
	fmt.Println("  # 磁盘负载: 4个worker混合随机读写")
	fmt.Println("  go-loadgen -mode disk -io mixed -threads 4 -dir /data/scratch")
	fmt.Println("")
	fmt.Println("  # 使用配置文件")
	fmt.Println("  go-loadgen -config config.yaml")

	fmt.Println("\n💡 提示: 在停止信号文件路径创建一个文件即可随时中止运行")
}

// printExamplesHelp 打印示例帮助
func printExamplesHelp() {
	printHeader("基本示例:")
	examples := []string{
		"# CPU负载，命名实例，SQL认证",
		"go-loadgen -mode cpu -target 85 -duration 30 -server dbhost -instance SQL2022 -user sa -password secret",
		"",
		"# 磁盘只读负载，8个worker，256KB块",
		"go-loadgen -mode disk -io read -threads 8 -block-kb 256 -file-size-gb 2.0",
		"",
		"# 磁盘写负载，跳过空间余量确认",
		"go-loadgen -mode disk -io write -dir /mnt/scratch -skip-space-check",
		"",
		"# 自定义停止信号文件",
		"go-loadgen -mode cpu -target 70 -stop-file /tmp/loadgen.stop",
		"",
		"# 内存限制",
		"go-loadgen -mode disk -max-memory 1GB",
	}
	for _, example := range examples {
		fmt.Println(example)
	}

	printHeader("配置文件示例 (config.yaml):")
	printConfigExample()
}

func printHeader(title string) {
	fmt.Println("\n" + title)
}

func printConfigExample() {
	fmt.Println("mode: cpu")
	fmt.Println("stop_file: /tmp/loadgen.stop")
	fmt.Println("cpu:")
	fmt.Println("  target_percent: 70")
	fmt.Println("  duration_minutes: 10")
	fmt.Println("  server: localhost")
	fmt.Println("  database: scratchdb")
	fmt.Println("disk:")
	fmt.Println("  io_type: mixed")
	fmt.Println("  duration_minutes: 15")
	fmt.Println("  threads: 4")
	fmt.Println("  dir: ./scratch")
	fmt.Println("  file_size_gb: 1.0")
	fmt.Println("  block_kb: 64")
}
