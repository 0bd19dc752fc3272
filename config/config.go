/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\config\config.go
 * @Description: 运行配置定义与校验
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamalyes/go-loadgen/types"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// 校验范围常量（对外契约，越界直接拒绝）
const (
	CPUTargetMin = 1
	CPUTargetMax = 95

	CPUDurationMinutesMin = 1
	CPUDurationMinutesMax = 60

	DiskDurationMinutesMin = 1
	DiskDurationMinutesMax = 120

	DiskThreadsMin = 1
	DiskThreadsMax = 16

	DiskFileSizeGBMin = 0.1
	DiskFileSizeGBMax = 100.0

	// SpaceBufferRatio 剩余空间安全系数：可用空间低于 需求×1.2 时需要显式确认
	SpaceBufferRatio = 1.2
)

// DefaultStopFileName 停止信号文件默认文件名（默认与可执行文件同目录）
const DefaultStopFileName = "stop.signal"

// Config 运行配置（启动时校验，校验通过后不可变）
type Config struct {
	Mode types.LoadMode `yaml:"mode" json:"mode"`

	CPU  *CPUConfig  `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	Disk *DiskConfig `yaml:"disk,omitempty" json:"disk,omitempty"`

	// StopFile 停止信号文件路径：文件存在即视为中止请求，不读取内容
	StopFile string `yaml:"stop_file" json:"stop_file"`
}

// CPUConfig CPU负载模式配置
type CPUConfig struct {
	TargetPercent   int    `yaml:"target" json:"target"`     // 目标CPU利用率 1~95
	DurationMinutes int    `yaml:"duration" json:"duration"` // 运行时长（分钟）1~60
	Server          string `yaml:"server" json:"server"`     // SQL Server 主机
	Instance        string `yaml:"instance" json:"instance"` // 命名实例（可空）
	Port            int    `yaml:"port" json:"port"`         // 端口（使用命名实例时忽略）
	Database        string `yaml:"database" json:"database"` // 目标数据库（默认非生产 scratch 库）
	User            string `yaml:"user" json:"user"`         // 为空时使用集成认证
	Password        string `yaml:"password" json:"password"`
}

// DiskConfig 磁盘负载模式配置
type DiskConfig struct {
	IOType          types.IOType `yaml:"io" json:"io"`                             // read/write/mixed
	DurationMinutes int          `yaml:"duration" json:"duration"`                 // 运行时长（分钟）1~120
	Threads         int          `yaml:"threads" json:"threads"`                   // 并发worker数 1~16
	Dir             string       `yaml:"dir" json:"dir"`                           // 临时文件目录
	FileSizeGB      float64      `yaml:"file_size_gb" json:"file_size_gb"`         // 每worker文件大小 0.1~100 GB
	BlockKB         int          `yaml:"block_kb" json:"block_kb"`                 // IO块大小（KB，枚举集合）
	SkipSpaceCheck  bool         `yaml:"skip_space_check" json:"skip_space_check"` // 跳过剩余空间安全系数确认
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Mode: types.LoadModeCPU,
		CPU: &CPUConfig{
			TargetPercent:   70,
			DurationMinutes: 10,
			Server:          "localhost",
			Port:            1433,
			Database:        "scratchdb",
		},
		Disk: &DiskConfig{
			IOType:          types.IOTypeMixed,
			DurationMinutes: 10,
			Threads:         4,
			Dir:             "./scratch",
			FileSizeGB:      1.0,
			BlockKB:         64,
		},
		StopFile: DefaultStopFilePath(),
	}
}

// DefaultStopFilePath 默认停止信号文件路径：与可执行文件同目录
func DefaultStopFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultStopFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultStopFileName)
}

// Validate 校验配置，越界值直接拒绝（不启动任何worker）
func (c *Config) Validate() error {
	if c.StopFile == "" {
		return fmt.Errorf("停止信号文件路径不能为空")
	}

	switch c.Mode {
	case types.LoadModeCPU:
		if c.CPU == nil {
			return fmt.Errorf("CPU模式缺少 cpu 配置段")
		}
		return c.CPU.validate()
	case types.LoadModeDisk:
		if c.Disk == nil {
			return fmt.Errorf("磁盘模式缺少 disk 配置段")
		}
		return c.Disk.validate()
	}
	return fmt.Errorf("无效的负载模式: %s (支持: %s, %s)", c.Mode, types.LoadModeCPU, types.LoadModeDisk)
}

func (c *CPUConfig) validate() error {
	if c.TargetPercent < CPUTargetMin || c.TargetPercent > CPUTargetMax {
		return fmt.Errorf("目标CPU利用率 %d 越界 (允许范围: %d~%d)", c.TargetPercent, CPUTargetMin, CPUTargetMax)
	}
	if c.DurationMinutes < CPUDurationMinutesMin || c.DurationMinutes > CPUDurationMinutesMax {
		return fmt.Errorf("CPU模式运行时长 %d 分钟越界 (允许范围: %d~%d)", c.DurationMinutes, CPUDurationMinutesMin, CPUDurationMinutesMax)
	}
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("SQL Server 主机不能为空")
	}
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("目标数据库不能为空")
	}
	return nil
}

func (c *DiskConfig) validate() error {
	if err := c.IOType.Set(string(mathx.IfEmpty(c.IOType, types.IOTypeMixed))); err != nil {
		return err
	}
	if c.DurationMinutes < DiskDurationMinutesMin || c.DurationMinutes > DiskDurationMinutesMax {
		return fmt.Errorf("磁盘模式运行时长 %d 分钟越界 (允许范围: %d~%d)", c.DurationMinutes, DiskDurationMinutesMin, DiskDurationMinutesMax)
	}
	if c.Threads < DiskThreadsMin || c.Threads > DiskThreadsMax {
		return fmt.Errorf("并发worker数 %d 越界 (允许范围: %d~%d)", c.Threads, DiskThreadsMin, DiskThreadsMax)
	}
	if c.FileSizeGB < DiskFileSizeGBMin || c.FileSizeGB > DiskFileSizeGBMax {
		return fmt.Errorf("单worker文件大小 %.2fGB 越界 (允许范围: %.1f~%.1f)", c.FileSizeGB, DiskFileSizeGBMin, DiskFileSizeGBMax)
	}
	if !types.IsValidBlockSizeKB(c.BlockKB) {
		return fmt.Errorf("IO块大小 %dKB 不在允许集合内 %v", c.BlockKB, types.ValidBlockSizesKB)
	}
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("临时文件目录不能为空")
	}
	// 文件必须至少容纳一个块，否则随机偏移区间 [0, size-block) 为空
	if c.FileSizeBytes() <= int64(c.BlockSizeBytes()) {
		return fmt.Errorf("文件大小 %.2fGB 小于IO块大小 %dKB", c.FileSizeGB, c.BlockKB)
	}
	return nil
}

// FileSizeBytes 单worker文件字节数
func (c *DiskConfig) FileSizeBytes() int64 {
	return int64(c.FileSizeGB * 1024 * 1024 * 1024)
}

// BlockSizeBytes IO块字节数
func (c *DiskConfig) BlockSizeBytes() int {
	return c.BlockKB * 1024
}

// RequiredBytes 本次运行需要的总空间
func (c *DiskConfig) RequiredBytes() int64 {
	return c.FileSizeBytes() * int64(c.Threads)
}

// DSN 构造 go-mssqldb 连接串
func (c *CPUConfig) DSN() string {
	u := &url.URL{
		Scheme: "sqlserver",
		Host:   fmt.Sprintf("%s:%d", c.Server, mathx.IfNotZero(c.Port, 1433)),
	}
	if c.Instance != "" {
		// 命名实例：host/instance，由 SQL Browser 解析端口
		u.Host = c.Server
		u.Path = c.Instance
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := url.Values{}
	q.Set("database", c.Database)
	q.Set("connection timeout", "5")
	if c.User == "" {
		// 未提供账号时走集成认证
		q.Set("trusted_connection", "yes")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
