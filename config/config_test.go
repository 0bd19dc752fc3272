/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\config\config_test.go
 * @Description: 运行配置校验测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kamalyes/go-loadgen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validCPUConfig 合法的CPU模式配置
func validCPUConfig() *Config {
	cfg := DefaultConfig()
	cfg.Mode = types.LoadModeCPU
	return cfg
}

// validDiskConfig 合法的磁盘模式配置
func validDiskConfig() *Config {
	cfg := DefaultConfig()
	cfg.Mode = types.LoadModeDisk
	cfg.Disk.FileSizeGB = 0.1
	return cfg
}

// TestDefaultConfigValid 测试默认配置本身合法
func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, validCPUConfig().Validate())
	assert.NoError(t, validDiskConfig().Validate())
}

// TestCPUTargetRange 测试目标CPU利用率越界拒绝
func TestCPUTargetRange(t *testing.T) {
	cases := []struct {
		name   string
		target int
		wantOK bool
	}{
		{"下界", 1, true},
		{"上界", 95, true},
		{"零", 0, false},
		{"负值", -10, false},
		{"超上界", 96, false},
		{"离谱值", 1000, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validCPUConfig()
			cfg.CPU.TargetPercent = tc.target
			err := cfg.Validate()
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// TestCPUDurationRange 测试CPU模式运行时长越界拒绝
func TestCPUDurationRange(t *testing.T) {
	cases := []struct {
		minutes int
		wantOK  bool
	}{
		{1, true},
		{60, true},
		{0, false},
		{61, false},
		{-5, false},
	}

	for _, tc := range cases {
		cfg := validCPUConfig()
		cfg.CPU.DurationMinutes = tc.minutes
		err := cfg.Validate()
		if tc.wantOK {
			assert.NoError(t, err, "duration=%d", tc.minutes)
		} else {
			assert.Error(t, err, "duration=%d", tc.minutes)
		}
	}
}

// TestCPURequiredFields 测试CPU模式必填字段
func TestCPURequiredFields(t *testing.T) {
	cfg := validCPUConfig()
	cfg.CPU.Server = "  "
	assert.Error(t, cfg.Validate())

	cfg = validCPUConfig()
	cfg.CPU.Database = ""
	assert.Error(t, cfg.Validate())

	cfg = validCPUConfig()
	cfg.CPU = nil
	assert.Error(t, cfg.Validate())
}

// TestDiskDurationRange 测试磁盘模式运行时长越界拒绝
func TestDiskDurationRange(t *testing.T) {
	cases := []struct {
		minutes int
		wantOK  bool
	}{
		{1, true},
		{120, true},
		{0, false},
		{121, false},
	}

	for _, tc := range cases {
		cfg := validDiskConfig()
		cfg.Disk.DurationMinutes = tc.minutes
		err := cfg.Validate()
		if tc.wantOK {
			assert.NoError(t, err, "duration=%d", tc.minutes)
		} else {
			assert.Error(t, err, "duration=%d", tc.minutes)
		}
	}
}

// TestDiskThreadsRange 测试并发worker数越界拒绝
func TestDiskThreadsRange(t *testing.T) {
	for _, threads := range []int{1, 8, 16} {
		cfg := validDiskConfig()
		cfg.Disk.Threads = threads
		assert.NoError(t, cfg.Validate(), "threads=%d", threads)
	}
	for _, threads := range []int{0, -1, 17, 100} {
		cfg := validDiskConfig()
		cfg.Disk.Threads = threads
		assert.Error(t, cfg.Validate(), "threads=%d", threads)
	}
}

// TestDiskBlockSizeEnum 测试IO块大小只接受枚举集合
func TestDiskBlockSizeEnum(t *testing.T) {
	for _, kb := range types.ValidBlockSizesKB {
		cfg := validDiskConfig()
		cfg.Disk.FileSizeGB = 1.0 // 保证文件大于最大块
		cfg.Disk.BlockKB = kb
		assert.NoError(t, cfg.Validate(), "block=%dKB", kb)
	}
	for _, kb := range []int{0, 3, 7, 48, 2048, -64} {
		cfg := validDiskConfig()
		cfg.Disk.BlockKB = kb
		assert.Error(t, cfg.Validate(), "block=%dKB", kb)
	}
}

// TestDiskFileSizeRange 测试单worker文件大小越界拒绝
func TestDiskFileSizeRange(t *testing.T) {
	cases := []struct {
		sizeGB float64
		wantOK bool
	}{
		{0.1, true},
		{100.0, true},
		{0.05, false},
		{100.1, false},
		{0, false},
	}

	for _, tc := range cases {
		cfg := validDiskConfig()
		cfg.Disk.FileSizeGB = tc.sizeGB
		err := cfg.Validate()
		if tc.wantOK {
			assert.NoError(t, err, "size=%.2fGB", tc.sizeGB)
		} else {
			assert.Error(t, err, "size=%.2fGB", tc.sizeGB)
		}
	}
}

// TestInvalidMode 测试无效负载模式拒绝
func TestInvalidMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = types.LoadMode("gpu")
	assert.Error(t, cfg.Validate())
}

// TestRequiredBytes 测试总空间需求计算
func TestRequiredBytes(t *testing.T) {
	cfg := validDiskConfig()
	cfg.Disk.FileSizeGB = 0.5
	cfg.Disk.Threads = 4

	// 0.5GB × 4
	assert.Equal(t, int64(0.5*1024*1024*1024)*4, cfg.Disk.RequiredBytes())
}

// TestDSNDefaultPort 测试默认端口连接串
func TestDSNDefaultPort(t *testing.T) {
	cfg := validCPUConfig()
	cfg.CPU.Server = "dbhost"
	cfg.CPU.Port = 0

	dsn := cfg.CPU.DSN()
	assert.Contains(t, dsn, "sqlserver://")
	assert.Contains(t, dsn, "dbhost:1433")
	assert.Contains(t, dsn, "database=scratchdb")
	// 未提供账号走集成认证
	assert.Contains(t, dsn, "trusted_connection=yes")
}

// TestDSNNamedInstance 测试命名实例连接串
func TestDSNNamedInstance(t *testing.T) {
	cfg := validCPUConfig()
	cfg.CPU.Server = "dbhost"
	cfg.CPU.Instance = "SQL2022"

	dsn := cfg.CPU.DSN()
	assert.Contains(t, dsn, "dbhost/SQL2022")
	assert.NotContains(t, dsn, ":1433")
}

// TestDSNSQLAuth 测试SQL认证连接串
func TestDSNSQLAuth(t *testing.T) {
	cfg := validCPUConfig()
	cfg.CPU.User = "sa"
	cfg.CPU.Password = "secret"

	dsn := cfg.CPU.DSN()
	assert.Contains(t, dsn, "sa:secret@")
	assert.NotContains(t, dsn, "trusted_connection")
}

// TestLoadFromYAMLFile 测试YAML配置文件加载
func TestLoadFromYAMLFile(t *testing.T) {
	content := `
mode: disk
stop_file: /tmp/loadgen.stop
disk:
  io: read
  duration: 15
  threads: 8
  dir: ./scratch
  file_size_gb: 0.5
  block_kb: 256
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, types.LoadModeDisk, cfg.Mode)
	assert.Equal(t, types.IOTypeRead, cfg.Disk.IOType)
	assert.Equal(t, 15, cfg.Disk.DurationMinutes)
	assert.Equal(t, 8, cfg.Disk.Threads)
	assert.Equal(t, 256, cfg.Disk.BlockKB)
	assert.Equal(t, "/tmp/loadgen.stop", cfg.StopFile)
}

// TestLoadFromJSONFile 测试JSON配置文件加载
func TestLoadFromJSONFile(t *testing.T) {
	content := `{
  "mode": "cpu",
  "stop_file": "/tmp/loadgen.stop",
  "cpu": {
    "target": 85,
    "duration": 30,
    "server": "dbhost",
    "database": "scratchdb"
  }
}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, types.LoadModeCPU, cfg.Mode)
	assert.Equal(t, 85, cfg.CPU.TargetPercent)
	assert.Equal(t, 30, cfg.CPU.DurationMinutes)
	assert.Equal(t, "dbhost", cfg.CPU.Server)
}

// TestLoadRejectsInvalidConfig 测试配置文件越界值加载即拒绝
func TestLoadRejectsInvalidConfig(t *testing.T) {
	content := `
mode: cpu
stop_file: /tmp/loadgen.stop
cpu:
  target: 99
  duration: 10
  server: dbhost
  database: scratchdb
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewLoader().LoadFromFile(path)
	assert.Error(t, err)
}

// TestLoadMissingFile 测试不存在的配置文件
func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}
