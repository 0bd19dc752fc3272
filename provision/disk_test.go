/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\provision\disk_test.go
 * @Description: 磁盘资源准备测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamalyes/go-loadgen/config"
	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-loadgen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallDiskConfig 最小合法磁盘配置（单worker 0.1GB）
func smallDiskConfig(dir string) *config.DiskConfig {
	return &config.DiskConfig{
		IOType:          types.IOTypeMixed,
		DurationMinutes: 5,
		Threads:         2,
		Dir:             dir,
		FileSizeGB:      0.1,
		BlockKB:         64,
	}
}

// withFreeSpace 注入固定的可用空间值
func withFreeSpace(p *DiskProvisioner, available uint64) {
	p.SetFreeSpaceFunc(func(path string) (uint64, error) {
		return available, nil
	})
}

// TestSpaceCheckHardFailure 测试可用空间不足需求：硬失败
func TestSpaceCheckHardFailure(t *testing.T) {
	cfg := smallDiskConfig(t.TempDir())
	p := NewDiskProvisioner(cfg, logger.New())

	// 可用空间只有需求的一半
	withFreeSpace(p, uint64(cfg.RequiredBytes()/2))

	_, err := p.Prepare(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientSpace))
}

// TestSpaceCheckMarginal 测试可用空间低于安全余量：需显式确认
func TestSpaceCheckMarginal(t *testing.T) {
	cfg := smallDiskConfig(t.TempDir())
	p := NewDiskProvisioner(cfg, logger.New())

	// 够用但不足 需求×1.2
	marginal := uint64(float64(cfg.RequiredBytes()) * 1.1)
	withFreeSpace(p, marginal)

	_, err := p.Prepare(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpaceMarginal))
}

// TestSpaceCheckMarginalSkipped 测试显式跳过空间检查后放行
func TestSpaceCheckMarginalSkipped(t *testing.T) {
	cfg := smallDiskConfig(t.TempDir())
	cfg.Threads = 1
	cfg.SkipSpaceCheck = true
	p := NewDiskProvisioner(cfg, logger.New())

	marginal := uint64(float64(cfg.RequiredBytes()) * 1.1)
	withFreeSpace(p, marginal)

	files, err := p.Prepare(context.Background())
	require.NoError(t, err)
	defer CleanupScratchFiles(files, logger.New())

	assert.Equal(t, 1, len(files))
}

// TestSpaceCheckBoundaries 测试边界值精确判定
func TestSpaceCheckBoundaries(t *testing.T) {
	cfg := smallDiskConfig(t.TempDir())
	required := uint64(cfg.RequiredBytes())
	buffered := uint64(float64(required) * config.SpaceBufferRatio)

	cases := []struct {
		name      string
		available uint64
		wantErr   error
	}{
		{"恰好等于需求", required, ErrSpaceMarginal},
		{"需求减一字节", required - 1, ErrInsufficientSpace},
		{"恰好等于安全余量", buffered, nil},
		{"余量减一字节", buffered - 1, ErrSpaceMarginal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewDiskProvisioner(cfg, logger.New())
			withFreeSpace(p, tc.available)

			err := p.checkSpace()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.wantErr))
			}
		})
	}
}

// TestSpaceQueryFailure 测试可用空间查询失败按空间不足处理
func TestSpaceQueryFailure(t *testing.T) {
	cfg := smallDiskConfig(t.TempDir())
	p := NewDiskProvisioner(cfg, logger.New())
	p.SetFreeSpaceFunc(func(path string) (uint64, error) {
		return 0, errors.New("模拟卷查询失败")
	})

	_, err := p.Prepare(context.Background())
	assert.True(t, errors.Is(err, ErrInsufficientSpace))
}

// TestPrepareCreatesFiles 测试临时文件生成：数量、大小、命名
func TestPrepareCreatesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := smallDiskConfig(dir)
	cfg.Threads = 2
	p := NewDiskProvisioner(cfg, logger.New())
	withFreeSpace(p, uint64(cfg.RequiredBytes())*2)

	files, err := p.Prepare(context.Background())
	require.NoError(t, err)
	defer CleanupScratchFiles(files, logger.New())

	require.Equal(t, 2, len(files))
	for i, sf := range files {
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("loadgen-scratch-%02d.dat", i)), sf.Path)
		info, err := os.Stat(sf.Path)
		require.NoError(t, err)
		assert.Equal(t, cfg.FileSizeBytes(), info.Size())
		assert.Equal(t, cfg.FileSizeBytes(), sf.Size)
	}
}

// TestPrepareCancelledContext 测试取消后中止生成并清掉部分文件
func TestPrepareCancelledContext(t *testing.T) {
	dir := t.TempDir()
	cfg := smallDiskConfig(dir)
	p := NewDiskProvisioner(cfg, logger.New())
	withFreeSpace(p, uint64(cfg.RequiredBytes())*2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Prepare(ctx)
	assert.True(t, errors.Is(err, ErrFileCreateFailed))

	// 部分生成的文件已被清理
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Equal(t, 0, len(entries))
}

// TestCleanupScratchFiles 测试清理：计数、缺失文件跳过
func TestCleanupScratchFiles(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "loadgen-scratch-00.dat")
	require.NoError(t, os.WriteFile(existing, []byte("data"), 0o644))

	files := []ScratchFile{
		{Path: existing, Size: 4},
		{Path: filepath.Join(dir, "loadgen-scratch-01.dat"), Size: 4}, // 不存在
	}

	removed := CleanupScratchFiles(files, logger.New())
	assert.Equal(t, 1, removed)

	_, err := os.Stat(existing)
	assert.True(t, os.IsNotExist(err))
}

// TestCleanupIdempotent 测试重复清理无害
func TestCleanupIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loadgen-scratch-00.dat")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	files := []ScratchFile{{Path: path, Size: 4}}
	assert.Equal(t, 1, CleanupScratchFiles(files, logger.New()))
	assert.Equal(t, 0, CleanupScratchFiles(files, logger.New()))
}
