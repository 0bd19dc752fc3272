/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\provision\disk.go
 * @Description: 磁盘模式资源准备 - 空间校验与临时文件生成
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package provision

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamalyes/go-loadgen/config"
	"github.com/kamalyes/go-loadgen/logger"
	"github.com/kamalyes/go-toolbox/pkg/units"
	"github.com/shirou/gopsutil/v3/disk"
)

// ScratchFile 单worker独占的临时文件
type ScratchFile struct {
	Path string
	Size int64
}

// FreeSpaceFunc 查询目标路径所在卷可用字节数（测试可注入）
type FreeSpaceFunc func(path string) (uint64, error)

// DiskProvisioner 磁盘模式资源准备器
type DiskProvisioner struct {
	cfg       *config.DiskConfig
	freeSpace FreeSpaceFunc
	logger    logger.ILogger
}

// NewDiskProvisioner 创建磁盘模式资源准备器
func NewDiskProvisioner(cfg *config.DiskConfig, log logger.ILogger) *DiskProvisioner {
	return &DiskProvisioner{
		cfg: cfg,
		freeSpace: func(path string) (uint64, error) {
			usage, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return usage.Free, nil
		},
		logger: log,
	}
}

// SetFreeSpaceFunc 注入可用空间查询（测试用）
func (p *DiskProvisioner) SetFreeSpaceFunc(fn FreeSpaceFunc) {
	p.freeSpace = fn
}

// Prepare 校验空间、创建目录、同步生成全部临时文件
// 任何一步失败都会中止整个运行并清掉已生成的部分文件
func (p *DiskProvisioner) Prepare(ctx context.Context) ([]ScratchFile, error) {
	if err := os.MkdirAll(p.cfg.Dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("%w: 创建目录 %s 失败: %v", ErrFileCreateFailed, p.cfg.Dir, err)
	}

	if err := p.checkSpace(); err != nil {
		return nil, err
	}

	required := p.cfg.RequiredBytes()
	p.logger.Info("📁 生成临时文件: %d 个 × %s (共 %s)",
		p.cfg.Threads,
		units.FormatBytes(uint64(p.cfg.FileSizeBytes())),
		units.FormatBytes(uint64(required)))

	files := make([]ScratchFile, 0, p.cfg.Threads)
	for i := 0; i < p.cfg.Threads; i++ {
		path := filepath.Join(p.cfg.Dir, fmt.Sprintf("loadgen-scratch-%02d.dat", i))
		if err := p.createFile(ctx, path); err != nil {
			p.logger.Errorf("❌ 生成临时文件 %s 失败: %v", path, err)
			CleanupScratchFiles(append(files, ScratchFile{Path: path}), p.logger)
			return nil, fmt.Errorf("%w: %s: %v", ErrFileCreateFailed, path, err)
		}
		files = append(files, ScratchFile{Path: path, Size: p.cfg.FileSizeBytes()})
		p.logger.Info("  ✅ [%d/%d] %s", i+1, p.cfg.Threads, path)
	}

	return files, nil
}

// checkSpace 可用空间守卫
// available < required            -> 硬失败
// available < required × 1.2      -> 需显式跳过空间检查才放行
func (p *DiskProvisioner) checkSpace() error {
	available, err := p.freeSpace(p.cfg.Dir)
	if err != nil {
		return fmt.Errorf("%w: 读取 %s 可用空间失败: %v", ErrInsufficientSpace, p.cfg.Dir, err)
	}

	required := uint64(p.cfg.RequiredBytes())
	buffered := uint64(float64(required) * config.SpaceBufferRatio)

	p.logger.Info("💽 空间校验: 需求 %s, 可用 %s (安全余量 %s)",
		units.FormatBytes(required), units.FormatBytes(available), units.FormatBytes(buffered))

	if available < required {
		return fmt.Errorf("%w: 需求 %s 超过可用 %s", ErrInsufficientSpace,
			units.FormatBytes(required), units.FormatBytes(available))
	}
	if available < buffered {
		if p.cfg.SkipSpaceCheck {
			p.logger.Warnf("⚠️  可用空间 %s 低于安全余量 %s，已显式跳过空间检查，继续执行",
				units.FormatBytes(available), units.FormatBytes(buffered))
			return nil
		}
		return fmt.Errorf("%w: 可用 %s 低于安全余量 %s (使用 -skip-space-check 强制继续)",
			ErrSpaceMarginal, units.FormatBytes(available), units.FormatBytes(buffered))
	}
	return nil
}

// createFile 按块同步写入随机字节直到目标大小
// 随机内容保证文件不可压缩，避免精简置备/压缩卷虚报IO
func (p *DiskProvisioner) createFile(ctx context.Context, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	block := make([]byte, p.cfg.BlockSizeBytes())
	remaining := p.cfg.FileSizeBytes()
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n := int64(len(block))
		if remaining < n {
			n = remaining
		}
		if _, err := rand.Read(block[:n]); err != nil {
			return err
		}
		if _, err := f.Write(block[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	return f.Sync()
}

// CleanupScratchFiles 尽力删除全部临时文件
// 单个删除失败只告警，不中断后续清理；返回成功删除的数量
func CleanupScratchFiles(files []ScratchFile, log logger.ILogger) int {
	removed := 0
	for _, sf := range files {
		if err := os.Remove(sf.Path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Warnf("⚠️  删除临时文件 %s 失败: %v", sf.Path, err)
			continue
		}
		removed++
	}
	return removed
}
