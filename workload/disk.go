/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\workload\disk.go
 * @Description: 磁盘负载单元 - 临时文件随机块读写
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package workload

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/kamalyes/go-loadgen/executor"
	"github.com/kamalyes/go-loadgen/provision"
	"github.com/kamalyes/go-loadgen/statistics"
	"github.com/kamalyes/go-loadgen/types"
	"github.com/kamalyes/go-toolbox/pkg/random"
)

// DiskUnitOptions 磁盘负载单元配置
type DiskUnitOptions struct {
	File      provision.ScratchFile
	IOType    types.IOType
	BlockSize int64
	Collector *statistics.Collector
}

// NewDiskUnit 构造磁盘负载单元
// 每次调用对专属的临时文件执行一次随机偏移的块读或块写；
// mixed模式下每次调用独立掷硬币决定方向
func NewDiskUnit(opts DiskUnitOptions) executor.WorkUnit {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch opts.IOType {
		case types.IOTypeRead:
			return readBlock(opts)
		case types.IOTypeWrite:
			return writeBlock(opts)
		default:
			if random.RandInt(0, 1) == 0 {
				return readBlock(opts)
			}
			return writeBlock(opts)
		}
	}
}

// randomOffset 块对齐无关的随机偏移，保证整块落在文件内
func randomOffset(fileSize, blockSize int64) int64 {
	max := fileSize - blockSize
	if max <= 0 {
		return 0
	}
	return int64(random.RandInt(0, int(max)))
}

func readBlock(opts DiskUnitOptions) error {
	f, err := os.Open(opts.File.Path)
	if err != nil {
		return fmt.Errorf("打开临时文件失败: %w", err)
	}
	defer f.Close()

	buf := make([]byte, opts.BlockSize)
	offset := randomOffset(opts.File.Size, opts.BlockSize)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return fmt.Errorf("随机读失败 offset=%d: %w", offset, err)
	}
	opts.Collector.AddRead()
	return nil
}

func writeBlock(opts DiskUnitOptions) error {
	f, err := os.OpenFile(opts.File.Path, os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("打开临时文件失败: %w", err)
	}
	defer f.Close()

	buf := make([]byte, opts.BlockSize)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("生成随机块失败: %w", err)
	}
	offset := randomOffset(opts.File.Size, opts.BlockSize)
	if _, err := f.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("随机写失败 offset=%d: %w", offset, err)
	}
	// 每次写都落盘，保证产生真实磁盘压力而非页缓存命中
	if err := f.Sync(); err != nil {
		return fmt.Errorf("同步失败: %w", err)
	}
	opts.Collector.AddWrite()
	return nil
}
