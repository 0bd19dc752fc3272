/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\engine\engine.go
 * @Description: SQL Server 引擎客户端
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/kamalyes/go-loadgen/config"
	"github.com/kamalyes/go-loadgen/logger"
)

// ProbeTimeout 连通性探测超时
const ProbeTimeout = 5 * time.Second

// UtilizationSamples 利用率平均值使用的环形缓冲区采样条数
const UtilizationSamples = 30

// Engine 数据库引擎抽象（便于测试替身）
type Engine interface {
	// Probe 短超时连通性探测，成功即关闭，不保留状态
	Probe(ctx context.Context) error
	// CoreCount 引擎所在主机的逻辑核心数
	CoreCount(ctx context.Context) (int, error)
	// UtilizationAvg 最近 UtilizationSamples 条利用率采样的平均值
	UtilizationAvg(ctx context.Context) (avg float64, samples int, err error)
	// RunComputeBatch 在一条独占连接上执行限时计算批次，返回迭代计数
	RunComputeBatch(ctx context.Context, seconds int) (int64, error)
	// Close 释放连接池
	Close() error
}

// SQLEngine 基于 database/sql + go-mssqldb 的引擎客户端
type SQLEngine struct {
	db     *sql.DB
	logger logger.ILogger
}

// NewSQLEngine 创建引擎客户端（连接惰性建立）
// worker数量要先探测核心数才能确定，建池后再调 SetPoolSize 放宽上限
func NewSQLEngine(cfg *config.CPUConfig, log logger.ILogger) (*SQLEngine, error) {
	db, err := sql.Open("sqlserver", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("打开引擎连接失败: %w", err)
	}

	// 准备阶段只需探测与查询，两条连接足够
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(0)

	return &SQLEngine{db: db, logger: log}, nil
}

// SetPoolSize 按worker数量调整连接池上限
// 每个worker独占一条连接，外加监控与探测各一条
func (e *SQLEngine) SetPoolSize(workerCount int) {
	e.db.SetMaxOpenConns(workerCount + 2)
	e.db.SetMaxIdleConns(workerCount + 2)
}

// Probe 连通性探测
func (e *SQLEngine) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	if err := e.db.PingContext(probeCtx); err != nil {
		return fmt.Errorf("引擎连通性探测失败: %w", err)
	}
	return nil
}

// CoreCount 查询引擎逻辑核心数
func (e *SQLEngine) CoreCount(ctx context.Context) (int, error) {
	var cores int
	if err := e.db.QueryRowContext(ctx, coreCountQuery).Scan(&cores); err != nil {
		return 0, fmt.Errorf("查询引擎核心数失败: %w", err)
	}
	if cores <= 0 {
		return 0, fmt.Errorf("引擎返回了无效的核心数: %d", cores)
	}
	return cores, nil
}

// UtilizationAvg 读取并平均最近的利用率采样
func (e *SQLEngine) UtilizationAvg(ctx context.Context) (float64, int, error) {
	rows, err := e.db.QueryContext(ctx, utilizationQuery, sql.Named("samples", UtilizationSamples))
	if err != nil {
		return 0, 0, fmt.Errorf("读取利用率环形缓冲区失败: %w", err)
	}
	defer rows.Close()

	var sum float64
	var n int
	for rows.Next() {
		var util float64
		if err := rows.Scan(&util); err != nil {
			return 0, 0, fmt.Errorf("解析利用率采样失败: %w", err)
		}
		sum += util
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("遍历利用率采样失败: %w", err)
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("环形缓冲区暂无利用率采样")
	}
	return sum / float64(n), n, nil
}

// RunComputeBatch 执行限时计算批次
// 独占一条连接，批次结束即归还；超时下限比批次时长宽裕30秒
func (e *SQLEngine) RunComputeBatch(ctx context.Context, seconds int) (int64, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("获取引擎连接失败: %w", err)
	}
	defer conn.Close()

	batchCtx, cancel := context.WithTimeout(ctx, time.Duration(seconds+30)*time.Second)
	defer cancel()

	var iterations int64
	err = conn.QueryRowContext(batchCtx, computeBatchQuery, sql.Named("seconds", seconds)).Scan(&iterations)
	if err != nil {
		return 0, fmt.Errorf("计算批次执行失败: %w", err)
	}
	return iterations, nil
}

// Close 释放连接池
func (e *SQLEngine) Close() error {
	return e.db.Close()
}
