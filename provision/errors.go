/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\provision\errors.go
 * @Description: 资源准备阶段错误
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package provision

import "errors"

// 资源准备阶段的错误类别，全部致命：上报后进程以非零码退出，该层不做重试
var (
	// ErrConnectionFailed 引擎连通性探测失败
	ErrConnectionFailed = errors.New("引擎连接失败")
	// ErrInsufficientSpace 目标卷可用空间不足以容纳全部临时文件
	ErrInsufficientSpace = errors.New("磁盘可用空间不足")
	// ErrSpaceMarginal 可用空间低于安全系数（需求×1.2），需显式跳过空间检查才能继续
	ErrSpaceMarginal = errors.New("磁盘可用空间低于安全余量")
	// ErrFileCreateFailed 临时文件创建失败
	ErrFileCreateFailed = errors.New("临时文件创建失败")
)
