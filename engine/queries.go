/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-10 00:00:00
 * @FilePath: \go-loadgen\engine\queries.go
 * @Description: 引擎查询文本
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package engine

// coreCountQuery 查询引擎所在主机的逻辑核心数
const coreCountQuery = `SELECT cpu_count FROM sys.dm_os_sys_info;`

// utilizationQuery 读取调度器监控环形缓冲区中最近的利用率采样
// 只读查询，缓冲区不可用时调用方降级展示而不是失败
const utilizationQuery = `
SELECT TOP (@samples)
    record.value('(./Record/SchedulerMonitorEvent/SystemHealth/ProcessUtilization)[1]', 'int') AS process_util
FROM (
    SELECT CONVERT(xml, record) AS record, [timestamp]
    FROM sys.dm_os_ring_buffers
    WHERE ring_buffer_type = N'RING_BUFFER_SCHEDULER_MONITOR'
      AND record LIKE N'%<SystemHealth>%'
) AS rb
ORDER BY rb.[timestamp] DESC;`

// computeBatchQuery 计算型负载批次：限时循环做试除法素性判定 + SHA2_256 哈希，
// 每1000次迭代 WAITFOR 短暂让出，避免饿死引擎的查询超时看护线程。
// 返回迭代计数（控制器不使用）。
const computeBatchQuery = `
SET NOCOUNT ON;
DECLARE @deadline DATETIME2 = DATEADD(SECOND, @seconds, SYSDATETIME());
DECLARE @i BIGINT = 0, @n BIGINT, @d BIGINT, @prime BIT, @h VARBINARY(32);
WHILE SYSDATETIME() < @deadline
BEGIN
    SET @i += 1;
    SET @n = 100000 + (@i % 100000);
    SET @prime = 1;
    SET @d = 2;
    WHILE @d * @d <= @n
    BEGIN
        IF @n % @d = 0 BEGIN SET @prime = 0; BREAK; END;
        SET @d += 1;
    END;
    SET @h = HASHBYTES('SHA2_256', CONVERT(NVARCHAR(32), @i));
    IF @i % 1000 = 0 WAITFOR DELAY '00:00:00.001';
END;
SELECT @i AS iterations;`
