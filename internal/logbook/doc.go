// Package logbook 实现 OJT 日志的纯领域规则：
// 工时计算、ATA 章节分类、条目状态机、进度聚合与导师名册汇总。
//
// 本包不访问数据库，也不读取系统时钟；调用方负责取数并传入 now。
package logbook
