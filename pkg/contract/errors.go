package contract

import "errors"

// 最小错误分类哨兵。区间边界解析失败与结构不匹配不在此列：
// 它们是策略结果（空覆盖），不是错误。
var (
	// ErrFileStructure: 输入文件根不是记录序列（仅中止该文件，批处理继续）。
	ErrFileStructure = errors.New("file structure invalid")
	// ErrCodeUnusable: 条目的标识字段缺失/不可用（该条目不参与层级计算）。
	ErrCodeUnusable = errors.New("code unusable")
	// ErrPathInvalid: 目标标识映射为无效/越界路径（例如绝对路径或 '..' 逃逸）。
	ErrPathInvalid = errors.New("path invalid")
	// ErrInvariantViolation: 领域不变量违例（通用哨兵）。
	ErrInvariantViolation = errors.New("invariant violation")
)
