package contract

// PointSet: 已知 Point 分类号集合（父节点搜索的存在性判定）。
type PointSet map[Code]struct{}

// Has 报告 c 是否为已知 Point。
func (s PointSet) Has(c Code) bool {
	_, ok := s[c]
	return ok
}

// Dialect: 记法方言的能力集。两种方言层级语义一致，仅分隔符与
// 截断规则不同；层级算法对本接口泛化驱动，不按方言分叉。
// 约束：
// 1) 纯函数、无内部状态、无并发；
// 2) Classify 仅在入库时调用一次，下游只消费标签；
// 3) 数值/结构解析失败一律以“无覆盖/无父”返回，绝不上抛。
type Dialect interface {
	// Name 返回注册名。
	Name() string
	// Extract 从条目的标识字段导出分类号；容忍备用字段回退。
	Extract(e *Entry) (Code, bool)
	// Classify 结构判定 Point/Range，并对 Range 预拆边界。
	Classify(c Code) Classified
	// SplitRange 将 Range 拆为左右 Point 形边界；
	// 分隔符未产出恰好两段时 ok=false。
	SplitRange(c Code) (left, right Code, ok bool)
	// ImmediateChild 判定 candidate 是否为 parent 的直接子节点。
	// 仅定义在 Point 对 Point 之上；任一侧为 Range 形即为 false。
	ImmediateChild(parent, candidate Code) bool
	// PointParent 自最长截断向最短搜索，返回首个存在的 Point 祖先
	// （平局规则：最长即最具体者优先）。
	PointParent(c Code, points PointSet) (Code, bool)
	// RangeParent 以左边界解析 Range 的容器父节点。
	// 同一结果既作该 Range 的 broader，也作其挂载父：两者恒一致。
	RangeParent(left Code, points PointSet) (Code, bool)
	// Expand 计算区间覆盖的 Point 集合（无序）；解析失败返回空。
	Expand(left, right Code, points []Code) []Code
}
