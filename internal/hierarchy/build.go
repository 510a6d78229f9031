package hierarchy

import "ddchier/pkg/contract"

// Result: 单文件层级重建的统计（报告的原料）。
type Result struct {
	Entries   int // 输入元素总数（含非对象元素）
	Codes     int // 去重分类号数
	Ranges    int // Range 形分类号数
	Annotated int // 写回层级字段的条目数
	Skipped   int // 标识字段不可用而跳过的条目数
}

// Build 对单文件条目执行完整的层级重建：
// 索引 → 直接子节点 → 区间覆盖 → 区间挂载 → 父解析 → 写回。
// 纯内存、确定性、幂等（对已携带层级字段的输入重跑得到
// 字节相同的层级字段）；除写回条目字段外无副作用。
func Build(d contract.Dialect, entries []*contract.Entry) (Result, error) {
	x := BuildIndex(d, entries)

	children := make(childSet, len(x.Codes))
	for c, kids := range ImmediateChildren(d, x) {
		for _, k := range kids {
			children.add(c, k)
		}
	}
	for rc, cov := range ExpandRanges(d, x) {
		for _, k := range cov {
			children.add(rc, k)
		}
	}
	AttachRanges(d, x, children)

	parents := Parents(d, x)

	n, err := Annotate(x, children, parents)
	return Result{
		Entries:   len(entries),
		Codes:     len(x.Codes),
		Ranges:    len(x.RangeCodes),
		Annotated: n,
		Skipped:   x.Skipped,
	}, err
}
