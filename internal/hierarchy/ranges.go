package hierarchy

import "ddchier/pkg/contract"

// ExpandRanges 计算每个 Range 覆盖的 Point 集合。
// 边界解析失败、结构不匹配、拆分失败均为空覆盖——策略退化，
// 不产生错误。
// 已知保留行为：整数区间不排除与其挂载父重合的边界值
// （004-006 挂载在 004 下时，004 同时出现在其覆盖里）。
// 上游语义未定边界含排性，按观测行为以回归测试钉死，不予“修正”。
func ExpandRanges(d contract.Dialect, x *Index) map[contract.Code][]contract.Code {
	out := make(map[contract.Code][]contract.Code, len(x.RangeCodes))
	pts := x.PointCodes()
	for _, rc := range x.RangeCodes {
		tag := x.Tags[rc]
		if !tag.Valid {
			continue
		}
		if cov := d.Expand(tag.Left, tag.Right, pts); len(cov) > 0 {
			out[rc] = cov
		}
	}
	return out
}

// AttachRanges 将每个 Range 注册为其容器父节点的附加子节点。
// 挂载父与该 Range 的 broader 出自同一次解析，二者恒一致。
func AttachRanges(d contract.Dialect, x *Index, children childSet) {
	for _, rc := range x.RangeCodes {
		tag := x.Tags[rc]
		if !tag.Valid {
			continue
		}
		if p, ok := d.RangeParent(tag.Left, x.Points); ok {
			children.add(p, rc)
		}
	}
}
