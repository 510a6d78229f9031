package hierarchy

import "ddchier/pkg/contract"

// ImmediateChildren 计算 Point 对 Point 的直接父子关系（暴力全扫，
// 单文件规模下 O(n²) 可接受且无需预排序）。
// Range 形既不作为父也不作为子；其成员关系完全由区间覆盖决定。
func ImmediateChildren(d contract.Dialect, x *Index) map[contract.Code][]contract.Code {
	pts := x.PointCodes()
	out := make(map[contract.Code][]contract.Code, len(pts))
	for _, c := range pts {
		for _, cand := range pts {
			if d.ImmediateChild(c, cand) {
				out[c] = append(out[c], cand)
			}
		}
	}
	return out
}
