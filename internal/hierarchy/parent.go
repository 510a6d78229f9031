package hierarchy

import "ddchier/pkg/contract"

// Parents 为每个分类号解析至多一个父节点。
// 不变量：父节点（若存在）必为 Point 形——Range 只作挂载子节点出现，
// 从不充当其他分类号的 broader 目标。
func Parents(d contract.Dialect, x *Index) map[contract.Code]contract.Code {
	out := make(map[contract.Code]contract.Code, len(x.Codes))
	for _, c := range x.Codes {
		tag := x.Tags[c]
		var p contract.Code
		var ok bool
		if tag.Kind == contract.Range {
			if tag.Valid {
				p, ok = d.RangeParent(tag.Left, x.Points)
			}
		} else {
			p, ok = d.PointParent(c, x.Points)
		}
		if ok {
			out[c] = p
		}
	}
	return out
}
