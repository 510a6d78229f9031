package hierarchy

import (
	"sort"

	"ddchier/pkg/contract"
)

// Annotate 合并、去重、按字符串字典序排序子集（稳定确定，非数值序），
// 并将 {broader, narrower} 连同提取出的分类号写回共享该号的全部条目。
// 无条目挂靠的分类号按防御静默跳过。返回写回的条目数。
func Annotate(x *Index, children childSet, parents map[contract.Code]contract.Code) (int, error) {
	n := 0
	for _, c := range x.Codes {
		ents := x.ByCode[c]
		if len(ents) == 0 {
			continue
		}
		h := contract.Hierarchy{Narrower: children.sorted(c)}
		if p, ok := parents[c]; ok {
			h.Broader = &p
		}
		for _, e := range ents {
			if err := e.SetField("bfCode", string(c)); err != nil {
				return n, err
			}
			if err := e.SetField("hierarchy", h); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// childSet: 分类号 → 子节点集合（去重由集合结构保证）。
type childSet map[contract.Code]map[contract.Code]struct{}

func (s childSet) add(parent, child contract.Code) {
	m, ok := s[parent]
	if !ok {
		m = make(map[contract.Code]struct{})
		s[parent] = m
	}
	m[child] = struct{}{}
}

// sorted 返回字典序排序的子节点切片；永不为 nil（空集序列化为 []）。
func (s childSet) sorted(parent contract.Code) []contract.Code {
	m := s[parent]
	out := make([]contract.Code, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
