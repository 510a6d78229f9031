package hierarchy

import "ddchier/pkg/contract"

// Index: 单文件范围内的分类号索引。构建一次，只读消费；
// 生命周期不越过单文件处理。
type Index struct {
	// ByCode: 分类号 → 产生它的条目（保持输入顺序）。
	// 同一分类号可重复出现（同源区域的多次扫描），全部条目
	// 最终共享完全相同的层级输出——这是不变量，不是近似。
	ByCode map[contract.Code][]*contract.Entry
	// Tags: 入库时一次性判定的种类标签。
	Tags map[contract.Code]contract.Classified
	// Codes: 去重后的分类号，按首次出现顺序。
	Codes []contract.Code
	// Points: Point 形集合（父节点搜索的存在性判定）。
	Points contract.PointSet
	// RangeCodes: Range 形分类号，按首次出现顺序。
	RangeCodes []contract.Code
	// Skipped: 标识字段不可用而被排除的条目数。
	Skipped int

	points []contract.Code // Point 形缓存，按首次出现顺序
}

// BuildIndex 提取分类号并分组。提取失败的条目不入索引，也不被
// 改写（原样出现在输出序列中）；非对象元素直接跳过。
func BuildIndex(d contract.Dialect, entries []*contract.Entry) *Index {
	x := &Index{
		ByCode: make(map[contract.Code][]*contract.Entry),
		Tags:   make(map[contract.Code]contract.Classified),
		Points: make(contract.PointSet),
	}
	for _, e := range entries {
		if !e.Object() {
			continue
		}
		code, ok := d.Extract(e)
		if !ok || code == "" {
			x.Skipped++
			continue
		}
		if _, seen := x.ByCode[code]; !seen {
			x.Codes = append(x.Codes, code)
			tag := d.Classify(code)
			x.Tags[code] = tag
			if tag.Kind == contract.Point {
				x.Points[code] = struct{}{}
				x.points = append(x.points, code)
			} else {
				x.RangeCodes = append(x.RangeCodes, code)
			}
		}
		x.ByCode[code] = append(x.ByCode[code], e)
	}
	return x
}

// PointCodes 返回 Point 形分类号（首次出现顺序）。
func (x *Index) PointCodes() []contract.Code { return x.points }
