package schedule

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"ddchier/pkg/contract"
)

// Options: 预留占位；当前方言无配置项。
type Options struct{}

// Dialect 实现分段数字记法：分类号由 '.' 连接的数字段构成
// （如 600.1.2），单个 '-' 连接两个边界尾串即为区间
// （如 004-006、026.0001-026.0005）。
// 由于普通分类号自身从不含 '-'，单个短横是无歧义的区间标记。
type Dialect struct{}

// New 从原样 JSON Options 创建方言（当前忽略选项）。
func New(raw json.RawMessage) (*Dialect, error) {
	var opts Options
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &opts)
	}
	return &Dialect{}, nil
}

var _ contract.Dialect = (*Dialect)(nil)

// idCode: 标识字段形如 "Volume2-600.1"，卷号后的部分即分类号。
var idCode = regexp.MustCompile(`(?i)^volume\d+-(.+)$`)

func (Dialect) Name() string { return "schedule" }

// Extract 优先从 id 提取；不匹配时回退 notation。
func (Dialect) Extract(e *contract.Entry) (contract.Code, bool) {
	if id, ok := e.StringField("id"); ok {
		if m := idCode.FindStringSubmatch(id); m != nil {
			return contract.Code(m[1]), true
		}
	}
	if n, ok := e.StringField("notation"); ok && n != "" {
		return contract.Code(n), true
	}
	return "", false
}

// Classify: 含 '-' 即 Range；拆分失败的 Range 保留标签但 Valid=false。
func (d Dialect) Classify(c contract.Code) contract.Classified {
	if !strings.Contains(string(c), "-") {
		return contract.Classified{Code: c, Kind: contract.Point, Valid: true}
	}
	cl := contract.Classified{Code: c, Kind: contract.Range}
	if l, r, ok := d.SplitRange(c); ok {
		cl.Left, cl.Right, cl.Valid = l, r, true
	}
	return cl
}

// SplitRange 按 '-' 拆分；恰好两段才有效（多个短横极罕见，直接放弃）。
func (Dialect) SplitRange(c contract.Code) (contract.Code, contract.Code, bool) {
	s := string(c)
	if !strings.Contains(s, "-") {
		return "", "", false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return "", "", false
	}
	return contract.Code(parts[0]), contract.Code(parts[1]), true
}

// ImmediateChild: candidate 以 parent+"." 开头且余下恰为一段（无 '.'）。
// Range 形不充当该关系的任一侧。
func (Dialect) ImmediateChild(parent, candidate contract.Code) bool {
	p, c := string(parent), string(candidate)
	if strings.Contains(p, "-") || strings.Contains(c, "-") {
		return false
	}
	prefix := p + "."
	if !strings.HasPrefix(c, prefix) {
		return false
	}
	rest := c[len(prefix):]
	return rest != "" && !strings.Contains(rest, ".")
}

// PointParent 自尾部逐段截断、最长优先，返回首个存在的 Point。
// 无段分隔符的顶级分类号没有父节点。
func (Dialect) PointParent(c contract.Code, points contract.PointSet) (contract.Code, bool) {
	s := string(c)
	if !strings.Contains(s, ".") {
		return "", false
	}
	parts := strings.Split(s, ".")
	for i := len(parts) - 1; i >= 1; i-- {
		cand := contract.Code(strings.Join(parts[:i], "."))
		if points.Has(cand) {
			return cand, true
		}
	}
	return "", false
}

// RangeParent: 带点左边界去掉末段即父（存在时）；
// 不带点左边界自身存在即父。该结果兼作区间的 broader 与挂载父。
func (Dialect) RangeParent(left contract.Code, points contract.PointSet) (contract.Code, bool) {
	s := string(left)
	if i := strings.LastIndex(s, "."); i >= 0 {
		cand := contract.Code(s[:i])
		if points.Has(cand) {
			return cand, true
		}
		return "", false
	}
	if points.Has(left) {
		return left, true
	}
	return "", false
}

// Expand 计算区间覆盖，两种形态：
// - 整数形（两侧均无内部结构）：数值落入 [lo,hi] 的无点 Point；
// - 结构形（两侧均带点）：两侧去末段前缀必须一致，候选以该前缀开头、
//   余下恰一段且数值落入 [lo,hi]。更深层级不被直接覆盖，它们照常
//   归属于各自匹配的 Point。
// 边界解析失败或前缀不一致均为空覆盖（策略退化，不是错误）。
func (Dialect) Expand(left, right contract.Code, points []contract.Code) []contract.Code {
	l, r := string(left), string(right)
	ld, rd := strings.Contains(l, "."), strings.Contains(r, ".")
	switch {
	case !ld && !rd:
		lo, err1 := strconv.Atoi(l)
		hi, err2 := strconv.Atoi(r)
		if err1 != nil || err2 != nil {
			return nil
		}
		var out []contract.Code
		for _, p := range points {
			s := string(p)
			if strings.Contains(s, ".") {
				continue
			}
			v, err := strconv.Atoi(s)
			if err != nil {
				continue
			}
			if lo <= v && v <= hi {
				out = append(out, p)
			}
		}
		return out
	case ld && rd:
		li, ri := strings.LastIndex(l, "."), strings.LastIndex(r, ".")
		lpref, ltail := l[:li], l[li+1:]
		rpref, rtail := r[:ri], r[ri+1:]
		if lpref != rpref {
			// 结构不匹配
			return nil
		}
		lo, err1 := strconv.Atoi(ltail)
		hi, err2 := strconv.Atoi(rtail)
		if err1 != nil || err2 != nil {
			return nil
		}
		prefix := lpref + "."
		var out []contract.Code
		for _, p := range points {
			s := string(p)
			if !strings.HasPrefix(s, prefix) {
				continue
			}
			rest := s[len(prefix):]
			if rest == "" || strings.Contains(rest, ".") {
				continue
			}
			v, err := strconv.Atoi(rest)
			if err != nil {
				continue
			}
			if lo <= v && v <= hi {
				out = append(out, p)
			}
		}
		return out
	default:
		// 混合形态（一侧带点、一侧不带）：放弃覆盖
		return nil
	}
}
