package table

import (
	"encoding/json"
	"strconv"
	"strings"

	"ddchier/pkg/contract"
)

// Options: 预留占位；当前方言无配置项。
type Options struct{}

// Dialect 实现前缀数字记法：分类号以必需的 '-' 标记符开头、
// 后接数字（如 -092），无内部段分隔符。
// 由于单个短横已是每个 Point 的前缀字符，区间使用双写 '--' 作为
// 无歧义分隔（如 -001--003），避免与普通分类号冲突。
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

func (Dialect) Name() string { return "table" }

// Extract 优先取 notation；回退解析形如 "T1:-04" 的 id。
func (Dialect) Extract(e *contract.Entry) (contract.Code, bool) {
	if n, ok := e.StringField("notation"); ok && n != "" {
		return contract.Code(n), true
	}
	if id, ok := e.StringField("id"); ok && strings.HasPrefix(id, "T") {
		if i := strings.Index(id, ":"); i >= 0 && i+1 < len(id) {
			return contract.Code(id[i+1:]), true
		}
	}
	return "", false
}

// Classify: 含 '--' 即 Range；单个短横只是标记符前缀，仍为 Point。
func (d Dialect) Classify(c contract.Code) contract.Classified {
	if !strings.Contains(string(c), "--") {
		return contract.Classified{Code: c, Kind: contract.Point, Valid: true}
	}
	cl := contract.Classified{Code: c, Kind: contract.Range}
	if l, r, ok := d.SplitRange(c); ok {
		cl.Left, cl.Right, cl.Valid = l, r, true
	}
	return cl
}

// SplitRange 按 '--' 拆分；恰好两段才有效。
// 分隔符吃掉了右边界的必需标记符，拆分后补回，保证两侧均为 Point 形。
func (Dialect) SplitRange(c contract.Code) (contract.Code, contract.Code, bool) {
	s := string(c)
	if !strings.Contains(s, "--") {
		return "", "", false
	}
	parts := strings.SplitN(s, "--", 3)
	if len(parts) != 2 {
		return "", "", false
	}
	return contract.Code(parts[0]), contract.Code("-" + parts[1]), true
}

// ImmediateChild: candidate 以 parent 开头，余下为 1..3 位纯数字。
// 该记法没有内部分隔符，无界的后缀匹配会把无关的同前缀兄弟并入
// 子集，故对后缀深度设上限。Range 形不充当任一侧。
func (Dialect) ImmediateChild(parent, candidate contract.Code) bool {
	p, c := string(parent), string(candidate)
	if strings.Contains(p, "--") || strings.Contains(c, "--") || c == p {
		return false
	}
	if !strings.HasPrefix(c, p) || len(c) <= len(p) {
		return false
	}
	rest := c[len(p):]
	return len(rest) <= 3 && allDigits(rest)
}

// PointParent 每次截去一个尾字符、最长优先；最短保留 2 字节
// （标记符 + 至少一位数字）。
func (Dialect) PointParent(c contract.Code, points contract.PointSet) (contract.Code, bool) {
	s := string(c)
	for i := len(s) - 1; i >= 2; i-- {
		cand := contract.Code(s[:i])
		if points.Has(cand) {
			return cand, true
		}
	}
	return "", false
}

// RangeParent 对左边界应用与 Point 相同的截断搜索。
func (d Dialect) RangeParent(left contract.Code, points contract.PointSet) (contract.Code, bool) {
	return d.PointParent(left, points)
}

// Expand: 去掉标记符后按整数比较；任何边界解析失败即空覆盖。
func (Dialect) Expand(left, right contract.Code, points []contract.Code) []contract.Code {
	lo, err1 := strconv.Atoi(strings.TrimLeft(string(left), "-"))
	hi, err2 := strconv.Atoi(strings.TrimLeft(string(right), "-"))
	if err1 != nil || err2 != nil {
		return nil
	}
	var out []contract.Code
	for _, p := range points {
		num := strings.TrimLeft(string(p), "-")
		if num == "" || !allDigits(num) {
			continue
		}
		v, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		if lo <= v && v <= hi {
			out = append(out, p)
		}
	}
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
