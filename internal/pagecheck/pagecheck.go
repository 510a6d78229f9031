package pagecheck

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// 上游抽取按页落盘检查点文件（如 2_p00017.json）。本包对一个页号
// 区间做完整性扫描：缺失页以压缩区间报告，形状匹配但不在期望集合
// 内的文件单独列出。只读扫描，不做任何抽取逻辑。

// Scan: 一次扫描的参数。
type Scan struct {
	Dir    string
	Start  int
	End    int
	Prefix string
	Width  int // 页号零填充宽度
	Ext    string
}

// Result: 扫描结果。
type Result struct {
	Expected int
	Found    int
	Missing  []int    // 升序
	Extra    []string // 形状匹配但不在期望集合内的文件名，升序
}

// Run 扫描目录并比对期望页集合。
func Run(s Scan) (Result, error) {
	var res Result
	if s.End < s.Start {
		return res, fmt.Errorf("invalid page interval %d..%d", s.Start, s.End)
	}
	res.Expected = s.End - s.Start + 1

	expected := make(map[string]struct{}, res.Expected)
	for i := s.Start; i <= s.End; i++ {
		expected[s.name(i)] = struct{}{}
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return res, err
	}
	found := make(map[int]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		idx, ok := s.parse(name)
		if !ok {
			continue
		}
		if _, want := expected[name]; want {
			found[idx] = struct{}{}
		} else {
			res.Extra = append(res.Extra, name)
		}
	}
	res.Found = len(found)
	for i := s.Start; i <= s.End; i++ {
		if _, ok := found[i]; !ok {
			res.Missing = append(res.Missing, i)
		}
	}
	sort.Strings(res.Extra)
	return res, nil
}

// name 构造期望文件名（零填充页号）。
func (s Scan) name(idx int) string {
	return fmt.Sprintf("%s%0*d%s", s.Prefix, s.Width, idx, s.Ext)
}

// parse 严格按形状解析文件名中的页号。
func (s Scan) parse(name string) (int, bool) {
	if !strings.HasPrefix(name, s.Prefix) || !strings.HasSuffix(name, s.Ext) {
		return 0, false
	}
	core := name[len(s.Prefix) : len(name)-len(s.Ext)]
	if len(core) != s.Width {
		return 0, false
	}
	idx, err := strconv.Atoi(core)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// CompressRanges 将升序页号压缩为闭区间序列（[17 20] [27 27]）。
func CompressRanges(nums []int) [][2]int {
	if len(nums) == 0 {
		return nil
	}
	var out [][2]int
	start, prev := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		out = append(out, [2]int{start, prev})
		start, prev = n, n
	}
	return append(out, [2]int{start, prev})
}

// FormatRanges 渲染压缩区间："17-20, 27"。
func FormatRanges(rs [][2]int) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		if r[0] == r[1] {
			parts = append(parts, strconv.Itoa(r[0]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r[0], r[1]))
		}
	}
	return strings.Join(parts, ", ")
}

// Render 产出人读文本块。
func (r Result) Render(s Scan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Checked folder: %s\n", s.Dir)
	fmt.Fprintf(&b, "Pattern: %s | Range: %d..%d\n", s.name(0), s.Start, s.End)
	fmt.Fprintf(&b, "Expected files: %d\n", r.Expected)
	fmt.Fprintf(&b, "Found matching files: %d\n", r.Found)
	if len(r.Missing) == 0 {
		b.WriteString("No files missing.\n")
	} else {
		fmt.Fprintf(&b, "Missing count: %d\n", len(r.Missing))
		fmt.Fprintf(&b, "Missing index ranges: %s\n", FormatRanges(CompressRanges(r.Missing)))
	}
	if len(r.Extra) > 0 {
		b.WriteString("Extra files matching the shape but outside the expected set:\n")
		for _, n := range r.Extra {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	return b.String()
}
