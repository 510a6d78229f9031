package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// FileReport: 单文件的处理统计与错误（报告中一行或一小块）。
type FileReport struct {
	File      string
	Entries   int
	Codes     int
	Ranges    int
	Annotated int
	Skipped   int
	Errors    []string
}

// Report: 一次批处理的显式结果值。
// 报告不经由进程级可变状态累积，核心保持可复用、可单测。
type Report struct {
	Files []FileReport
}

func (r *Report) add(fr FileReport) {
	r.Files = append(r.Files, fr)
}

// sortFiles 按文件名排序，使报告与并发调度顺序无关。
func (r *Report) sortFiles() {
	sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].File < r.Files[j].File })
}

// Render 产出纯文本报告：每个文件一行统计，错误各占一行。
func (r *Report) Render() string {
	var b strings.Builder
	for _, f := range r.Files {
		if f.Entries > 0 || len(f.Errors) == 0 {
			fmt.Fprintf(&b, "%s: entries=%d codes=%d ranges=%d annotated=%d skipped=%d\n",
				f.File, f.Entries, f.Codes, f.Ranges, f.Annotated, f.Skipped)
		}
		for _, e := range f.Errors {
			fmt.Fprintf(&b, "%s: %s\n", f.File, e)
		}
	}
	return b.String()
}

// Failed 报告是否存在记录到任何文件的错误。
func (r *Report) Failed() bool {
	for _, f := range r.Files {
		if len(f.Errors) > 0 {
			return true
		}
	}
	return false
}
