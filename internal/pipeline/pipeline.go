package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ddchier/internal/diag"
	"ddchier/internal/hierarchy"
	"ddchier/pkg/contract"
)

// - 故障按文件隔离：单文件的任何错误只进入该文件的报告块，
//   批处理继续；仅输入根不可读与 ctx 取消会中止整次运行。
// - 文件之间不共享可变状态；按文件并行只是吞吐优化，非正确性要求。
// - 报告是返回值，不是全局累积器。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader  contract.Reader
	Writer  contract.Writer
	Dialect contract.Dialect
}

// Settings: 运行期配置（最小必要）。
type Settings struct {
	Inputs      []string
	Concurrency int
	// MatchSuffix: 参与处理的输入文件名后缀；其他文件静默忽略。
	MatchSuffix string
	// OutputSuffix: 输出工件名以此替换 MatchSuffix。
	OutputSuffix string
	// ReportName: 汇总报告工件名；为空则不写报告工件。
	ReportName string
}

const (
	defaultMatchSuffix  = ".cleaned.json"
	defaultOutputSuffix = ".bfrange.json"
)

// Run 执行完整批处理：Reader → 层级重建 → Writer，返回报告。
// 返回的 error 仅反映运行级失败（输入根不可读、报告写出失败、取消）。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (Report, error) {
	var rep Report
	if err := sanity(comp, set); err != nil {
		return rep, fmt.Errorf("sanity: %w", err)
	}
	match := set.MatchSuffix
	if match == "" {
		match = defaultMatchSuffix
	}
	outSuffix := set.OutputSuffix
	if outSuffix == "" {
		outSuffix = defaultOutputSuffix
	}

	// 读入阶段串行（Reader 不起并发）；文件的变换与写出并发执行。
	type job struct {
		id   contract.FileID
		data []byte
	}
	var jobs []job
	err := comp.Reader.Iterate(ctx, set.Inputs, func(fileID contract.FileID, rc io.ReadCloser) error {
		defer rc.Close()
		if !strings.HasSuffix(path.Base(string(fileID)), match) {
			return nil
		}
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{id: fileID, data: data})
		return nil
	})
	if err != nil {
		if logger != nil {
			logger.Error("reader", string(diag.Classify(err)), "iterate failed", nil)
			diag.IncOp("reader", "error", "error")
		}
		return rep, fmt.Errorf("reader iterate: %w", err)
	}

	conc := set.Concurrency
	if conc < 1 {
		conc = 1
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(conc)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := processFile(gctx, comp, j.id, j.data, match, outSuffix, logger)
			mu.Lock()
			rep.add(fr)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	rep.sortFiles()

	if set.ReportName != "" {
		if err := comp.Writer.Write(ctx, contract.ArtifactID(set.ReportName), strings.NewReader(rep.Render())); err != nil {
			if logger != nil {
				logger.Error("writer", string(diag.Classify(err)), "report write failed", nil)
			}
			return rep, fmt.Errorf("writer report: %w", err)
		}
	}
	return rep, nil
}

// processFile 处理单个目录文件；任何错误都收敛进返回的报告块。
func processFile(ctx context.Context, comp Components, id contract.FileID, data []byte, match, outSuffix string, logger *diag.Logger) FileReport {
	name := path.Base(string(id))
	fr := FileReport{File: name}

	timer := (*diag.Timer)(nil)
	if logger != nil {
		timer = logger.StartWith("hierarchy", "build", string(id))
	}

	entries, err := decodeCatalog(data)
	if err != nil {
		fr.Errors = append(fr.Errors, fmt.Sprintf("error: %v", err))
		if logger != nil {
			code := diag.Classify(err)
			logger.ErrorWith("hierarchy", string(code), "decode failed", nil, string(id))
			diag.IncOp("hierarchy", "error", "error")
			diag.IncError("hierarchy", string(code))
		}
		return fr
	}

	res, err := hierarchy.Build(comp.Dialect, entries)
	fr.Entries = res.Entries
	fr.Codes = res.Codes
	fr.Ranges = res.Ranges
	fr.Annotated = res.Annotated
	fr.Skipped = res.Skipped
	if err != nil {
		fr.Errors = append(fr.Errors, fmt.Sprintf("error: %v", err))
		if logger != nil {
			code := diag.Classify(err)
			logger.ErrorWith("hierarchy", string(code), "build failed", nil, string(id))
			diag.IncOp("hierarchy", "error", "error")
			diag.IncError("hierarchy", string(code))
		}
		return fr
	}
	if timer != nil {
		timer.Finish("build", int64(res.Annotated))
		diag.IncOp("hierarchy", "finish", "success")
	}
	// 标识字段不可用的条目原样透传；留痕但不算错误
	if res.Skipped > 0 && logger != nil {
		logger.Warn("hierarchy", string(diag.Classify(contract.ErrCodeUnusable)),
			fmt.Sprintf("%d entries skipped: %v", res.Skipped, contract.ErrCodeUnusable), string(id))
	}

	out, err := encodeCatalog(entries)
	if err != nil {
		fr.Errors = append(fr.Errors, fmt.Sprintf("error: %v", err))
		if logger != nil {
			logger.ErrorWith("hierarchy", string(diag.CodeUnknown), "encode failed", nil, string(id))
		}
		return fr
	}

	wtimer := (*diag.Timer)(nil)
	if logger != nil {
		wtimer = logger.StartWith("writer", "write", string(id))
	}
	if err := comp.Writer.Write(ctx, outputID(id, match, outSuffix), bytes.NewReader(out)); err != nil {
		fr.Errors = append(fr.Errors, fmt.Sprintf("error: write: %v", err))
		if logger != nil {
			code := diag.Classify(err)
			logger.ErrorWith("writer", string(code), "write failed", nil, string(id))
			diag.IncOp("writer", "error", "error")
			diag.IncError("writer", string(code))
		}
		return fr
	}
	if wtimer != nil {
		wtimer.Finish("write", int64(len(out)))
		diag.IncOp("writer", "finish", "success")
	}
	return fr
}

// decodeCatalog: 根必须是记录序列；元素原样保留（对象才参与层级计算）。
func decodeCatalog(data []byte) ([]*contract.Entry, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("root not a sequence: %w", contract.ErrFileStructure)
	}
	entries := make([]*contract.Entry, 0, len(raws))
	for _, r := range raws {
		entries = append(entries, contract.ParseEntry(r))
	}
	return entries, nil
}

// encodeCatalog 以 2 空格缩进序列化（与上游目录工件一致），末尾换行。
func encodeCatalog(entries []*contract.Entry) ([]byte, error) {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// outputID: 同名换后缀（Sch1.cleaned.json → Sch1.bfrange.json）。
func outputID(id contract.FileID, match, repl string) contract.ArtifactID {
	s := string(id)
	if strings.HasSuffix(s, match) {
		s = s[:len(s)-len(match)] + repl
	}
	return contract.ArtifactID(s)
}

func sanity(comp Components, set Settings) error {
	if comp.Reader == nil || comp.Writer == nil || comp.Dialect == nil {
		return errors.New("missing component")
	}
	if len(set.Inputs) == 0 {
		return errors.New("no inputs")
	}
	return nil
}
