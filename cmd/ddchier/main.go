package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	cfgpkg "ddchier/internal/config"
	"ddchier/internal/diag"
	"ddchier/internal/pagecheck"
	"ddchier/internal/pipeline"
)

var pipelineRun = pipeline.Run

// 简化的 CLI：默认动作为批处理层级重建。
// 位置参数为 roots（文件/目录）。
// 全局旗标（最小集）：--config, --dialect, --out, --concurrency, --report
// 辅助动作：--init-config（生成模板）、--check-pages（页检查点完整性扫描）。
func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()
	corrID := genCorrID()
	// 占位默认级别；解析/合并配置后以最终 level 重建 logger
	logger := diag.NewLogger(corrID, "info")

	var (
		flagConfig      string
		flagDialect     string
		flagOut         string
		flagConcurrency int
		flagReport      string
		flagInitDir     string

		flagCheckPages  string
		flagPagesStart  int
		flagPagesEnd    int
		flagPagesPrefix string
		flagPagesWidth  int
		flagPagesExt    string
	)
	flag.StringVar(&flagConfig, "config", "", "配置文件路径（JSON）；缺省读取 ./config.json（若存在）")
	flag.StringVar(&flagDialect, "dialect", "", "记法方言：schedule | table（覆盖配置）")
	flag.StringVar(&flagOut, "out", "", "输出目录（覆盖配置中的 writer 选项）")
	flag.IntVar(&flagConcurrency, "concurrency", 0, "按文件并发度（覆盖配置）")
	flag.StringVar(&flagReport, "report", "", "报告工件名（覆盖配置）")
	flag.StringVar(&flagInitDir, "init-config", "", "在指定目录生成默认配置 config.json（已存在则跳过，不覆盖）")
	flag.StringVar(&flagCheckPages, "check-pages", "", "对指定目录执行页检查点完整性扫描并退出")
	flag.IntVar(&flagPagesStart, "pages-start", 17, "页扫描：起始页号")
	flag.IntVar(&flagPagesEnd, "pages-end", 1305, "页扫描：结束页号")
	flag.StringVar(&flagPagesPrefix, "pages-prefix", "2_p", "页扫描：文件名前缀")
	flag.IntVar(&flagPagesWidth, "pages-width", 5, "页扫描：页号零填充宽度")
	flag.StringVar(&flagPagesExt, "pages-ext", ".json", "页扫描：扩展名")
	flag.Parse()

	roots := flag.Args()

	// --init-config: 生成模板并退出
	if dir := strings.TrimSpace(flagInitDir); dir != "" {
		if err := writeTemplate(dir); err != nil {
			fprintf(os.Stderr, "生成默认配置失败: %v\n", err)
			logger.Error("config", string(diag.Classify(err)), "init template", &start)
			return 3
		}
		return 0
	}

	// --check-pages: 完整性扫描并退出
	if dir := strings.TrimSpace(flagCheckPages); dir != "" {
		scan := pagecheck.Scan{
			Dir:    dir,
			Start:  flagPagesStart,
			End:    flagPagesEnd,
			Prefix: flagPagesPrefix,
			Width:  flagPagesWidth,
			Ext:    flagPagesExt,
		}
		res, err := pagecheck.Run(scan)
		if err != nil {
			fprintf(os.Stderr, "页扫描失败: %v\n", err)
			logger.Error("pagecheck", string(diag.Classify(err)), "scan failed", &start)
			return 3
		}
		fmt.Print(res.Render(scan))
		return 0
	}

	// 默认读取工作目录下 config.json（若存在）
	if flagConfig == "" {
		if _, err := os.Stat("config.json"); err == nil {
			flagConfig = "config.json"
		}
	}

	cfg := cfgpkg.Defaults()
	if flagConfig != "" {
		base, err := cfgpkg.LoadJSON(flagConfig, nil)
		if err != nil {
			fprintf(os.Stderr, "配置解析失败: %v\n", err)
			logger.Error("config", string(diag.Classify(err)), "load failed", &start)
			return 2
		}
		cfg = cfgpkg.Merge(cfg, base)
	}

	// ENV 覆盖（最小集合）
	cfg = cfgpkg.Merge(cfg, cfgpkg.EnvOverlay(os.Environ()))

	// CLI 覆盖
	var overCLI cfgpkg.Config
	if flagDialect != "" {
		overCLI.Dialect = flagDialect
	}
	if flagConcurrency > 0 {
		overCLI.Concurrency = flagConcurrency
	}
	if flagReport != "" {
		overCLI.Report = flagReport
	}
	if flagOut != "" {
		overCLI.Options.Writer = json.RawMessage(fmt.Sprintf(`{"output_dir":%q}`, flagOut))
	}
	if len(roots) > 0 {
		overCLI.Inputs = roots
	}
	cfg = cfgpkg.Merge(cfg, overCLI)

	// 校验 & 装配
	if err := cfgpkg.Validate(cfg); err != nil {
		fprintf(os.Stderr, "配置校验失败: %v\n", err)
		logger.Error("config", string(diag.Classify(err)), "validate failed", &start)
		return 2
	}

	// 使用最终配置中的日志级别重建 logger
	if lv := strings.TrimSpace(cfg.Logging.Level); lv != "" {
		logger = diag.NewLogger(corrID, lv)
	}

	comp, set, err := cfgpkg.Assemble(cfg)
	if err != nil {
		fprintf(os.Stderr, "装配失败: %v\n", err)
		logger.Error("config", string(diag.Classify(err)), "assemble failed", &start)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timer := logger.Start("pipeline", "run")
	rep, err := pipelineRun(ctx, comp, set, logger)
	if err != nil {
		fprintf(os.Stderr, "运行失败: %v\n", err)
		logger.Error("pipeline", string(diag.Classify(err)), "first error", &start)
		return 3
	}
	timer.Finish("run", int64(len(rep.Files)))

	// 报告同时打到 stdout（与报告工件同文）
	fmt.Print(rep.Render())
	if set.ReportName != "" {
		fprintf(os.Stdout, "Report written to %s\n", set.ReportName)
	}
	return 0
}

// writeTemplate 在 dir 下生成 config.json 模板；已存在则保持不动。
func writeTemplate(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(dir, "config.json")
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	b, err := json.MarshalIndent(cfgpkg.DefaultTemplateConfig(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o644)
}

func genCorrID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("t%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

// fprintf: 忽略写出错误的便捷输出（终端提示不可致命）。
func fprintf(w *os.File, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
