package config

import (
	"errors"
	"fmt"
	"strings"

	"ddchier/internal/pipeline"
	"ddchier/pkg/registry"
)

// Validate 对最小必要边界做静态校验。
func Validate(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("config: inputs empty")
	}
	for _, r := range cfg.Inputs {
		if strings.TrimSpace(r) == "" {
			return errors.New("config: input path cannot be empty")
		}
	}
	if cfg.Concurrency < 1 {
		return errors.New("config: concurrency must be >= 1")
	}
	if cfg.MatchSuffix == "" || cfg.OutputSuffix == "" {
		return errors.New("config: match_suffix/output_suffix must be set")
	}
	if cfg.MatchSuffix == cfg.OutputSuffix {
		// 输出会再次命中匹配后缀，重复运行将自我吞噬
		return errors.New("config: match_suffix and output_suffix must differ")
	}
	d := Defaults()
	if name := effName(cfg.Dialect, d.Dialect); registry.Dialect[name] == nil {
		return fmt.Errorf("config: dialect %q not registered", name)
	}
	if name := effName(cfg.Components.Reader, d.Components.Reader); registry.Reader[name] == nil {
		return fmt.Errorf("config: reader %q not registered", name)
	}
	if name := effName(cfg.Components.Writer, d.Components.Writer); registry.Writer[name] == nil {
		return fmt.Errorf("config: writer %q not registered", name)
	}
	return nil
}

// Assemble 构造 Components 与 Settings。
// 严格 Options 解析在 registry（工厂）层进行；此处只传 raw JSON。
func Assemble(cfg Config) (pipeline.Components, pipeline.Settings, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}

	d := Defaults()
	dn := effName(cfg.Dialect, d.Dialect)
	rn := effName(cfg.Components.Reader, d.Components.Reader)
	wn := effName(cfg.Components.Writer, d.Components.Writer)

	dia, err := registry.Dialect[dn](cfg.Options.Dialect)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	r, err := registry.Reader[rn](cfg.Options.Reader)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	w, err := registry.Writer[wn](cfg.Options.Writer)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}

	comp := pipeline.Components{Reader: r, Writer: w, Dialect: dia}
	set := pipeline.Settings{
		Inputs:       cloneStrings(cfg.Inputs),
		Concurrency:  cfg.Concurrency,
		MatchSuffix:  cfg.MatchSuffix,
		OutputSuffix: cfg.OutputSuffix,
		ReportName:   cfg.Report,
	}
	return comp, set, nil
}

func effName(got, def string) string {
	if got == "" {
		return def
	}
	return got
}
