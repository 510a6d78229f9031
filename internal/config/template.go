package config

import "encoding/json"

// DefaultTemplateConfig 返回一个可直接运行的默认配置模板：
// - schedule 方言、文件系统 Reader/Writer；
// - 输出到 ./out 目录；
// - 选项给出安全中性默认值。
func DefaultTemplateConfig() Config {
	d := Defaults()
	return Config{
		Inputs:       []string{"."},
		Concurrency:  d.Concurrency,
		Dialect:      d.Dialect,
		MatchSuffix:  d.MatchSuffix,
		OutputSuffix: d.OutputSuffix,
		Report:       d.Report,
		Logging:      Logging{Level: "info"},
		Components:   d.Components,
		Options: Options{
			Reader:  json.RawMessage(`{"buf_size":0,"exclude_dir_names":[".git","node_modules","out"]}`),
			Writer:  json.RawMessage(`{"output_dir":"out","atomic":true,"flat":true}`),
			Dialect: json.RawMessage(`{}`),
		},
	}
}
