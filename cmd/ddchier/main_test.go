package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	cfgpkg "ddchier/internal/config"
)

// TestWriteTemplate 生成模板；已存在的配置保持不动
func TestWriteTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := writeTemplate(dir); err != nil {
		t.Fatalf("writeTemplate: %v", err)
	}
	p := filepath.Join(dir, "config.json")
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	var cfg cfgpkg.Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		t.Fatalf("template parse: %v", err)
	}
	if err := cfgpkg.Validate(cfg); err != nil {
		t.Fatalf("template must validate: %v", err)
	}

	// 不覆盖既有配置
	if err := os.WriteFile(p, []byte(`{"inputs":["keep"]}`), 0o644); err != nil {
		t.Fatalf("overwrite setup: %v", err)
	}
	if err := writeTemplate(dir); err != nil {
		t.Fatalf("second writeTemplate: %v", err)
	}
	b, _ = os.ReadFile(p)
	if string(b) != `{"inputs":["keep"]}` {
		t.Fatalf("existing config clobbered: %s", b)
	}
}

// TestGenCorrID 8 字节十六进制
func TestGenCorrID(t *testing.T) {
	id := genCorrID()
	if len(id) != 16 {
		t.Fatalf("corr id length: %q", id)
	}
}
