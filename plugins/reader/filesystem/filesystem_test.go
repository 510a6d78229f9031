package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ddchier/pkg/contract"
)

func mkTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(f), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func collect(t *testing.T, r *FileSystem, roots ...string) []string {
	t.Helper()
	var ids []string
	err := r.Iterate(context.Background(), roots, func(id contract.FileID, rc io.ReadCloser) error {
		defer rc.Close()
		ids = append(ids, string(id))
		return nil
	})
	if err != nil {
		t.Fatalf("iterate: %v", err)
	}
	return ids
}

// TestIterateOrder 目录字典序递归；排除目录按小写基名匹配
func TestIterateOrder(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, "b.txt", "a.txt", "sub/c.txt", "Node_Modules/skip.txt")
	r := New(&Options{ExcludeDirNames: []string{"node_modules"}})
	got := collect(t, r, dir)
	want := []string{
		string(contract.NormalizeFileID(filepath.Join(dir, "a.txt"))),
		string(contract.NormalizeFileID(filepath.Join(dir, "b.txt"))),
		string(contract.NormalizeFileID(filepath.Join(dir, "sub", "c.txt"))),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order (-want +got):\n%s", diff)
	}
}

// TestIterateSingleFile root 可以直接是文件
func TestIterateSingleFile(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, "only.json")
	got := collect(t, New(nil), filepath.Join(dir, "only.json"))
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
}

// TestIterateMissingRoot 不可读 root 上抛（运行级失败）
func TestIterateMissingRoot(t *testing.T) {
	err := New(nil).Iterate(context.Background(), []string{filepath.Join(t.TempDir(), "absent")}, func(contract.FileID, io.ReadCloser) error {
		t.Fatalf("yield must not be called")
		return nil
	})
	if err == nil {
		t.Fatalf("missing root must fail")
	}
}

// TestIterateCancel 取消立即中止
func TestIterateCancel(t *testing.T) {
	dir := t.TempDir()
	mkTree(t, dir, "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(nil).Iterate(ctx, []string{dir}, func(contract.FileID, io.ReadCloser) error { return nil })
	if err == nil {
		t.Fatalf("canceled ctx must abort")
	}
}
