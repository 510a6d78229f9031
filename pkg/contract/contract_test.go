package contract

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestParseEntry 对象/非对象/畸形文本的判定
func TestParseEntry(t *testing.T) {
	e := ParseEntry(json.RawMessage(`{"a":1}`))
	if !e.Object() {
		t.Fatalf("object expected")
	}
	for _, raw := range []string{`"text"`, `42`, `[1,2]`, `null`} {
		if ParseEntry(json.RawMessage(raw)).Object() {
			t.Fatalf("%s must not be an object", raw)
		}
	}
}

// TestEntryFields 字符串读取与字段写回
func TestEntryFields(t *testing.T) {
	e := ParseEntry(json.RawMessage(`{"id":"Volume1-600","n":7}`))
	if s, ok := e.StringField("id"); !ok || s != "Volume1-600" {
		t.Fatalf("StringField: %q %v", s, ok)
	}
	if _, ok := e.StringField("n"); ok {
		t.Fatalf("non-string field must not read as string")
	}
	if _, ok := e.StringField("absent"); ok {
		t.Fatalf("absent field must not read")
	}
	if err := e.SetField("bfCode", "600"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if raw, ok := e.Field("bfCode"); !ok || string(raw) != `"600"` {
		t.Fatalf("Field: %s %v", raw, ok)
	}

	ne := ParseEntry(json.RawMessage(`"loose"`))
	if err := ne.SetField("x", 1); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("non-object SetField: %v", err)
	}
}

// TestEntryMarshal 键字典序、值字节原样、非对象透传
func TestEntryMarshal(t *testing.T) {
	e := ParseEntry(json.RawMessage(`{"b":1.50,"a":"x"}`))
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// 值字节不经数值重解析（1.50 不变 1.5）
	if string(b) != `{"a":"x","b":1.50}` {
		t.Fatalf("marshal: %s", b)
	}
	ne := ParseEntry(json.RawMessage(`[1,2.50]`))
	b, err = json.Marshal(ne)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[1,2.50]` {
		t.Fatalf("passthrough: %s", b)
	}
}

// TestHierarchyJSON broader null 表示根；narrower 空数组非 null
func TestHierarchyJSON(t *testing.T) {
	h := Hierarchy{Narrower: []Code{}}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"broader":null,"narrower":[]}` {
		t.Fatalf("json: %s", b)
	}
}

// TestNormalizeFileID 反斜杠统一与路径清理
func TestNormalizeFileID(t *testing.T) {
	cases := []struct{ in, want string }{
		{`a\b\c.json`, "a/b/c.json"},
		{"./a/../b.json", "b.json"},
		{"a//b.json", "a/b.json"},
	}
	for _, tc := range cases {
		if got := NormalizeFileID(tc.in); string(got) != tc.want {
			t.Fatalf("NormalizeFileID(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Point.String() != "point" || Range.String() != "range" {
		t.Fatalf("kind strings: %s %s", Point, Range)
	}
}
