package hierarchy

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ddchier/pkg/contract"
	"ddchier/plugins/dialect/schedule"
	"ddchier/plugins/dialect/table"
)

func scheduleEntries(t *testing.T, codes ...string) []*contract.Entry {
	t.Helper()
	ents := make([]*contract.Entry, 0, len(codes))
	for i, c := range codes {
		raw := fmt.Sprintf(`{"id":"Volume1-%s","prefLabel":"node %d"}`, c, i)
		ents = append(ents, contract.ParseEntry(json.RawMessage(raw)))
	}
	return ents
}

func tableEntries(t *testing.T, codes ...string) []*contract.Entry {
	t.Helper()
	ents := make([]*contract.Entry, 0, len(codes))
	for _, c := range codes {
		raw := fmt.Sprintf(`{"notation":%q}`, c)
		ents = append(ents, contract.ParseEntry(json.RawMessage(raw)))
	}
	return ents
}

func hierOf(t *testing.T, e *contract.Entry) contract.Hierarchy {
	t.Helper()
	raw, ok := e.Field("hierarchy")
	if !ok {
		t.Fatalf("entry missing hierarchy field")
	}
	var h contract.Hierarchy
	if err := json.Unmarshal(raw, &h); err != nil {
		t.Fatalf("hierarchy unmarshal: %v", err)
	}
	return h
}

func broaderOf(t *testing.T, e *contract.Entry) string {
	t.Helper()
	h := hierOf(t, e)
	if h.Broader == nil {
		return ""
	}
	return string(*h.Broader)
}

// TestScheduleNesting 点形嵌套：恰一段之差成父子，顶级无父
func TestScheduleNesting(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "600", "600.1", "600.1.2", "601")
	res, err := Build(d, ents)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.Codes != 4 || res.Annotated != 4 || res.Skipped != 0 {
		t.Fatalf("stats: %+v", res)
	}
	if got := broaderOf(t, ents[1]); got != "600" {
		t.Fatalf("broader(600.1)=%q", got)
	}
	if got := broaderOf(t, ents[2]); got != "600.1" {
		t.Fatalf("broader(600.1.2)=%q", got)
	}
	if got := broaderOf(t, ents[3]); got != "" {
		t.Fatalf("broader(601)=%q want root", got)
	}
	want := []contract.Code{"600.1"}
	if diff := cmp.Diff(want, hierOf(t, ents[0]).Narrower); diff != "" {
		t.Fatalf("narrower(600) (-want +got):\n%s", diff)
	}
}

// TestExpandIntegerRangeIncludesOwnParent 整数区间：覆盖含边界，
// 挂载父同时出现在覆盖里（保留行为，回归钉死）
func TestExpandIntegerRangeIncludesOwnParent(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "004", "005", "006", "004-006")
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("build: %v", err)
	}
	rng := ents[3]
	if got := broaderOf(t, rng); got != "004" {
		t.Fatalf("broader(004-006)=%q", got)
	}
	wantCov := []contract.Code{"004", "005", "006"}
	if diff := cmp.Diff(wantCov, hierOf(t, rng).Narrower); diff != "" {
		t.Fatalf("narrower(004-006) (-want +got):\n%s", diff)
	}
	// 004 既是区间的父，又被区间覆盖
	wantKids := []contract.Code{"004-006"}
	if diff := cmp.Diff(wantKids, hierOf(t, ents[0]).Narrower); diff != "" {
		t.Fatalf("narrower(004) (-want +got):\n%s", diff)
	}
}

// TestStructuredRange 结构区间：共享前缀下按末段数值覆盖，缺号自然跳过
func TestStructuredRange(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "026", "026.0001", "026.0002", "026.0003", "026.0001-026.0005")
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("build: %v", err)
	}
	rng := ents[4]
	if got := broaderOf(t, rng); got != "026" {
		t.Fatalf("broader(026.0001-026.0005)=%q", got)
	}
	wantCov := []contract.Code{"026.0001", "026.0002", "026.0003"}
	if diff := cmp.Diff(wantCov, hierOf(t, rng).Narrower); diff != "" {
		t.Fatalf("range coverage (-want +got):\n%s", diff)
	}
	// 026 的子集：直接点形子节点 + 挂载的区间，字典序
	wantKids := []contract.Code{"026.0001", "026.0001-026.0005", "026.0002", "026.0003"}
	if diff := cmp.Diff(wantKids, hierOf(t, ents[0]).Narrower); diff != "" {
		t.Fatalf("narrower(026) (-want +got):\n%s", diff)
	}
}

// TestTableHierarchy 表方言：字符截断父解析与双分隔符区间
func TestTableHierarchy(t *testing.T) {
	d, _ := table.New(nil)
	ents := tableEntries(t, "-09", "-092", "-093", "-001", "-002", "-003", "-001--003")
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := broaderOf(t, ents[1]); got != "-09" {
		t.Fatalf("broader(-092)=%q", got)
	}
	wantKids := []contract.Code{"-092", "-093"}
	if diff := cmp.Diff(wantKids, hierOf(t, ents[0]).Narrower); diff != "" {
		t.Fatalf("narrower(-09) (-want +got):\n%s", diff)
	}
	rng := ents[6]
	wantCov := []contract.Code{"-001", "-002", "-003"}
	if diff := cmp.Diff(wantCov, hierOf(t, rng).Narrower); diff != "" {
		t.Fatalf("narrower(-001--003) (-want +got):\n%s", diff)
	}
	// 截断祖先 -00 不在集合中：区间与其成员均为根
	if got := broaderOf(t, rng); got != "" {
		t.Fatalf("broader(-001--003)=%q want root", got)
	}
	if got := broaderOf(t, ents[3]); got != "" {
		t.Fatalf("broader(-001)=%q want root", got)
	}
}

// TestParentInvariants 父严格短于子；无自环；区间不作 broader 目标
func TestParentInvariants(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t,
		"004", "005", "006", "004-006",
		"600", "600.1", "600.1.2", "601",
		"026", "026.0001", "026.0001-026.0005",
	)
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, e := range ents {
		code, _ := e.StringField("bfCode")
		h := hierOf(t, e)
		if h.Broader != nil {
			p := string(*h.Broader)
			if p == code {
				t.Fatalf("self parent: %s", code)
			}
			if len(p) >= len(code) {
				t.Fatalf("parent %q not shorter than %q", p, code)
			}
			if cl := d.Classify(contract.Code(p)); cl.Kind != contract.Point {
				t.Fatalf("broader %q is not a point", p)
			}
		}
		for _, k := range h.Narrower {
			if string(k) == code {
				t.Fatalf("code %q lists itself as narrower", code)
			}
		}
	}
}

// TestRangeAttachmentEqualsBroader 每个区间的挂载父与其 broader 一致
func TestRangeAttachmentEqualsBroader(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "004", "005", "006", "004-006", "026", "026.0001", "026.0001-026.0005")
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("build: %v", err)
	}
	byCode := make(map[string]*contract.Entry)
	for _, e := range ents {
		if c, ok := e.StringField("bfCode"); ok {
			byCode[c] = e
		}
	}
	for _, rc := range []string{"004-006", "026.0001-026.0005"} {
		b := broaderOf(t, byCode[rc])
		if b == "" {
			t.Fatalf("range %s has no broader", rc)
		}
		found := false
		for _, k := range hierOf(t, byCode[b]).Narrower {
			if string(k) == rc {
				found = true
			}
		}
		if !found {
			t.Fatalf("range %s not attached under its broader %s", rc, b)
		}
	}
}

// TestInvalidRangeDegrades 多短横区间：仍写回层级字段，但无父无覆盖
func TestInvalidRangeDegrades(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "004", "004-006-008")
	res, err := Build(d, ents)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.Ranges != 1 || res.Annotated != 2 {
		t.Fatalf("stats: %+v", res)
	}
	h := hierOf(t, ents[1])
	if h.Broader != nil || len(h.Narrower) != 0 {
		t.Fatalf("invalid range must degrade to isolated node: %+v", h)
	}
}

// TestSharedCodeIdenticalHierarchy 同号多条目写回完全相同的层级
func TestSharedCodeIdenticalHierarchy(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "600", "600.1", "600.1")
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("build: %v", err)
	}
	a, _ := ents[1].Field("hierarchy")
	b, _ := ents[2].Field("hierarchy")
	if string(a) != string(b) {
		t.Fatalf("duplicate code entries diverged: %s vs %s", a, b)
	}
}

// TestSkippedAndPassthrough 标识缺失的对象不改写；非对象元素透传
func TestSkippedAndPassthrough(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := []*contract.Entry{
		contract.ParseEntry(json.RawMessage(`{"id":"Volume1-600"}`)),
		contract.ParseEntry(json.RawMessage(`{"prefLabel":"no identifier"}`)),
		contract.ParseEntry(json.RawMessage(`"loose note"`)),
	}
	res, err := Build(d, ents)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.Entries != 3 || res.Codes != 1 || res.Skipped != 1 || res.Annotated != 1 {
		t.Fatalf("stats: %+v", res)
	}
	if _, ok := ents[1].Field("bfCode"); ok {
		t.Fatalf("skipped entry must not be rewritten")
	}
	b, err := json.Marshal(ents[2])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"loose note"` {
		t.Fatalf("non-object passthrough broken: %s", b)
	}
}

// TestIdempotent 对已写回层级的输入重跑，序列化字节不变
func TestIdempotent(t *testing.T) {
	d, _ := schedule.New(nil)
	ents := scheduleEntries(t, "004", "005", "006", "004-006", "600", "600.1")
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("first build: %v", err)
	}
	first, err := json.Marshal(ents)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Build(d, ents); err != nil {
		t.Fatalf("second build: %v", err)
	}
	second, err := json.Marshal(ents)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("rebuild not idempotent")
	}
}
