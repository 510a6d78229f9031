package contract

import (
	"bytes"
	"encoding/json"
)

// FileID: 逻辑文件ID（通常为路径，需规范化，跨平台一致）。
type FileID string

// ArtifactID: 与 FileID 等价的持久化工件标识（语义别名）。
type ArtifactID = FileID

// Code: 不可变的分类号字符串（如 "600.1.2"、"-092"、"004-006"）。
// 数值归一（去前导零）仅用于比较；节点标识始终保留原始宽度。
type Code string

// Kind: 分类号种类。入库时一次性结构判定，下游只消费标签，
// 不再做任何临时分隔符检查。
type Kind int

const (
	// Point: 指称单一分类节点。
	Point Kind = iota
	// Range: 指称一段连续的兄弟 Point 区间（携带左右两个 Point 形边界）。
	Range
)

func (k Kind) String() string {
	if k == Range {
		return "range"
	}
	return "point"
}

// Classified: 带种类标签的分类号。
// Range 且 Valid 时 Left/Right 为预拆边界；Valid=false 表示分隔符未能
// 产出恰好两段，该区间无覆盖、无父节点（非致命退化）。
type Classified struct {
	Code  Code
	Kind  Kind
	Left  Code
	Right Code
	Valid bool
}

// Hierarchy: 写回条目的层级字段。Broader 为 nil 表示根。
// Narrower 永不为 nil：无子节点时序列化为空数组而非 null。
type Hierarchy struct {
	Broader  *Code  `json:"broader"`
	Narrower []Code `json:"narrower"`
}

// Entry: 目录中的一条原始记录。对象字段值以原样 JSON 保留
// （值字节不变，键序由序列化器固定为字典序，保证输出确定性）；
// 非对象元素整体透传、不参与层级计算。
// 核心对条目的全部改写仅限追加 bfCode 与 hierarchy 两个字段。
type Entry struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// ParseEntry 解析序列中的一个元素。无法按对象解析时按原样字节保留。
func ParseEntry(raw json.RawMessage) *Entry {
	e := &Entry{raw: raw}
	t := bytes.TrimLeft(raw, " \t\r\n")
	if len(t) == 0 || t[0] != '{' {
		return e
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return e
	}
	e.fields = m
	return e
}

// Object 报告该元素是否为可写回的对象记录。
func (e *Entry) Object() bool { return e.fields != nil }

// StringField 读取字符串字段；字段缺失或非字符串时 ok=false。
func (e *Entry) StringField(name string) (string, bool) {
	if e.fields == nil {
		return "", false
	}
	raw, ok := e.fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// SetField 追加/替换对象字段（值经 JSON 序列化）。非对象元素不可写。
func (e *Entry) SetField(name string, v any) error {
	if e.fields == nil {
		return ErrInvariantViolation
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.fields[name] = json.RawMessage(b)
	return nil
}

// Field 返回字段的原样 JSON（存在性判定用）。
func (e *Entry) Field(name string) (json.RawMessage, bool) {
	if e.fields == nil {
		return nil, false
	}
	raw, ok := e.fields[name]
	return raw, ok
}

// MarshalJSON: 对象按字段表序列化（键字典序，确定性）；
// 非对象元素原样透传。
func (e *Entry) MarshalJSON() ([]byte, error) {
	if e.fields != nil {
		return json.Marshal(e.fields)
	}
	return e.raw, nil
}
