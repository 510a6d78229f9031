package registry

import (
	"bytes"
	"encoding/json"

	"ddchier/pkg/contract"
	dsch "ddchier/plugins/dialect/schedule"
	dtbl "ddchier/plugins/dialect/table"
	rfs "ddchier/plugins/reader/filesystem"
	wfs "ddchier/plugins/writer/filesystem"
)

// strictUnmarshal: 使用 DisallowUnknownFields 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// NewDialect 工厂签名：接收原样 JSON Options。
type NewDialect func(raw json.RawMessage) (contract.Dialect, error)

// NewReader 工厂签名：接收原样 JSON Options。
type NewReader func(raw json.RawMessage) (contract.Reader, error)

// NewWriter 工厂签名：接收原样 JSON Options。
type NewWriter func(raw json.RawMessage) (contract.Writer, error)

// Dialect 工厂注册表（显式、零反射）。
var Dialect = map[string]NewDialect{
	// schedule: 分段数字记法（600.1.2；区间 004-006）
	"schedule": func(raw json.RawMessage) (contract.Dialect, error) { return dsch.New(raw) },
	// table: 前缀数字记法（-092；区间 -001--003）
	"table": func(raw json.RawMessage) (contract.Dialect, error) { return dtbl.New(raw) },
}

// Reader 工厂注册表。
var Reader = map[string]NewReader{
	// fs: 文件系统 Reader
	"fs": func(raw json.RawMessage) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 文件系统 Writer（覆盖写/原子替换可配置）
	"fs": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts)
	},
}
