package nocodb

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Table is a table as returned by the meta API.
type Table struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	TableName   string   `json:"table_name,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Columns     []Column `json:"columns,omitempty"`
}

// Column is a column as returned by the meta API.
type Column struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ColumnName string `json:"column_name,omitempty"`
	UIDT       string `json:"uidt"`
	PK         Flag   `json:"pk"`
	AI         Flag   `json:"ai"`
	RQD        Flag   `json:"rqd"`
	CDF        any    `json:"cdf"`
	Meta       Meta   `json:"meta,omitempty"`
}

// Flag is a boolean that NocoDB may encode as true/false, 0/1 or a string.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	switch s {
	case "", "null", "0", "false":
		*f = false
	default:
		b, err := strconv.ParseBool(s)
		*f = Flag(err != nil || b)
	}
	return nil
}

// Meta is a column's free-form metadata. NocoDB stores it either as an
// object or as a JSON-encoded string; both decode to a map.
type Meta map[string]any

func (m *Meta) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	if len(data) == 0 || string(data) == "null" {
		*m = nil
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		// Unparseable metadata carries nothing we use.
		*m = nil
		return nil
	}
	*m = out
	return nil
}

// String returns the metadata value at key as a string.
func (m Meta) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Bool reports whether the metadata value at key is truthy.
func (m Meta) Bool(key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case json.Number:
		return v.String() != "0"
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Clone returns a shallow copy.
func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Record is one row as returned by the v3 data API: {"id": ..., "fields": {...}}.
type Record = map[string]any

// Query holds the optional filters of [Client.RetrieveRecords].
type Query struct {
	Fields string // comma-separated field names
	Where  string // NocoDB where expression, e.g. "(Status,eq,active)"
	Sort   string // field name, prefixed with "-" for descending
	Limit  int
	Offset int
}

// RecordUpdate is one entry of an update request.
type RecordUpdate struct {
	ID   any            `json:"id"`
	Data map[string]any `json:"data"`
}

// Index is an index derived from column metadata.
type Index struct {
	IndexName       string `json:"index_name"`
	ColumnName      string `json:"column_name"`
	IndexType       string `json:"index_type"`
	Unique          bool   `json:"unique"`
	SystemGenerated bool   `json:"system_generated"`
}

// IndexSpec describes an index to create.
type IndexSpec struct {
	Name    string
	Columns []string
	Type    string // default BTREE
	Unique  bool
}

// IndexResult reports what [Client.CreateIndex] or [Client.DropIndex] did
// per column.
type IndexResult struct {
	IndexName  string   `json:"index_name"`
	TableName  string   `json:"table_name"`
	Columns    []string `json:"columns,omitempty"`
	Unique     bool     `json:"unique,omitempty"`
	Type       string   `json:"type,omitempty"`
	Operations []string `json:"operations"`
}

// Succeeded counts operations that changed a column.
func (r IndexResult) Succeeded() int {
	n := 0
	for _, op := range r.Operations {
		if !strings.HasPrefix(op, "Failed") && !strings.HasSuffix(op, "not found") {
			n++
		}
	}
	return n
}

// ColumnDescription is one row of [Client.DescribeTable].
type ColumnDescription struct {
	ColumnName    string `json:"column_name"`
	DataType      string `json:"data_type"`
	Nullable      bool   `json:"nullable"`
	PrimaryKey    bool   `json:"primary_key"`
	AutoIncrement bool   `json:"auto_increment"`
	DefaultValue  any    `json:"default_value"`
	Comment       string `json:"comment"`
}

// TableDescription is the SQL DESCRIBE-like view of a table.
type TableDescription struct {
	TableName   string              `json:"table_name"`
	TableTitle  string              `json:"table_title"`
	Description string              `json:"description"`
	ColumnCount int                 `json:"column_count"`
	Columns     []ColumnDescription `json:"columns"`
}

// TableSummary is one entry of [DatabaseInfo.Tables].
type TableSummary struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Type string `json:"type"`
}

// DatabaseInfo summarizes a base.
type DatabaseInfo struct {
	BaseID     string         `json:"base_id"`
	TableCount int            `json:"table_count"`
	TableTypes map[string]int `json:"table_types"`
	Tables     []TableSummary `json:"tables"`
}
