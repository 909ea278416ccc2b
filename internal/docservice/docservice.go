// Package docservice defines the document-service boundary the timesheet
// components talk to: generic list/get/delete, file upload, named actions and
// the current actor identity.
package docservice

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DoctypeFile      = "File"
	DoctypeProject   = "Project"
	DoctypeTask      = "Task"
	DoctypeApproval  = "Timesheet Approval"
	DoctypeToDo      = "ToDo"
	DoctypeTimesheet = "Custom Timesheet"
)

// Record is a document as a field/value map.
type Record map[string]any

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	}
	return 0
}

func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	}
	return int64(r.Float(key))
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return r.Int(key) != 0
}

// Records returns a child table stored under key.
func (r Record) Records(key string) []Record {
	switch v := r[key].(type) {
	case []Record:
		return v
	case []map[string]any:
		out := make([]Record, len(v))
		for i, m := range v {
			out[i] = Record(m)
		}
		return out
	case []any:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Record(m))
			case Record:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Decode converts the record into a typed value through its JSON form.
func (r Record) Decode(dst any) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

type Operator string

const (
	OpEquals Operator = "="
	OpIn     Operator = "in"
	OpLike   Operator = "like"
)

func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpIn, OpLike:
		return true
	}
	return false
}

type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Operator: OpEquals, Value: value}
}

func In(field string, values []string) Filter {
	return Filter{Field: field, Operator: OpIn, Value: values}
}

func Like(field, pattern string) Filter {
	return Filter{Field: field, Operator: OpLike, Value: pattern}
}

// Strings returns the filter value as a list, for "in" filters.
func (f Filter) Strings() []string {
	switch v := f.Value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

type ListQuery struct {
	Filters []Filter `json:"filters,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	OrderBy string   `json:"order_by,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

type Upload struct {
	Doctype   string
	Docname   string
	IsPrivate bool
	FileName  string
	Content   []byte
}

type UploadedFile struct {
	Name     string `json:"name"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	FileSize int64  `json:"file_size"`
}

// Client is the document service as seen by the timesheet components.
type Client interface {
	List(ctx context.Context, doctype string, query ListQuery) ([]Record, error)
	Get(ctx context.Context, doctype, name string) (Record, error)
	Delete(ctx context.Context, doctype, name string) error
	Upload(ctx context.Context, upload Upload) (*UploadedFile, error)
	Invoke(ctx context.Context, action string, args map[string]any) (json.RawMessage, error)
	CurrentActor(ctx context.Context) (string, error)
}

// Strings returns a list value, accepting a JSON array or a comma-separated string.
func (r Record) Strings(key string) []string {
	return Filter{Value: r[key]}.Strings()
}
