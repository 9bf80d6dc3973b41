package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind 表类型（由命名约定决定）
type Kind string

const (
	KindDimension Kind = "dimension"
	KindFact      Kind = "fact"
	KindOther     Kind = "other"
)

const (
	DimensionPrefix = "dim_"
	FactPrefix      = "fact_"
	KeySuffix       = "_key"
)

// KindOf 根据表名前缀推断表类型
func KindOf(tableName string) Kind {
	switch {
	case strings.HasPrefix(tableName, DimensionPrefix):
		return KindDimension
	case strings.HasPrefix(tableName, FactPrefix):
		return KindFact
	default:
		return KindOther
	}
}

// KeyRole 列的键角色
type KeyRole int

const (
	KeyNone KeyRole = iota
	KeyPrimary
	KeyForeign
	KeyBoth
)

// IsPrimary 是否包含主键角色
func (r KeyRole) IsPrimary() bool { return r == KeyPrimary || r == KeyBoth }

// IsForeign 是否包含外键角色
func (r KeyRole) IsForeign() bool { return r == KeyForeign || r == KeyBoth }

func (r KeyRole) String() string {
	switch r {
	case KeyPrimary:
		return "PK"
	case KeyForeign:
		return "FK"
	case KeyBoth:
		return "PK,FK"
	default:
		return ""
	}
}

// ParseKeyRole 解析静态定义里的键角色标记，如 "PK"、"FK"、"PK,FK"
func ParseKeyRole(tag string) (KeyRole, bool) {
	var pk, fk bool
	for _, part := range strings.Split(tag, ",") {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "":
		case "PK":
			pk = true
		case "FK":
			fk = true
		default:
			return KeyNone, false
		}
	}
	switch {
	case pk && fk:
		return KeyBoth, true
	case pk:
		return KeyPrimary, true
	case fk:
		return KeyForeign, true
	default:
		return KeyNone, true
	}
}

// Reference 外键引用目标
type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

func (r Reference) String() string {
	return r.Table + "." + r.Column
}

// Column 列信息
type Column struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Nullable bool       `json:"nullable"`
	Role     KeyRole    `json:"role"`
	Ref      *Reference `json:"ref,omitempty"` // 仅当 Role 含 FK 时非空
}

// Table 表信息，Columns 保持序号/声明顺序
type Table struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Columns []Column `json:"columns"`
}

// ColumnNames 返回全部列名
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn 判断是否存在同名列
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// FKEdge 外键关系（每次绘图时重新推导，不持久化）
type FKEdge struct {
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"`
	Explicit   bool   `json:"explicit"`
}

func (e FKEdge) String() string {
	return fmt.Sprintf("%s.%s->%s.%s", e.FromTable, e.FromColumn, e.ToTable, e.ToColumn)
}

// Snapshot 一次运行的完整表集合，构建后只读
type Snapshot struct {
	tables map[string]*Table
	order  []string
}

func newSnapshot() *Snapshot {
	return &Snapshot{tables: make(map[string]*Table)}
}

func (s *Snapshot) add(t *Table) error {
	if _, exists := s.tables[t.Name]; exists {
		return &ConfigurationError{Table: t.Name, Reason: "duplicate table"}
	}
	s.tables[t.Name] = t
	s.order = append(s.order, t.Name)
	return nil
}

// Len 表数量
func (s *Snapshot) Len() int { return len(s.order) }

// Table 按名称取表
func (s *Snapshot) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Ordered 按构建顺序（目录顺序或声明顺序）返回全部表
func (s *Snapshot) Ordered() []*Table {
	out := make([]*Table, len(s.order))
	for i, name := range s.order {
		out[i] = s.tables[name]
	}
	return out
}

// Sorted 按表名字典序返回全部表
func (s *Snapshot) Sorted() []*Table {
	out := s.Ordered()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// OfKind 按表名字典序返回指定类型的表
func (s *Snapshot) OfKind(kind Kind) []*Table {
	var out []*Table
	for _, t := range s.Sorted() {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Dimensions 维度表（字典序）
func (s *Snapshot) Dimensions() []*Table { return s.OfKind(KindDimension) }

// Facts 事实表（字典序）
func (s *Snapshot) Facts() []*Table { return s.OfKind(KindFact) }

// FilterTables 排除指定表，返回新的 Snapshot，原对象不变
func FilterTables(s *Snapshot, excludeTables []string) *Snapshot {
	excludeMap := make(map[string]bool)
	for _, table := range excludeTables {
		excludeMap[table] = true
	}

	filtered := newSnapshot()
	for _, name := range s.order {
		if !excludeMap[name] {
			filtered.tables[name] = s.tables[name]
			filtered.order = append(filtered.order, name)
		}
	}
	return filtered
}
