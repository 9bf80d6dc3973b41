package schema

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigurationError 静态定义不合法（外键引用格式错误、引用目标不存在等）
type ConfigurationError struct {
	Table     string
	Column    string
	Reference string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	loc := e.Table
	if e.Column != "" {
		loc = e.Table + "." + e.Column
	}
	if e.Reference != "" {
		return fmt.Sprintf("configuration error at %s: %s (%q)", loc, e.Reason, e.Reference)
	}
	return fmt.Sprintf("configuration error at %s: %s", loc, e.Reason)
}

// CatalogRow 目录查询返回的一行列元数据
type CatalogRow struct {
	Table    string
	Column   string
	DataType string
	Nullable bool
	Ordinal  int64
}

// FromCatalog 将扁平的列元数据按表分组，表内按序号排序
func FromCatalog(rows []CatalogRow) (*Snapshot, error) {
	grouped := make(map[string][]CatalogRow)
	var names []string
	for _, row := range rows {
		if _, ok := grouped[row.Table]; !ok {
			names = append(names, row.Table)
		}
		grouped[row.Table] = append(grouped[row.Table], row)
	}

	s := newSnapshot()
	for _, name := range names {
		cols := grouped[name]
		sort.SliceStable(cols, func(i, j int) bool { return cols[i].Ordinal < cols[j].Ordinal })

		t := &Table{Name: name, Kind: KindOf(name)}
		for _, c := range cols {
			t.Columns = append(t.Columns, Column{
				Name:     c.Column,
				Type:     c.DataType,
				Nullable: c.Nullable,
			})
		}
		if err := s.add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ColumnDef 静态列定义
type ColumnDef struct {
	Name     string
	Type     string
	Key      string // "", "PK", "FK", "PK,FK"
	Ref      string // "table.column"，仅 FK 使用
	Nullable *bool
}

// TableDef 静态表定义
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// ParseReference 按第一个 "." 拆分 "table.column"
func ParseReference(table, column, ref string) (Reference, error) {
	idx := strings.Index(ref, ".")
	if idx < 0 {
		return Reference{}, &ConfigurationError{Table: table, Column: column, Reference: ref, Reason: "foreign key reference must be table.column"}
	}
	target := Reference{Table: ref[:idx], Column: ref[idx+1:]}
	if target.Table == "" || target.Column == "" {
		return Reference{}, &ConfigurationError{Table: table, Column: column, Reference: ref, Reason: "foreign key reference has an empty part"}
	}
	return target, nil
}

// FromDefinitions 由静态定义构建 Snapshot，并校验外键引用
func FromDefinitions(defs []TableDef) (*Snapshot, error) {
	s := newSnapshot()
	for _, def := range defs {
		t := &Table{Name: def.Name, Kind: KindOf(def.Name)}
		for _, cd := range def.Columns {
			col, err := buildColumn(def.Name, cd)
			if err != nil {
				return nil, err
			}
			t.Columns = append(t.Columns, col)
		}
		if err := s.add(t); err != nil {
			return nil, err
		}
	}

	// 引用目标必须存在于同一份定义中
	for _, t := range s.Ordered() {
		for _, c := range t.Columns {
			if c.Ref == nil {
				continue
			}
			target, ok := s.Table(c.Ref.Table)
			if !ok {
				return nil, &ConfigurationError{Table: t.Name, Column: c.Name, Reference: c.Ref.String(), Reason: "referenced table does not exist"}
			}
			if !target.HasColumn(c.Ref.Column) {
				return nil, &ConfigurationError{Table: t.Name, Column: c.Name, Reference: c.Ref.String(), Reason: "referenced column does not exist"}
			}
		}
	}
	return s, nil
}

func buildColumn(table string, cd ColumnDef) (Column, error) {
	role, ok := ParseKeyRole(cd.Key)
	if !ok {
		return Column{}, &ConfigurationError{Table: table, Column: cd.Name, Reason: fmt.Sprintf("unknown key role %q", cd.Key)}
	}

	col := Column{
		Name:     cd.Name,
		Type:     cd.Type,
		Nullable: !role.IsPrimary(),
		Role:     role,
	}
	if cd.Nullable != nil {
		col.Nullable = *cd.Nullable
	}

	switch {
	case role.IsForeign() && cd.Ref == "":
		return Column{}, &ConfigurationError{Table: table, Column: cd.Name, Reason: "foreign key without reference"}
	case !role.IsForeign() && cd.Ref != "":
		return Column{}, &ConfigurationError{Table: table, Column: cd.Name, Reference: cd.Ref, Reason: "reference on a column that is not a foreign key"}
	case role.IsForeign():
		ref, err := ParseReference(table, cd.Name, cd.Ref)
		if err != nil {
			return Column{}, err
		}
		col.Ref = &ref
	}
	return col, nil
}
