// Package static 内置的数仓结构定义（静态管线的数据源）
package static

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"star-erd/internal/schema"
)

//go:embed netflix_dw.yaml
var embedded []byte

// Document 静态定义文件结构
type Document struct {
	Dimensions []TableSpec `yaml:"dimensions" validate:"dive"`
	Facts      []TableSpec `yaml:"facts" validate:"dive"`
}

// TableSpec 表定义
type TableSpec struct {
	Name    string       `yaml:"name" validate:"required"`
	Columns []ColumnSpec `yaml:"columns" validate:"required,min=1,dive"`
}

// ColumnSpec 列定义
type ColumnSpec struct {
	Name     string `yaml:"name" validate:"required"`
	Type     string `yaml:"type" validate:"required"`
	Key      string `yaml:"key"`
	Ref      string `yaml:"ref"`
	Nullable *bool  `yaml:"nullable"`
}

var validate = validator.New()

// Load 加载内置定义
func Load() (*schema.Snapshot, error) {
	return Parse(embedded)
}

// LoadFile 从外部 YAML 文件加载定义；path 为空时使用内置定义
func LoadFile(path string) (*schema.Snapshot, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}

// Parse 解析并校验定义，维度表在前、事实表在后，保持声明顺序
func Parse(data []byte) (*schema.Snapshot, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	if err := validate.Struct(&doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, &schema.ConfigurationError{
				Table:  fe.Namespace(),
				Reason: fmt.Sprintf("failed %q validation", fe.Tag()),
			}
		}
		return nil, fmt.Errorf("validate schema definition: %w", err)
	}

	for _, t := range doc.Dimensions {
		if schema.KindOf(t.Name) != schema.KindDimension {
			return nil, &schema.ConfigurationError{Table: t.Name, Reason: "dimension tables must be prefixed dim_"}
		}
	}
	for _, t := range doc.Facts {
		if schema.KindOf(t.Name) != schema.KindFact {
			return nil, &schema.ConfigurationError{Table: t.Name, Reason: "fact tables must be prefixed fact_"}
		}
	}

	defs := make([]schema.TableDef, 0, len(doc.Dimensions)+len(doc.Facts))
	for _, t := range append(append([]TableSpec{}, doc.Dimensions...), doc.Facts...) {
		def := schema.TableDef{Name: t.Name}
		for _, c := range t.Columns {
			def.Columns = append(def.Columns, schema.ColumnDef{
				Name:     c.Name,
				Type:     c.Type,
				Key:      c.Key,
				Ref:      c.Ref,
				Nullable: c.Nullable,
			})
		}
		defs = append(defs, def)
	}
	return schema.FromDefinitions(defs)
}
