package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"star-erd/internal/adapter"
	"star-erd/internal/analyzer"
	"star-erd/internal/config"
	"star-erd/internal/diagram"
	"star-erd/internal/pipeline"
	"star-erd/internal/renderer"
	"star-erd/internal/schema"
)

var (
	excludeTables []string
	writeJSON     bool
	writeDict     bool
)

var scanBindings = map[string]string{
	"catalog.type":             "catalog",
	"catalog.project":          "project",
	"catalog.dataset":          "dataset",
	"catalog.dsn":              "dsn",
	"catalog.credentials_file": "credentials",
	"catalog.location":         "location",
	"catalog.timeout":          "timeout",
	"output.dir":               "output",
	"output.format":            "format",
	"output.dot_binary":        "dot",
	"diagram.dimension_cap":    "dimension-cap",
	"diagram.fact_cap":         "fact-cap",
}

func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "读取在线目录并生成全部 ER 图",
		Long:  "查询数据集的 INFORMATION_SCHEMA.COLUMNS，为每张表生成卡片、为每张事实表生成星型图，并生成全量 ERD",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}

	f := scanCmd.Flags()
	f.String("catalog", "bigquery", "目录类型 (bigquery/mysql/postgres/sqlserver)")
	f.String("project", "YOUR_PROJECT", "GCP 项目 ID")
	f.String("dataset", "netflix_dw", "数据集 / schema")
	f.String("dsn", "", "连接字符串（mysql/postgres/sqlserver 必需）")
	f.String("credentials", "", "服务账号 JSON 文件（默认使用应用默认凭据）")
	f.String("location", "", "BigQuery 查询位置")
	f.Duration("timeout", 0, "目录查询超时（默认 60s）")
	f.String("output", "erd_generated", "输出目录")
	f.String("format", "png", "输出格式 (png/svg/pdf/dot/mmd)")
	f.String("dot", "dot", "Graphviz dot 可执行文件")
	f.Int("dimension-cap", 15, "全量 ERD 中维度表最多显示的列数（0 不截断）")
	f.Int("fact-cap", 20, "全量 ERD 中事实表最多显示的列数（0 不截断）")
	f.StringSliceVar(&excludeTables, "exclude", nil, "排除的表（逗号分隔）")
	f.BoolVar(&writeJSON, "json", false, "同时输出全量 ERD 图描述 schema.json")
	f.BoolVar(&writeDict, "dict", false, "同时输出 Markdown 数据字典 dict.md")

	return scanCmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scanBindings)
	if err != nil {
		return err
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return err
	}

	// 渲染器不可用时在任何目录访问之前退出
	writer, err := newWriter(cfg.Output.Dir, cfg.Output.Format, cfg.Output.DotBinary)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("🔍 连接 %s 目录 (%s.%s)...\n", cfg.Catalog.Type, cfg.Catalog.Project, cfg.Catalog.Dataset)
	snap, err := readCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	if len(excludeTables) > 0 {
		snap = schema.FilterTables(snap, excludeTables)
	}
	fmt.Printf("✓ 发现 %d 个表（维度表 %d，事实表 %d）\n", snap.Len(), len(snap.Dimensions()), len(snap.Facts()))

	inferer := analyzer.NewRelationshipInferer(snap)
	printHints(inferer, snap)

	builder := diagram.NewBuilder(inferer, diagram.Caps{
		Dimension: cfg.Diagram.DimensionCap,
		Fact:      cfg.Diagram.FactCap,
	})
	report := pipeline.New(builder, writer, os.Stdout).Run(ctx, snap)

	if writeJSON || writeDict {
		fmt.Println("\n📝 生成附加文件...")
	}
	if writeJSON {
		data, err := builder.FullERD(snap).ToJSON()
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(cfg.Output.Dir, "schema.json"), data); err != nil {
			return err
		}
	}
	if writeDict {
		md := renderer.NewMarkdownRenderer().Render(snap, builder.Relationships(snap))
		if err := writeFile(filepath.Join(cfg.Output.Dir, "dict.md"), []byte(md)); err != nil {
			return err
		}
	}

	return finish(report, cfg.Output.Dir)
}

func readCatalog(ctx context.Context, c config.CatalogConfig) (*schema.Snapshot, error) {
	openCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	reader, err := adapter.Open(openCtx, adapter.Options{
		Type:            c.Type,
		Project:         c.Project,
		Dataset:         c.Dataset,
		DSN:             c.DSN,
		CredentialsFile: c.CredentialsFile,
		Location:        c.Location,
	})
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	fmt.Println("✓ 目录连接成功")

	fmt.Println("\n📊 获取列元数据...")
	return adapter.ReadSnapshot(ctx, reader, c.Type, c.Timeout)
}

// printHints 列出未匹配任何维度的 *_key 列及最接近的候选，仅供排查命名问题
func printHints(inferer *analyzer.RelationshipInferer, snap *schema.Snapshot) {
	var hints []analyzer.Suggestion
	for _, fact := range snap.Facts() {
		hints = append(hints, inferer.Hints(fact)...)
	}
	if len(hints) == 0 {
		return
	}
	fmt.Printf("\n🔎 %d 个键列未匹配维度表:\n", len(hints))
	for _, h := range hints {
		fmt.Printf("  - %s → 可能是 %s (%s, 相似度 %.2f)\n", h.Column, h.Dimension, h.ExpectedKey, h.Similarity)
	}
}

func newWriter(dir, format, dotBinary string) (*renderer.Writer, error) {
	f, err := renderer.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	var gv *renderer.Graphviz
	if f.NeedsGraphviz() {
		if gv, err = renderer.NewGraphviz(dotBinary); err != nil {
			return nil, err
		}
	}
	return renderer.NewWriter(dir, f, gv)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("✓ %s\n", path)
	return nil
}

func finish(report *pipeline.Report, dir string) error {
	if report.Failed() {
		fmt.Printf("\n⚠️  生成 %d 个文件，%d 个失败，输出目录: %s\n", len(report.Written), len(report.Failures), dir)
		return fmt.Errorf("%w: %d of %d", errPartialRender, len(report.Failures), len(report.Written)+len(report.Failures))
	}
	fmt.Printf("\n✅ 完成！共生成 %d 个文件，输出目录: %s\n", len(report.Written), dir)
	return nil
}
