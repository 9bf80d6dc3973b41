package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"star-erd/internal/analyzer"
	"star-erd/internal/config"
	"star-erd/internal/diagram"
	"star-erd/internal/export"
	"star-erd/internal/pipeline"
	"star-erd/internal/renderer"
	"star-erd/internal/schema"
	"star-erd/internal/static"
)

// 静态模式
const (
	methodQuickDBD     = "quickdbd"
	methodMetadata     = "metadata"
	methodDescriptions = "descriptions"
	methodImage        = "image"
	methodBigQueryERD  = "bigquery-erd"
	methodStarSchemas  = "star-schemas"
	methodAll          = "all"
)

var staticMethods = []string{
	methodQuickDBD, methodMetadata, methodDescriptions,
	methodImage, methodBigQueryERD, methodStarSchemas, methodAll,
}

var method string

var staticBindings = map[string]string{
	"catalog.project":    "project",
	"catalog.dataset":    "dataset",
	"output.dir":         "output",
	"output.format":      "format",
	"output.dot_binary":  "dot",
	"static.schema_file": "schema",
}

func newStaticCmd() *cobra.Command {
	staticCmd := &cobra.Command{
		Use:   "static",
		Short: "基于内置表定义生成文本导出或 ER 图",
		Long: "不访问在线目录，使用内置（或 --schema 指定）的表定义。\n" +
			"method: " + strings.Join(staticMethods, " | "),
		Args: cobra.NoArgs,
		RunE: runStatic,
	}

	f := staticCmd.Flags()
	f.StringVar(&method, "method", methodAll, "输出方式 ("+strings.Join(staticMethods, "/")+")")
	f.String("project", "YOUR_PROJECT", "GCP 项目 ID（用于生成的 SQL）")
	f.String("dataset", "netflix_dw", "数据集（用于生成的 SQL）")
	f.String("output", "erd_generated", "输出目录；image 模式也可以是带扩展名的文件路径")
	f.String("format", "png", "图片格式 (png/svg/pdf/dot/mmd)")
	f.String("dot", "dot", "Graphviz dot 可执行文件")
	f.String("schema", "", "外部 YAML 表定义（默认使用内置定义）")

	return staticCmd
}

func runStatic(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, staticBindings)
	if err != nil {
		return err
	}

	snap, err := static.LoadFile(cfg.Static.SchemaFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	project, dataset := cfg.Catalog.Project, cfg.Catalog.Dataset

	switch method {
	case methodQuickDBD:
		fmt.Fprint(out, export.QuickDBD(snap))
	case methodMetadata:
		fmt.Fprint(out, export.MetadataQueries(project, dataset))
	case methodDescriptions:
		fmt.Fprint(out, export.FKDescriptions(snap, project, dataset))
	case methodAll:
		fmt.Fprint(out, export.All(snap, project, dataset))
	case methodImage, methodBigQueryERD, methodStarSchemas:
		return runStaticDiagrams(cmd, cfg, snap)
	default:
		return fmt.Errorf("unknown method %q (expected one of %s)", method, strings.Join(staticMethods, ", "))
	}
	return nil
}

func runStaticDiagrams(cmd *cobra.Command, cfg *config.Config, snap *schema.Snapshot) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 显式引用优先，其余事实表列回退到命名推断；静态图不截断
	resolver := analyzer.NewExplicitResolver(analyzer.NewRelationshipInferer(snap))
	builder := diagram.NewBuilder(resolver, diagram.Caps{})
	report := &pipeline.Report{}

	if method == methodStarSchemas {
		writer, err := newWriter(cfg.Output.Dir, cfg.Output.Format, cfg.Output.DotBinary)
		if err != nil {
			return err
		}
		fmt.Println("Generating individual star schema diagrams...")
		pipeline.New(builder, writer, os.Stdout).Stars(ctx, snap, report)
		fmt.Printf("\nGenerated %d star schema diagrams in %s/\n", len(report.Written), cfg.Output.Dir)
		return finish(report, cfg.Output.Dir)
	}

	dir, base, format := imageTarget(cfg.Output.Dir, cfg.Output.Format)
	writer, err := newWriter(dir, format, cfg.Output.DotBinary)
	if err != nil {
		return err
	}
	fmt.Println("🗺️  生成静态表定义 ERD...")
	pipeline.New(builder, writer, os.Stdout).Full(ctx, snap, base, report)
	return finish(report, dir)
}

// imageTarget 解析 image 模式的输出：带已知扩展名时视为文件路径，否则视为目录
func imageTarget(output, format string) (dir, base, outFormat string) {
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext != "" {
		if f, err := renderer.ParseFormat(ext); err == nil {
			return filepath.Dir(output), strings.TrimSuffix(filepath.Base(output), filepath.Ext(output)), string(f)
		}
	}
	return output, pipeline.StaticERDName, format
}
