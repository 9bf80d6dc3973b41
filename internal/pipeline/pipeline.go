// Package pipeline 按快照依次生成单表卡片、星型图和全量 ERD
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"star-erd/internal/diagram"
	"star-erd/internal/graph"
	"star-erd/internal/schema"
)

// 输出文件名（不含扩展名）
const (
	FullERDName   = "full_erd"
	StaticERDName = "netflix_dw_erd"
	starPrefix    = "star_"
)

// StarName 星型图文件名
func StarName(fact string) string {
	return starPrefix + fact
}

// Renderer 把一张图写成文件，返回文件路径
type Renderer interface {
	Write(ctx context.Context, g *graph.SchemaGraph, base string) (string, error)
}

// Report 一次运行的结果
type Report struct {
	Written  []string
	Failures []error
}

// Failed 是否有图渲染失败
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Pipeline 生成流程；每张图独立渲染，单张失败只记录不中断
type Pipeline struct {
	builder  *diagram.Builder
	renderer Renderer
	out      io.Writer
}

// New 创建流程，out 接收进度输出
func New(builder *diagram.Builder, renderer Renderer, out io.Writer) *Pipeline {
	return &Pipeline{builder: builder, renderer: renderer, out: out}
}

// Run 完整流程：全部表的卡片、每张事实表的星型图、全量 ERD
func (p *Pipeline) Run(ctx context.Context, snap *schema.Snapshot) *Report {
	report := &Report{}

	fmt.Fprintln(p.out, "\n📋 生成单表卡片...")
	p.Cards(ctx, snap, report)

	fmt.Fprintln(p.out, "\n⭐ 生成星型图...")
	p.Stars(ctx, snap, report)

	fmt.Fprintln(p.out, "\n🗺️  生成全量 ERD...")
	p.Full(ctx, snap, FullERDName, report)

	return report
}

// Cards 每张表一张卡片，按表名排序
func (p *Pipeline) Cards(ctx context.Context, snap *schema.Snapshot, report *Report) {
	for _, t := range snap.Sorted() {
		if p.render(ctx, p.builder.TableCard(t), t.Name, report) {
			fmt.Fprintf(p.out, "  ✓ %s (%d cols)\n", t.Name, len(t.Columns))
		}
	}
}

// Stars 每张事实表一张星型图
func (p *Pipeline) Stars(ctx context.Context, snap *schema.Snapshot, report *Report) {
	for _, fact := range snap.Facts() {
		g := p.builder.Star(snap, fact)
		if path, ok := p.renderPath(ctx, g, StarName(fact.Name), report); ok {
			fmt.Fprintf(p.out, "  ✓ %s → %d dims → %s\n", fact.Name, len(g.Nodes)-1, path)
		}
	}
}

// Full 全量 ERD，base 为输出文件名
func (p *Pipeline) Full(ctx context.Context, snap *schema.Snapshot, base string, report *Report) {
	g := p.builder.FullERD(snap)
	if path, ok := p.renderPath(ctx, g, base, report); ok {
		fmt.Fprintf(p.out, "  ✓ %d tables, %d relationships → %s\n", len(g.Nodes), len(g.Edges), path)
	}
}

func (p *Pipeline) render(ctx context.Context, g *graph.SchemaGraph, base string, report *Report) bool {
	_, ok := p.renderPath(ctx, g, base, report)
	return ok
}

func (p *Pipeline) renderPath(ctx context.Context, g *graph.SchemaGraph, base string, report *Report) (string, bool) {
	if err := ctx.Err(); err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("%s: %w", base, err))
		return "", false
	}

	path, err := p.renderer.Write(ctx, g, base)
	if err != nil {
		log.Printf("Warning: %v", err)
		report.Failures = append(report.Failures, err)
		return "", false
	}
	report.Written = append(report.Written, path)
	return path, true
}
