// Package renderer 将图描述输出为 DOT、Mermaid 文本或 Graphviz 图片
package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"star-erd/internal/graph"
)

// Format 输出格式
type Format string

const (
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
	FormatPDF     Format = "pdf"
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mmd"
)

// Formats 全部支持的输出格式
var Formats = []Format{FormatPNG, FormatSVG, FormatPDF, FormatDOT, FormatMermaid}

// ParseFormat 解析输出格式（不区分大小写）
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// NeedsGraphviz 该格式是否需要 dot 程序
func (f Format) NeedsGraphviz() bool {
	return f == FormatPNG || f == FormatSVG || f == FormatPDF
}

// FileName 拼接输出文件名：{base}.{format}
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// RenderError 单张图渲染失败
type RenderError struct {
	Diagram string
	Path    string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s to %s: %v", e.Diagram, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Writer 按格式把图写入输出目录
type Writer struct {
	dir      string
	format   Format
	graphviz *Graphviz
	dot      *DOTRenderer
	mermaid  *MermaidRenderer
}

// NewWriter 创建写入器；图片格式需要 graphviz，文本格式可传 nil
func NewWriter(dir string, format Format, gv *Graphviz) (*Writer, error) {
	if format.NeedsGraphviz() && gv == nil {
		return nil, fmt.Errorf("%w: format %s requires graphviz", ErrRendererUnavailable, format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{
		dir:      dir,
		format:   format,
		graphviz: gv,
		dot:      NewDOTRenderer(),
		mermaid:  NewMermaidRenderer(),
	}, nil
}

// Format 写入器使用的格式
func (w *Writer) Format() Format {
	return w.format
}

// Write 渲染一张图，返回输出文件路径；已存在的同名文件被覆盖
func (w *Writer) Write(ctx context.Context, g *graph.SchemaGraph, base string) (string, error) {
	path := filepath.Join(w.dir, w.format.FileName(base))

	var err error
	switch w.format {
	case FormatMermaid:
		err = os.WriteFile(path, []byte(w.mermaid.Render(g)), 0o644)
	case FormatDOT:
		err = os.WriteFile(path, []byte(w.dot.Render(g)), 0o644)
	default:
		err = w.graphviz.Render(ctx, w.dot.Render(g), w.format, path)
	}
	if err != nil {
		return "", &RenderError{Diagram: base, Path: path, Err: err}
	}
	return path, nil
}
