package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrRendererUnavailable 找不到 Graphviz 可执行文件
var ErrRendererUnavailable = errors.New("graphviz renderer unavailable")

// Graphviz 调用外部 dot 程序把 DOT 文本渲染为图片
type Graphviz struct {
	bin string
}

// NewGraphviz 查找 dot 可执行文件；找不到时返回 ErrRendererUnavailable
func NewGraphviz(bin string) (*Graphviz, error) {
	if bin == "" {
		bin = "dot"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %q not found on PATH (install graphviz)", ErrRendererUnavailable, bin)
	}
	return &Graphviz{bin: path}, nil
}

// Binary 实际使用的可执行文件路径
func (g *Graphviz) Binary() string {
	return g.bin
}

// Render 执行 dot -T<format> -o <path>，DOT 文本从 stdin 传入
func (g *Graphviz) Render(ctx context.Context, dot string, format Format, path string) error {
	cmd := exec.CommandContext(ctx, g.bin, "-T"+string(format), "-o", path)
	cmd.Stdin = strings.NewReader(dot)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}
