package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"star-erd/internal/adapter"
	"star-erd/internal/config"
	"star-erd/internal/renderer"
	"star-erd/internal/schema"
)

// 由 -ldflags "-X main.version=..." 注入
var version = "dev"

// 退出码
const (
	exitOK                  = 0
	exitUsage               = 1
	exitConfiguration       = 2
	exitCatalogUnavailable  = 3
	exitRendererUnavailable = 4
	exitPartialRender       = 5
)

var errPartialRender = errors.New("some diagrams failed to render")

var configFile string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "erd",
		Short:         "星型数据仓库 ER 图生成器",
		Long:          "读取维度表/事实表结构，按命名约定推断外键，生成单表卡片、星型图和全量 ER 图",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "配置文件（默认查找 ./erd.yaml 或 ./configs/erd.yaml）")

	rootCmd.AddCommand(newScanCmd(), newStaticCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "erd %s\n", version)
		},
	}
}

// loadConfig 创建 viper 实例、绑定当前命令的参数并加载配置
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags(), bindings); err != nil {
		return nil, err
	}
	return config.Load(v, configFile)
}

func exitCode(err error) int {
	var cfgErr *schema.ConfigurationError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &cfgErr):
		return exitConfiguration
	case errors.Is(err, adapter.ErrCatalogUnavailable):
		return exitCatalogUnavailable
	case errors.Is(err, renderer.ErrRendererUnavailable):
		return exitRendererUnavailable
	case errors.Is(err, errPartialRender):
		return exitPartialRender
	default:
		return exitUsage
	}
}

func hintFor(err error) string {
	var catErr *adapter.CatalogError
	switch {
	case errors.As(err, &catErr):
		return catErr.Hint
	case errors.Is(err, renderer.ErrRendererUnavailable):
		return "install graphviz (brew install graphviz / apt-get install graphviz), or use --format dot|mmd"
	default:
		return ""
	}
}
