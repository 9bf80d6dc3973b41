// Package config 加载配置：默认值 < 配置文件 < ERD_ 环境变量 < 命令行参数
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config 全部配置
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Output  OutputConfig  `mapstructure:"output"`
	Diagram DiagramConfig `mapstructure:"diagram"`
	Static  StaticConfig  `mapstructure:"static"`
}

// CatalogConfig 在线目录
type CatalogConfig struct {
	Type            string        `mapstructure:"type" validate:"oneof=bigquery mysql postgres sqlserver"`
	Project         string        `mapstructure:"project" validate:"required"`
	Dataset         string        `mapstructure:"dataset" validate:"required"`
	DSN             string        `mapstructure:"dsn" validate:"required_unless=Type bigquery"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	Location        string        `mapstructure:"location"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// OutputConfig 输出
type OutputConfig struct {
	Dir       string `mapstructure:"dir" validate:"required"`
	Format    string `mapstructure:"format" validate:"oneof=png svg pdf dot mmd"`
	DotBinary string `mapstructure:"dot_binary" validate:"required"`
}

// DiagramConfig 全量 ERD 显示上限，0 表示不截断
type DiagramConfig struct {
	DimensionCap int `mapstructure:"dimension_cap" validate:"min=0"`
	FactCap      int `mapstructure:"fact_cap" validate:"min=0"`
}

// StaticConfig 静态表定义，为空时使用内置定义
type StaticConfig struct {
	SchemaFile string `mapstructure:"schema_file"`
}

func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("catalog.type", "bigquery")
	v.SetDefault("catalog.project", "YOUR_PROJECT")
	v.SetDefault("catalog.dataset", "netflix_dw")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.credentials_file", "")
	v.SetDefault("catalog.location", "")
	v.SetDefault("catalog.timeout", "60s")

	// Output defaults
	v.SetDefault("output.dir", "erd_generated")
	v.SetDefault("output.format", "png")
	v.SetDefault("output.dot_binary", "dot")

	// Diagram defaults
	v.SetDefault("diagram.dimension_cap", 15)
	v.SetDefault("diagram.fact_cap", 20)

	v.SetDefault("static.schema_file", "")
}

// New 创建带默认值和环境变量绑定的 viper 实例
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags 把命令行参数绑定到配置键（key -> flag 名），只有显式传入的参数才覆盖
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q for key %s", name, key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load 读取配置文件（configFile 为空时在 . 和 ./configs 中查找 erd.yaml）并校验
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("erd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	cfg.Catalog.Type = strings.ToLower(cfg.Catalog.Type)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验与目录连接无关的配置；连接参数由 CatalogConfig.Validate 在 scan 时校验
func (c *Config) Validate() error {
	return describe(validate.StructExcept(c, "Catalog.DSN"))
}

// Validate 校验在线目录配置
func (c *CatalogConfig) Validate() error {
	return describe(validate.Struct(c))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
