// Package config 加载 docmark 的配置：默认值、docmark.yaml 和 DOCMARK_ 环境变量
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/riverfjs/docmark-go/internal/ocr"
	"github.com/riverfjs/docmark-go/internal/types"
)

const (
	// EnvPrefix 环境变量前缀，例如 DOCMARK_OCR_API_KEY
	EnvPrefix = "DOCMARK"
	// APIKeyEnv 未配置 ocr.api_key 时回退读取
	APIKeyEnv = "MISTRAL_API_KEY"

	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config 全部配置
type Config struct {
	OCR         OCRConfig                 `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Store       StoreConfig               `mapstructure:"store" yaml:"store" json:"store"`
	Server      ServerConfig              `mapstructure:"server" yaml:"server" json:"server"`
	Logging     LoggingConfig             `mapstructure:"logging" yaml:"logging" json:"logging"`
	Render      types.RenderConfig        `mapstructure:"render" yaml:"render" json:"render"`
	Preferences types.PreferencesSnapshot `mapstructure:"preferences" yaml:"preferences" json:"preferences"`
	// Concurrency 批量转换时同时处理的文件数
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
}

// OCRConfig 转换服务
type OCRConfig struct {
	APIKey     string        `mapstructure:"api_key" yaml:"api_key,omitempty" json:"-"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url" json:"baseUrl"`
	Model      string        `mapstructure:"model" yaml:"model" json:"model"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries" json:"maxRetries"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// StoreConfig 文档存储
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver" json:"driver"`
	Path   string `mapstructure:"path" yaml:"path" json:"path"`
	// Quota 用于计算用量百分比，0 表示不限
	Quota int64 `mapstructure:"quota" yaml:"quota" json:"quota"`
}

// ServerConfig HTTP 服务
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
	// MaxUploadBytes 单次上传的总大小上限
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes" json:"maxUploadBytes"`
	// MemoSize 缓存切分结果的文档数
	MemoSize int `mapstructure:"memo_size" yaml:"memo_size" json:"memoSize"`
}

// LoggingConfig 日志
type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level" json:"level"`
	Console bool   `mapstructure:"console" yaml:"console" json:"console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OCR: OCRConfig{
			BaseURL:    ocr.DefaultBaseURL,
			Model:      ocr.DefaultModel,
			MaxRetries: 5,
			Timeout:    5 * time.Minute,
		},
		Store: StoreConfig{
			Driver: StoreSQLite,
			Path:   filepath.Join("~", ".local", "share", "docmark", "documents.db"),
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			MaxUploadBytes: 64 << 20,
			MemoSize:       128,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
		Render:      *types.DefaultRenderConfig(),
		Preferences: types.PreferencesSnapshot{CopyAsMarkdown: true, ShowImages: true},
		Concurrency: 2,
	}
}

// setDefaults 注册默认值，使 AutomaticEnv 能覆盖每个键
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.base_url", d.OCR.BaseURL)
	v.SetDefault("ocr.model", d.OCR.Model)
	v.SetDefault("ocr.max_retries", d.OCR.MaxRetries)
	v.SetDefault("ocr.timeout", d.OCR.Timeout)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.quota", d.Store.Quota)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.memo_size", d.Server.MemoSize)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.console", d.Logging.Console)
	v.SetDefault("render.math_unicode", d.Render.MathUnicode)
	sym := d.Render.MarkdownSymbol
	v.SetDefault("render.symbols.bullet", sym.Bullet)
	v.SetDefault("render.symbols.task_completed", sym.TaskCompleted)
	v.SetDefault("render.symbols.task_uncompleted", sym.TaskUncompleted)
	v.SetDefault("render.symbols.rule", sym.Rule)
	v.SetDefault("render.symbols.quote", sym.Quote)
	v.SetDefault("render.symbols.image", sym.Image)
	v.SetDefault("preferences.copy_as_markdown", d.Preferences.CopyAsMarkdown)
	v.SetDefault("preferences.show_images", d.Preferences.ShowImages)
	v.SetDefault("concurrency", d.Concurrency)
}

// Load 读取配置
//
// cfgFile 为空时依次查找 ./docmark.yaml 和 ~/.config/docmark/docmark.yaml，
// 文件不存在不是错误。环境变量优先于文件。
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docmark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "docmark"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.OCR.APIKey == "" {
		cfg.OCR.APIKey = os.Getenv(APIKeyEnv)
	}
	cfg.Store.Path = expandPath(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store.driver %q (want %s or %s)", c.Store.Driver, StoreSQLite, StoreMemory)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.OCR.MaxRetries < 0 {
		return fmt.Errorf("ocr.max_retries must not be negative, got %d", c.OCR.MaxRetries)
	}
	return nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
