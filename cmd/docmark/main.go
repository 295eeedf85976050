// Package main 是 docmark 命令行入口
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/config"
	"github.com/riverfjs/docmark-go/internal/ocr"
	"github.com/riverfjs/docmark-go/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg 在 PersistentPreRunE 中加载
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "docmark",
	Short: "Convert PDFs and images to Markdown and copy blocks as source",
	Long: `docmark sends PDFs and images to an OCR service, stores the resulting
Markdown with its extracted images, and maps selections over the rendered
text back to the Markdown source of the covered blocks.

Configuration is read from ./docmark.yaml or ~/.config/docmark/docmark.yaml;
DOCMARK_* environment variables override the file and MISTRAL_API_KEY is used
when ocr.api_key is unset.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			c.Logging.Level = "debug"
		}
		cfg = c
		return setupLogger(c.Logging)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docmark.yaml or ~/.config/docmark/docmark.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func setupLogger(lc config.LoggingConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", lc.Level, err)
	}
	var logger zerolog.Logger
	if lc.Console {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.Level(level).With().Timestamp().Logger()
	docmark.SetLogger(logger)
	return nil
}

// openStore 按配置打开文档仓库
func openStore() (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return store.NewMemory(cfg.Store.Quota), nil
	default:
		return store.OpenSQLite(cfg.Store.Path, cfg.Store.Quota)
	}
}

func newGateway() *ocr.Client {
	return ocr.New(cfg.OCR.APIKey,
		ocr.WithBaseURL(cfg.OCR.BaseURL),
		ocr.WithHTTPClient(&http.Client{Timeout: cfg.OCR.Timeout}),
		ocr.WithMaxRetries(cfg.OCR.MaxRetries),
	)
}

func newConverter(st store.Store) *docmark.Converter {
	return docmark.NewConverter(newGateway(), st,
		docmark.WithModel(cfg.OCR.Model),
		docmark.WithConcurrency(cfg.Concurrency),
		docmark.WithConfig(&cfg.Render),
	)
}

func newPreferences() *docmark.Preferences {
	prefs := docmark.NewPreferences()
	prefs.Apply(cfg.Preferences)
	return prefs
}

// withStore 打开仓库执行 fn，结束后关闭
func withStore(fn func(st store.Store) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
