package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cfg.OCR.APIKey == "" {
			docmark.Logger.Warn().Msg("no OCR API key configured, conversions will fail")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(server.Config{
			Addr:           cfg.Server.Addr,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			MemoSize:       cfg.Server.MemoSize,
			RenderConfig:   &cfg.Render,
		}, newConverter(st), st, newPreferences(), docmark.Logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		docmark.Logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")

	rootCmd.AddCommand(serveCmd)
}
