package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/metrics"
	"github.com/imishinist/hparams-inspector/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hparams HTTP API",
	Long:  "Serve experiment, comment and run info routes over HTTP",
	Example: `  # Serve a local log directory
  hparams-inspector serve --logdir ./runs --port 6006

  # Serve runs from an MLflow tracking server
  hparams-inspector serve --logdir ./runs --source mlflow --tracking-uri http://localhost:5000`,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Address to listen on")
	serveCmd.Flags().Int("port", 0, "Port to listen on")
	viper.BindPFlag("http_host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("http_port", serveCmd.Flags().Lookup("port"))
}

func serve(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := server.New(a.experiments, a.annotations, a.freshness, metrics.New(), a.logger, &server.Config{
		Host: a.cfg.HTTPHost,
		Port: a.cfg.HTTPPort,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", zap.Error(err))
		return err
	}
	return nil
}
