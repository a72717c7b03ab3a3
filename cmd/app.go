package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/annotation"
	"github.com/imishinist/hparams-inspector/internal/config"
	"github.com/imishinist/hparams-inspector/internal/freshness"
	"github.com/imishinist/hparams-inspector/internal/hparams"
	"github.com/imishinist/hparams-inspector/internal/logdir"
	"github.com/imishinist/hparams-inspector/internal/logging"
	"github.com/imishinist/hparams-inspector/internal/mlflow"
)

// app holds the components every command is built from.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	experiments *hparams.Service
	annotations annotation.Store
	freshness   *freshness.Resolver
}

func newApp() (*app, error) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()

	var source hparams.MetadataSource
	switch cfg.Source {
	case config.SourceMLflow:
		client, err := mlflow.NewClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create MLflow client: %w", err)
		}
		source = client
	default:
		source = logdir.NewSource(fs, cfg.Logdir, logger)
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		experiments: hparams.NewService(source, nil, logger),
		annotations: annotation.NewFSStore(fs, cfg.Logdir, logger),
		freshness: freshness.NewResolver(fs, cfg.Logdir,
			freshness.WithAliasTable(freshness.NewFileAliasTable(fs, cfg.AliasTablePath())),
			freshness.WithLogger(logger),
		),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
