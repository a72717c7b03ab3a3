package mlflow

import (
	"context"
	"fmt"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/service/ml"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/config"
)

// runSearcher is the part of the MLflow experiments API the source needs.
type runSearcher interface {
	SearchRunsAll(ctx context.Context, request ml.SearchRuns) ([]ml.Run, error)
}

type Client struct {
	runs   runSearcher
	config *config.Config
	logger *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	databricksConfig, err := workspaceConfig(cfg)
	if err != nil {
		return nil, err
	}

	client, err := databricks.NewWorkspaceClient(databricksConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create MLflow client: %w", err)
	}

	return newClient(client.Experiments, cfg, logger), nil
}

func newClient(runs runSearcher, cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{runs: runs, config: cfg, logger: logger}
}

func workspaceConfig(cfg *config.Config) (*databricks.Config, error) {
	if !cfg.IsDatabricks() {
		// Regular MLflow server configuration
		return &databricks.Config{
			Host: cfg.TrackingURI,
			// For regular MLflow server, use a dummy token to bypass authentication
			Token: "dummy-token-for-regular-mlflow",
		}, nil
	}

	databricksConfig := &databricks.Config{}

	// Handle different Databricks URI formats
	if cfg.TrackingURI == "databricks" {
		if cfg.DatabricksHost != "" {
			databricksConfig.Host = cfg.DatabricksHost
		}
	} else if profile := cfg.GetDatabricksProfile(); profile != "" {
		databricksConfig.Profile = profile
	} else {
		databricksConfig.Host = cfg.TrackingURI
	}

	// Set authentication token if available (overrides profile)
	if cfg.DatabricksToken != "" {
		databricksConfig.Token = cfg.DatabricksToken
	}

	if databricksConfig.Host == "" && databricksConfig.Profile == "" {
		return nil, fmt.Errorf("Databricks host or profile is required when using Databricks MLflow. Set DATABRICKS_HOST environment variable, use a full Databricks URL as tracking URI, or specify a profile with databricks://{profile}")
	}

	return databricksConfig, nil
}
