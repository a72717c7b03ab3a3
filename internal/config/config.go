package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Databricks domain suffixes for URL detection
var databricksDomains = []string{
	".cloud.databricks.com",
	".azuredatabricks.net",
	".gcp.databricks.com",
}

const (
	SourceLogdir = "logdir"
	SourceMLflow = "mlflow"
)

// AliasTableRelPath locates the host alias table inside the utility directory.
const AliasTableRelPath = "synch/alternative_paths.json"

// Valid configuration values
var (
	validSources = map[string]bool{
		SourceLogdir: true, SourceMLflow: true,
	}
	validLogFormats = map[string]bool{
		"json": true, "console": true,
	}
)

type Config struct {
	Logdir          string
	Source          string
	ExperimentID    string
	TrackingURI     string
	DatabricksHost  string
	DatabricksToken string
	UtilDir         string
	AliasFile       string
	HTTPHost        string
	HTTPPort        int
	LogLevel        string
	LogFormat       string
}

func New() *Config {
	return &Config{
		Logdir:          viper.GetString("logdir"),
		Source:          viper.GetString("source"),
		ExperimentID:    viper.GetString("experiment_id"),
		TrackingURI:     viper.GetString("tracking_uri"),
		DatabricksHost:  viper.GetString("databricks_host"),
		DatabricksToken: viper.GetString("databricks_token"),
		UtilDir:         viper.GetString("util_dir"),
		AliasFile:       viper.GetString("alias_file"),
		HTTPHost:        viper.GetString("http_host"),
		HTTPPort:        viper.GetInt("http_port"),
		LogLevel:        viper.GetString("log_level"),
		LogFormat:       viper.GetString("log_format"),
	}
}

func (c *Config) Validate() error {
	if c.Logdir == "" {
		return fmt.Errorf("log directory is required")
	}

	if !validSources[c.Source] {
		return fmt.Errorf("invalid source: %s (valid: logdir, mlflow)", c.Source)
	}

	if c.Source == SourceMLflow && c.TrackingURI == "" {
		return fmt.Errorf("tracking URI is required for the mlflow source")
	}

	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.LogFormat)
	}

	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTPPort)
	}

	return nil
}

// AliasTablePath returns the host alias table location, or "" when neither
// an explicit file nor a utility directory is configured.
func (c *Config) AliasTablePath() string {
	if c.AliasFile != "" {
		return c.AliasFile
	}
	if c.UtilDir == "" {
		return ""
	}
	return filepath.Join(c.UtilDir, filepath.FromSlash(AliasTableRelPath))
}

// IsDatabricks checks if the tracking URI points to Databricks
func (c *Config) IsDatabricks() bool {
	if c.TrackingURI == "databricks" {
		return true
	}

	// Check for databricks:// protocol
	if strings.HasPrefix(c.TrackingURI, "databricks://") {
		return true
	}

	// Check for Databricks URLs
	if strings.HasPrefix(c.TrackingURI, "https://") {
		host := c.extractHostFromURL(c.TrackingURI)
		return c.isDatabricksHost(host)
	}

	return false
}

// extractHostFromURL extracts the hostname from a URL
func (c *Config) extractHostFromURL(url string) string {
	host := strings.TrimPrefix(url, "https://")
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	return host
}

// isDatabricksHost checks if a hostname belongs to Databricks
func (c *Config) isDatabricksHost(host string) bool {
	for _, domain := range databricksDomains {
		if strings.HasSuffix(host, domain) {
			return true
		}
	}
	return false
}

// GetDatabricksProfile extracts the profile name from databricks://{profile} URI
func (c *Config) GetDatabricksProfile() string {
	if !strings.HasPrefix(c.TrackingURI, "databricks://") {
		return ""
	}

	profile := strings.TrimPrefix(c.TrackingURI, "databricks://")
	if idx := strings.Index(profile, "/"); idx != -1 {
		profile = profile[:idx]
	}
	return profile
}
