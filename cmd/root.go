package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "hparams-inspector",
	Short: "Hyperparameter experiment inspection service",
	Long: `A backend for inspecting hyperparameter experiments.
Reports which hyperparameters vary across sessions, keeps per-group comments,
and tells which host last wrote a session group's event logs.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("logdir", "", "Root log directory (overrides HPARAMS_LOGDIR)")
	rootCmd.PersistentFlags().String("source", "", "Session metadata source: logdir or mlflow")
	rootCmd.PersistentFlags().String("tracking-uri", "", "MLflow tracking URI (overrides MLFLOW_TRACKING_URI)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json/console)")
	viper.BindPFlag("logdir", rootCmd.PersistentFlags().Lookup("logdir"))
	viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("tracking_uri", rootCmd.PersistentFlags().Lookup("tracking-uri"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("HPARAMS")
	viper.AutomaticEnv()

	// Variables shared with other tools keep their own names
	viper.BindEnv("tracking_uri", "MLFLOW_TRACKING_URI")
	viper.BindEnv("databricks_host", "DATABRICKS_HOST")
	viper.BindEnv("databricks_token", "DATABRICKS_TOKEN")
	viper.BindEnv("util_dir", "JH_UTIL_DIR")

	// Set defaults
	viper.SetDefault("logdir", ".")
	viper.SetDefault("source", "logdir")
	viper.SetDefault("http_host", "localhost")
	viper.SetDefault("http_port", 6006)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "json")
}
