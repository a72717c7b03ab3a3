package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imishinist/hparams-inspector/internal/models"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Show an experiment and the hyperparameters that vary",
	Long:  "Print the experiment descriptor, flagging hyperparameters whose values differ across sessions",
	Example: `  # Full descriptor as JSON
  hparams-inspector experiment --logdir ./runs --experiment-id sweep

  # Only the hyperparameters that changed between sessions
  hparams-inspector experiment --logdir ./runs --diff-only`,
	RunE: showExperiment,
}

func init() {
	rootCmd.AddCommand(experimentCmd)

	experimentCmd.Flags().String("experiment-id", "", "Experiment ID (overrides HPARAMS_EXPERIMENT_ID)")
	experimentCmd.Flags().String("format", "json", "Output format (json/table)")
	experimentCmd.Flags().Bool("diff-only", false, "Print only the names of differing hyperparameters")
	viper.BindPFlag("experiment_id", experimentCmd.Flags().Lookup("experiment-id"))
}

func showExperiment(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	format, _ := cmd.Flags().GetString("format")
	diffOnly, _ := cmd.Flags().GetBool("diff-only")

	exp, diff, err := a.experiments.GetExperiment(cmd.Context(), a.cfg.ExperimentID)
	if err != nil {
		return fmt.Errorf("failed to get experiment: %w", err)
	}

	if diffOnly {
		for _, name := range diff.Names() {
			fmt.Println(name)
		}
		return nil
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(exp)
	case "table":
		return renderHparamTable(os.Stdout, exp)
	default:
		return fmt.Errorf("unsupported format: %s (valid: json, table)", format)
	}
}

func renderHparamTable(w io.Writer, exp *models.Experiment) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Type", "Domain", "Differs")
	for _, info := range exp.HparamInfos {
		differs := ""
		if info.Differs {
			differs = "yes"
		}
		if err := table.Append(info.Name, string(info.Type), formatDomain(info), differs); err != nil {
			return err
		}
	}
	return table.Render()
}

func formatDomain(info models.HparamInfo) string {
	if info.DomainInterval != nil {
		return fmt.Sprintf("[%v, %v]", info.DomainInterval.MinValue, info.DomainInterval.MaxValue)
	}
	if len(info.DomainDiscrete) == 0 {
		return ""
	}
	values := make([]string, len(info.DomainDiscrete))
	for i, v := range info.DomainDiscrete {
		values[i] = fmt.Sprint(v)
	}
	return strings.Join(values, ", ")
}
