package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/multipid/internal/config"
)

// AddConfigCommand adds the config command and its subcommands.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect multipid configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	root.AddCommand(cmd)
}

// configView is the printable form of config.Config. Durations are shown as
// strings ("8s") rather than nanosecond counts.
type configView struct {
	Lock struct {
		Timeout       string `yaml:"timeout" json:"timeout"`
		RetryInterval string `yaml:"retry_interval" json:"retry_interval"`
	} `yaml:"lock" json:"lock"`
	Wait struct {
		Interval string `yaml:"interval" json:"interval"`
		Timeout  string `yaml:"timeout" json:"timeout"`
	} `yaml:"wait" json:"wait"`
	Log config.LogConfig `yaml:"log" json:"log"`
}

func newConfigView(cfg *config.Config) configView {
	var v configView
	v.Lock.Timeout = cfg.Lock.Timeout.String()
	v.Lock.RetryInterval = cfg.Lock.RetryInterval.String()
	v.Wait.Interval = cfg.Wait.Interval.String()
	v.Wait.Timeout = cfg.Wait.Timeout.String()
	v.Log = cfg.Log
	return v
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after merging defaults, the global
config file, --config, MULTIPID_* environment variables and flags.

Examples:
  multipid config show             # YAML
  multipid config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ec := executionContextFrom(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			view := newConfigView(ec.Config)

			if ec.Format == OutputJSON {
				return ec.Output.JSON(view)
			}
			return writeYAML(cmd.OutOrStdout(), view)
		},
	}
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
