package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/navpath/internal/config"
	"github.com/BrandonKowalski/navpath/internal/logging"
	"github.com/BrandonKowalski/navpath/internal/scenario"
	"github.com/BrandonKowalski/navpath/pkg/navpath/locale"
	"github.com/BrandonKowalski/navpath/pkg/navpath/navmetrics"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Replay a scenario and print every frame",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().Bool("metrics", false, "Print Prometheus metrics after the run")
	rootCmd.AddCommand(runCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.SetLevel(cfg.Level())
	logger := logging.Default()

	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	l10n, err := locale.New(cfg.Locale)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	reg := prometheus.NewRegistry()
	collector := navmetrics.New("navsim")
	if err := collector.Register(reg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results, runErr := scenario.NewRunner(cfg, logger, collector).Run(s)
	for _, res := range results {
		fmt.Fprintln(out, scenario.Format(res))
		if res.Err != nil {
			fmt.Fprintf(out, "    %s\n", l10n.Error(res.Err))
		}
	}
	if len(results) > 0 {
		last := results[len(results)-1].Frame
		depth := len(last.Stack)
		if last.SheetPresented() {
			depth++
		}
		fmt.Fprintf(out, "%s: %s\n", s.Name, l10n.Depth(depth))
	}

	if metrics, _ := cmd.Flags().GetBool("metrics"); metrics {
		if err := writeMetrics(cmd, reg); err != nil {
			return err
		}
	}
	return runErr
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, ok := logging.ParseLevel(level); !ok {
			return config.Config{}, fmt.Errorf("invalid --log-level %q", level)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func writeMetrics(cmd *cobra.Command, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(cmd.OutOrStdout(), expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
