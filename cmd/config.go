package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/rowmatch/internal/config"
	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/KaramelBytes/rowmatch/internal/logging"
	"github.com/KaramelBytes/rowmatch/internal/match"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set rowmatch configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "top_k: %d\n", c.TopK)
		fmt.Fprintf(out, "scaling: %s\n", c.Scaling)
		if c.MissingPenalty > 0 {
			fmt.Fprintf(out, "missing_penalty: %g\n", c.MissingPenalty)
		}
		fmt.Fprintf(out, "strict_columns: %t\n", c.StrictColumns)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %q\n", c.DecimalSeparator)
		}
		if c.ThousandsSeparator != "" {
			fmt.Fprintf(out, "thousands_separator: %q\n", c.ThousandsSeparator)
		}
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "plot_width_in: %g\n", c.PlotWidthIn)
		fmt.Fprintf(out, "plot_height_in: %g\n", c.PlotHeightIn)
		fmt.Fprintf(out, "plot_output: %s\n", c.PlotOutput)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "top_k":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for top_k: %v", val)
			}
			cfg.TopK = i
		case "scaling":
			s, err := match.ParseScaling(val)
			if err != nil {
				return err
			}
			cfg.Scaling = s.String()
		case "missing_penalty":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for missing_penalty: %v", val)
			}
			cfg.MissingPenalty = f
		case "strict_columns":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for strict_columns: %w", err)
			}
			cfg.StrictColumns = b
		case "delimiter":
			if _, err := dataset.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "decimal_separator":
			if _, err := dataset.ParseNumberFormat(val, cfg.ThousandsSeparator); err != nil {
				return err
			}
			cfg.DecimalSeparator = val
		case "thousands_separator":
			if _, err := dataset.ParseNumberFormat(cfg.DecimalSeparator, val); err != nil {
				return err
			}
			cfg.ThousandsSeparator = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "plot_width_in", "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			if key == "plot_width_in" {
				cfg.PlotWidthIn = f
			} else {
				cfg.PlotHeightIn = f
			}
		case "plot_output":
			cfg.PlotOutput = val
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
