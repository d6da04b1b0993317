package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/KaramelBytes/rowmatch/internal/match"
	"github.com/KaramelBytes/rowmatch/internal/plot"
	"github.com/spf13/cobra"
)

var (
	findWhere []string
	findJSON  bool
	findPlot  string
)

var findCmd = &cobra.Command{
	Use:   "find <file>",
	Short: "Filter rows by column values, falling back to the closest rows",
	Example: `  rowmatch find homes.csv --where city=Austin --where price=120000 -k 3
  rowmatch find homes.xlsx --sheet-name Listings --where beds=3 --json
  rowmatch find homes.db --table listings --where city=austin --plot sqft,price --plot-out homes.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := parseWhere(findWhere)
		if err != nil {
			return err
		}
		var plotX, plotY string
		if findPlot != "" {
			if plotX, plotY, err = parseAxes(findPlot); err != nil {
				return err
			}
		}
		lopt, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		ropt, strict, err := rankOptions(cmd)
		if err != nil {
			return err
		}

		ds, err := dataset.Load(args[0], lopt)
		if err != nil {
			return err
		}
		if err := spec.Validate(ds); err != nil {
			if strict {
				return err
			}
			logger.Warn("ignoring filters", "reason", err.Error())
		}

		res, err := match.Search(ds, spec, ropt)
		if err != nil {
			return err
		}
		logger.Debug("search done", "exact", res.Exact, "rows", len(res.Rows))

		out := cmd.OutOrStdout()
		if findJSON {
			if err := writeJSON(out, newJSONResult(ds, spec, res)); err != nil {
				return err
			}
		} else {
			if res.Exact {
				fmt.Fprintln(out, "Filtered Data:")
			} else {
				fmt.Fprintln(out, "No exact matches found. Showing closest available options:")
			}
			if err := writeTable(out, ds, res); err != nil {
				return err
			}
		}

		if plotX == "" {
			return nil
		}
		popt := plotOptions(cmd)
		fit, err := plot.Scatter(ds, res.DatasetRows(), plotX, plotY, popt)
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		// Keep stdout clean for --json consumers.
		msg := cmd.ErrOrStderr()
		fmt.Fprintf(msg, "✓ Wrote scatter plot to %s\n", popt.Output)
		if !fit.Degenerate {
			fmt.Fprintf(msg, "  %s = %.4g * %s + %.4g (R² %.3f, n=%d)\n", plotY, fit.Slope, plotX, fit.Intercept, fit.R2, fit.N)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().StringArrayVarP(&findWhere, "where", "w", nil, "filter as column=value (repeatable)")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "print the result as JSON")
	findCmd.Flags().StringVar(&findPlot, "plot", "", "draw a scatter plot of the result: <x-column>,<y-column>")
}

// parseWhere splits column=value pairs on the first '='. A repeated column
// keeps the last value.
func parseWhere(pairs []string) (match.FilterSpec, error) {
	var spec match.FilterSpec
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --where %q (use column=value)", p)
		}
		spec = spec.Set(col, val)
	}
	return spec, nil
}

func parseAxes(s string) (string, string, error) {
	x, y, ok := strings.Cut(s, ",")
	x, y = strings.TrimSpace(x), strings.TrimSpace(y)
	if !ok || x == "" || y == "" {
		return "", "", fmt.Errorf("invalid --plot %q (use x-column,y-column)", s)
	}
	return x, y, nil
}
