package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/KaramelBytes/rowmatch/internal/match"
	"github.com/KaramelBytes/rowmatch/internal/plot"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore [file]",
	Short: "Interactively filter a dataset and plot the matching rows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runExplore(cmd, path)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prints label and returns the next input line, trimmed. EOF reads as
// an empty answer.
func (p prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runExplore(cmd *cobra.Command, path string) error {
	p := prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	out := p.out

	var err error
	if path == "" {
		if path, err = p.ask("Enter the file path of the CSV file: "); err != nil {
			return err
		}
	}
	lopt, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	ropt, _, err := rankOptions(cmd)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(path, lopt)
	if errors.Is(err, dataset.ErrSourceNotFound) {
		fmt.Fprintf(out, "File not found: %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}
	if ds.Empty() {
		logger.Warn("dataset has no rows", "path", path)
		return nil
	}

	fmt.Fprintln(out, "Columns available for filtering:")
	for i, name := range ds.ColumnNames() {
		fmt.Fprintf(out, "%d: %s\n", i+1, name)
	}
	answer, err := p.ask("Enter the numbers of the columns you want to filter (comma-separated): ")
	if err != nil {
		return err
	}

	var spec match.FilterSpec
	for _, i := range parseSelection(answer, len(ds.Columns)) {
		name := ds.Columns[i].Name
		v, err := p.ask(fmt.Sprintf("Enter value for %s (leave blank to skip): ", name))
		if err != nil {
			return err
		}
		spec = spec.Set(name, v)
	}
	logger.Debug("search", "filters", len(spec.Active(ds)), "k", ropt.K, "scaling", ropt.Scaling.String())

	res, err := match.Search(ds, spec, ropt)
	if err != nil {
		return err
	}
	if !res.Exact {
		fmt.Fprintln(out, "No exact matches found. Showing closest available options:")
		return writeTable(out, ds, res)
	}

	fmt.Fprintln(out, "Filtered Data:")
	if err := writeTable(out, ds, res); err != nil {
		return err
	}
	x, err := p.ask("Enter the column name for X-axis for visualization: ")
	if err != nil {
		return err
	}
	y, err := p.ask("Enter the column name for Y-axis for visualization: ")
	if err != nil {
		return err
	}
	return renderScatter(out, ds, res.DatasetRows(), x, y, plotOptions(cmd))
}

// renderScatter draws the plot and reports where it went. Bad axis choices
// are reported, not returned, so the session ends cleanly.
func renderScatter(out io.Writer, ds *dataset.Dataset, rows []dataset.Row, x, y string, opt plot.Options) error {
	fit, err := plot.Scatter(ds, rows, x, y, opt)
	switch {
	case errors.Is(err, plot.ErrUnknownColumn), errors.Is(err, plot.ErrTooFewPoints):
		fmt.Fprintln(out, "No data to visualize or dataset missing required columns.")
		return nil
	case errors.Is(err, plot.ErrNotNumeric):
		fmt.Fprintf(out, "⚠ Cannot plot: %v\n", err)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "✓ Wrote scatter plot to %s\n", opt.Output)
	if fit.Degenerate {
		fmt.Fprintln(out, "  no regression line: every x value is the same")
	} else {
		fmt.Fprintf(out, "  %s = %.4g * %s + %.4g (R² %.3f, n=%d)\n", y, fit.Slope, x, fit.Intercept, fit.R2, fit.N)
	}
	return nil
}

// parseSelection turns "1, 3,x,9" into 0-based column positions, dropping
// entries that are not digits or out of range. Order and repeats are kept.
func parseSelection(s string, ncol int) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > ncol {
			continue
		}
		out = append(out, n-1)
	}
	return out
}
