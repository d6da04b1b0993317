package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/rowmatch/internal/config"
	"github.com/KaramelBytes/rowmatch/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loading flags (override config if set)
	flagDelimiter  string
	flagDecimal    string
	flagThousands  string
	flagMaxRows    int
	flagSheetName  string
	flagSheetIndex int
	flagTable      string

	// Ranking flags (override config if set)
	flagTopK           int
	flagScale          string
	flagStrict         bool
	flagMissingPenalty float64

	// Plot flags (override config if set)
	flagPlotOut    string
	flagPlotWidth  float64
	flagPlotHeight float64

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger writes to stderr; quiet (warn) unless --debug or log_level says otherwise.
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "rowmatch",
	Short: "rowmatch: filter a dataset by column values or find the closest rows",
	Long: `rowmatch loads a CSV/TSV, XLSX or SQLite table, keeps the rows that exactly match
the column values you give, and when nothing matches shows the closest rows ranked by
a summed per-column distance. Matching rows can be drawn as a scatter plot.

Run without a subcommand for the interactive prompt flow.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplore(cmd, "")
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.rowmatch/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")

	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	pf.StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	pf.IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	pf.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load")
	pf.IntVar(&flagSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	pf.StringVar(&flagTable, "table", "", "SQLite: table to load (default: the only table)")

	pf.IntVarP(&flagTopK, "top-k", "k", 0, "number of closest rows to show when nothing matches exactly (default 5)")
	pf.StringVar(&flagScale, "scale", "", "numeric distance scaling: none | range")
	pf.BoolVar(&flagStrict, "strict", false, "fail on filter columns that are not in the dataset")
	pf.Float64Var(&flagMissingPenalty, "missing-penalty", 0, "distance for a missing numeric cell (default: rank last)")

	pf.StringVar(&flagPlotOut, "plot-out", "", "scatter plot output file; extension picks png, svg or pdf")
	pf.Float64Var(&flagPlotWidth, "plot-width", 0, "scatter plot width in inches")
	pf.Float64Var(&flagPlotHeight, "plot-height", 0, "scatter plot height in inches")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: %v\n", err)
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = logging.New(rootCmd.ErrOrStderr(), level)
	logger.Debug("config loaded", "file", cfgFile, "top_k", cfg.TopK, "scaling", cfg.Scaling)
}
