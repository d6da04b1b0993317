package cmd

import (
	cfgpkg "github.com/KaramelBytes/rowmatch/internal/config"
	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/KaramelBytes/rowmatch/internal/match"
	"github.com/KaramelBytes/rowmatch/internal/plot"
	"github.com/spf13/cobra"
)

const defaultPlotOutput = "scatter.png"

// settings returns the loaded config, or an empty one when the command ran
// before (or without) loadConfig.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return &cfgpkg.Global{}
	}
	return cfg
}

// loadOptions merges config values with loading flags that were set.
func loadOptions(cmd *cobra.Command) (dataset.LoadOptions, error) {
	c := settings()
	f := cmd.Flags()

	delim, decimal, thousands, maxRows := c.Delimiter, c.DecimalSeparator, c.ThousandsSeparator, c.MaxRows
	if f.Changed("delimiter") {
		delim = flagDelimiter
	}
	if f.Changed("decimal") {
		decimal = flagDecimal
	}
	if f.Changed("thousands") {
		thousands = flagThousands
	}
	if f.Changed("max-rows") {
		maxRows = flagMaxRows
	}

	opt := dataset.LoadOptions{
		MaxRows:    maxRows,
		Sheet:      flagSheetName,
		SheetIndex: flagSheetIndex,
		Table:      flagTable,
		Logger:     logger,
	}
	var err error
	if opt.Delimiter, err = dataset.ParseDelimiter(delim); err != nil {
		return opt, err
	}
	if opt.Format, err = dataset.ParseNumberFormat(decimal, thousands); err != nil {
		return opt, err
	}
	return opt, nil
}

// rankOptions merges config values with ranking flags that were set. The
// second result reports whether unknown filter columns are an error.
func rankOptions(cmd *cobra.Command) (match.Options, bool, error) {
	c := settings()
	f := cmd.Flags()

	opt := match.Options{K: c.TopK, MissingPenalty: c.MissingPenalty}
	if f.Changed("top-k") {
		opt.K = flagTopK
	}
	if f.Changed("missing-penalty") {
		opt.MissingPenalty = flagMissingPenalty
	}
	scale := c.Scaling
	if f.Changed("scale") {
		scale = flagScale
	}
	var err error
	if opt.Scaling, err = match.ParseScaling(scale); err != nil {
		return opt, false, err
	}
	strict := c.StrictColumns
	if f.Changed("strict") {
		strict = flagStrict
	}
	return opt, strict, nil
}

// plotOptions merges config values with plot flags that were set.
func plotOptions(cmd *cobra.Command) plot.Options {
	c := settings()
	f := cmd.Flags()

	opt := plot.Options{Output: c.PlotOutput, Width: c.PlotWidthIn, Height: c.PlotHeightIn}
	if f.Changed("plot-out") {
		opt.Output = flagPlotOut
	}
	if f.Changed("plot-width") {
		opt.Width = flagPlotWidth
	}
	if f.Changed("plot-height") {
		opt.Height = flagPlotHeight
	}
	if opt.Output == "" {
		opt.Output = defaultPlotOutput
	}
	return opt
}
