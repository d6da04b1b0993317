package cmd

import (
	"fmt"

	"github.com/KaramelBytes/rowmatch/internal/dataset"
	"github.com/KaramelBytes/rowmatch/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descOutputPath string
	descSampleRows int
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Summarize a dataset's columns, kinds and sample rows",
	Long: `Describe loads a dataset the same way find does and prints each column's inferred
kind (numeric or categorical), missing-value counts, numeric ranges and the most
common categorical values. Use it to see which columns rank by numeric distance.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		md := dataset.Describe(ds, descSampleRows).Markdown()

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of sample rows to include")
}
