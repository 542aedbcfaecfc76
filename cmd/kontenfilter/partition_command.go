package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/JonMunkholm/kontenfilter/internal/core"
	"github.com/spf13/cobra"
)

// partitionOutput is the --json form of a partition run.
type partitionOutput struct {
	Input    string       `json:"input"`
	Sheet    string       `json:"sheet"`
	Cleaned  string       `json:"cleaned"`
	Excluded string       `json:"excluded"`
	Summary  core.Summary `json:"summary"`
}

func newPartitionCommand(ctx *commandContext) *cobra.Command {
	var (
		sheet        string
		keywords     []string
		keywordsJSON string
		column       string
		outDir       string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "partition <file.xlsx>",
		Short: "Split a sheet into cleaned and excluded workbooks",
		Long: `Reads one sheet of an .xlsx workbook, excludes every row written in a
foreign script or containing one of the keywords, and writes
cleaned_<name>.xlsx and excluded_<name>.xlsx next to the input
(or into --out). Sheet names are case-sensitive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if keywordsJSON != "" {
				var extra []string
				if err := json.Unmarshal([]byte(keywordsJSON), &extra); err != nil {
					return fmt.Errorf("%w: %v", core.ErrInvalidKeywords, err)
				}
				keywords = append(keywords, extra...)
			}

			input := args[0]
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			svc, err := core.NewService(nil, cfg)
			if err != nil {
				return err
			}
			out, err := svc.Build(core.ProcessRequest{
				FileName:  filepath.Base(input),
				Data:      data,
				Keywords:  keywords,
				SheetName: sheet,
				Column:    column,
			})
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = filepath.Dir(input)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			base := core.SafeFileName(filepath.Base(input))
			result := partitionOutput{
				Input:    input,
				Sheet:    out.Sheet,
				Cleaned:  filepath.Join(outDir, "cleaned_"+base),
				Excluded: filepath.Join(outDir, "excluded_"+base),
				Summary:  out.Partition.Summary(),
			}
			if err := os.WriteFile(result.Cleaned, out.Cleaned, 0o644); err != nil {
				return fmt.Errorf("write cleaned workbook: %w", err)
			}
			if err := os.WriteFile(result.Excluded, out.Excluded, 0o644); err != nil {
				return fmt.Errorf("write excluded workbook: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet to read (default from FILTER_DEFAULT_SHEET)")
	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Keyword to exclude (repeatable)")
	cmd.Flags().StringVar(&keywordsJSON, "keywords-json", "", `Keywords as a JSON array, e.g. '["promo","diskon"]'`)
	cmd.Flags().StringVar(&column, "column", "", "Only inspect this header column")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: alongside the input)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func renderSummary(r partitionOutput) string {
	s := r.Summary
	rows := [][]string{
		{"Total rows", strconv.Itoa(s.TotalRows)},
		{"Kept", strconv.Itoa(s.KeptRows)},
		{"Excluded", strconv.Itoa(s.ExcludedRows)},
		{"  foreign script", strconv.Itoa(s.ForeignScript)},
		{"  keyword match", strconv.Itoa(s.KeywordMatch)},
		{"  both", strconv.Itoa(s.Both)},
	}
	table := renderTable([]string{"Sheet " + r.Sheet, "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
	return table + "\n" + "Cleaned:  " + r.Cleaned + "\n" + "Excluded: " + r.Excluded
}
