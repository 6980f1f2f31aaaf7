//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/diapason"
	"github.com/farcloser/diapason/internal/output"
)

var errCompareArgs = errors.New("expected exactly two arguments: before and after file paths")

const (
	reportFileName     = "report.json"
	bandsFileName      = "bands_1_3_octave.csv"
	suggestionFileName = "preset_suggestion.json"

	outFilePerm = 0o644
	outDirPerm  = 0o755
)

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two masters of the same material",
		ArgsUsage: "<before> <after>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "resample",
				Aliases: []string{"r"},
				Usage:   "Decode both files at this sample rate",
			},
			&cli.StringFlag{
				Name:    "outdir",
				Aliases: []string{"o"},
				Usage:   "Write report.json, band CSV, and suggestion JSON into this directory",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("%w: got %d", errCompareArgs, cmd.NArg())
			}

			beforePath := cmd.Args().Get(0)
			afterPath := cmd.Args().Get(1)

			before, after, err := loadPair(ctx, beforePath, afterPath, cmd.Int("resample"))
			if err != nil {
				return err
			}

			report, err := diapason.Compare(before, after, diapason.DefaultOptions())
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			if outDir := cmd.String("outdir"); outDir != "" {
				if err = writeArtifacts(outDir, report); err != nil {
					return err
				}
			}

			object := beforePath + " vs " + afterPath

			return printData(object, output.ReportToMap(report), cmd.String("format"))
		},
	}
}

// writeArtifacts persists the machine-readable comparison outputs.
func writeArtifacts(outDir string, report *diapason.ComparisonReport) error {
	if err := os.MkdirAll(outDir, outDirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	if err := writeJSON(filepath.Join(outDir, reportFileName), output.ReportToMap(report)); err != nil {
		return err
	}

	if err := writeJSON(
		filepath.Join(outDir, suggestionFileName),
		output.SuggestionToMap(report.Suggestion),
	); err != nil {
		return err
	}

	bandsFile, err := os.Create(filepath.Join(outDir, bandsFileName)) //nolint:gosec // user-chosen output directory
	if err != nil {
		return fmt.Errorf("creating band CSV: %w", err)
	}
	defer bandsFile.Close()

	return output.WriteBandCSV(bandsFile, report)
}

func writeJSON(filePath string, meta map[string]any) error {
	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", filePath, err)
	}

	if err = os.WriteFile(filePath, append(payload, '\n'), outFilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}

	return nil
}
