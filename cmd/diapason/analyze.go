//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/diapason"
	"github.com/farcloser/diapason/internal/output"
)

var errAnalyzeArgs = errors.New("expected exactly one argument: file path")

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Measure loudness, spectrum, and dynamics of one file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "resample",
				Aliases: []string{"r"},
				Usage:   "Decode at this sample rate instead of the native one",
			},
			&cli.BoolFlag{
				Name:    "plan",
				Aliases: []string{"p"},
				Usage:   "Include derived mastering parameters and ffmpeg filter chain",
			},
			&cli.BoolFlag{
				Name:  "no-trim",
				Usage: "Measure leading/trailing silence instead of trimming it",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errAnalyzeArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			buf, err := loadBuffer(ctx, filePath, cmd.Int("resample"))
			if err != nil {
				return err
			}

			opts := diapason.DefaultOptions()
			opts.TrimDisabled = cmd.Bool("no-trim")

			result, err := diapason.Analyze(buf, opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			meta := output.AnalysisToMap(result)

			if cmd.Bool("plan") {
				plan, planErr := diapason.PlanFor(result)
				if planErr != nil {
					return planErr
				}

				meta["plan"] = map[string]any{
					"target_lufs":        plan.TargetLUFS,
					"target_tp":          plan.TargetTP,
					"target_lra":         plan.TargetLRA,
					"low_shelf_gain_db":  plan.LowShelfGainDb,
					"high_shelf_gain_db": plan.HighShelfGainDb,
					"high_pass":          plan.HighPass,
					"comp_ratio":         plan.CompRatio,
					"comp_threshold_db":  plan.CompThresholdDb,
					"stereo_widen":       plan.StereoWiden,
					"filter_chain":       plan.FilterChain(),
				}
			}

			return printData(filePath, meta, cmd.String("format"))
		},
	}
}
