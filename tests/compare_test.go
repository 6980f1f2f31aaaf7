package tests_test

import (
	"path/filepath"
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"

	"github.com/farcloser/diapason/tests/testutils"
)

func TestCompare(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "a file against itself reports no significant change",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				file := data.Labels().Get("file")

				return helpers.Command("compare", file, file)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("no-significant-change"),
						expectContains("loudness_db"),
					),
				}
			},
		},
		{
			Description: "differing masters produce a full delta report",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("before", agar.LowLoudnessQuiet(data, helpers))
				data.Labels().Set("after", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("compare", data.Labels().Get("before"), data.Labels().Get("after"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("before"),
						expectContains("after"),
						expectContains("suggestion"),
						expectContains("label"),
						expectNotContains("uncategorized"),
					),
				}
			},
		},
		{
			Description: "differing sample rates resample to a common rate",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("before", agar.Genuine16bit44k(data, helpers))
				data.Labels().Set("after", agar.Genuine24bit96k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("compare", data.Labels().Get("before"), data.Labels().Get("after"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains("loudness_db"),
				}
			},
		},
		{
			Description: "outdir writes report, band CSV, and suggestion artifacts",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				file := data.Labels().Get("file")
				outDir := filepath.Join(filepath.Dir(file), "report")

				return helpers.Command("compare", "--outdir", outDir, file, file)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectContains("no-significant-change"),
				}
			},
		},
		{
			Description: "a single argument fails",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("compare", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeGenericFail,
				}
			},
		},
	}

	testCase.Run(t)
}
