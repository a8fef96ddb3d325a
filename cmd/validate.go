package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bible-scraper/model"
	"bible-scraper/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document]",
	Short: "Check a document against the book manifest and an optional baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

type validateArgs struct {
	baseline string
}

var vArgs validateArgs

func init() {
	validateCmd.Flags().StringVar(&vArgs.baseline, "baseline", "", "reference document to compare counts and verses with")
	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := cfg.Output
	if len(args) == 1 {
		path = args[0]
	}
	doc, shape, err := decodeFile(path)
	if err != nil {
		return err
	}

	var baseline model.Bible
	if vArgs.baseline != "" {
		if baseline, _, err = decodeFile(vArgs.baseline); err != nil {
			return err
		}
	}

	report := validator.Validate(path, doc, shape, vArgs.baseline, baseline)
	report.Render(cmd.OutOrStdout())
	if !report.OK() {
		return fmt.Errorf("%s is not valid", path)
	}
	return nil
}

func decodeFile(path string) (model.Bible, []validator.ShapeIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %v", err)
	}
	doc, shape, err := validator.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc, shape, nil
}
