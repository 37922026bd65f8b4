package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content files and report errors and warnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newResolver()
		if err != nil {
			return err
		}

		report := newValidator(r).Run()
		report.Print(os.Stdout, settings.Colors)

		if report.ExitCode() != 0 {
			return errors.Errorf("validation failed with %d error(s)", len(report.Errors()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
