package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/beacon/internal/workflow"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the navigation aid record of a single OCR file",
	Long: `Extract runs the full pipeline over one file and prints the resulting
record as JSON. A file that cannot be read still yields a failed record.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	doc, err := workflow.DocumentFromFile(args[0])
	if err != nil {
		return err
	}

	rec := workflow.Execute(cmd.Context(), rt, doc)
	return writeJSON(cmd.OutOrStdout(), rec)
}
