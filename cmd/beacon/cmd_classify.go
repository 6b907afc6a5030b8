package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/beacon/internal/workflow"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Print the document type and extraction strategy of an OCR file",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	doc, err := workflow.DocumentFromFile(args[0])
	if err != nil {
		return err
	}

	result, err := workflow.Classify(rt, doc)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), result)
}
