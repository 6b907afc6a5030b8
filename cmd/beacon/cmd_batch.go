package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/internal/workflow"
)

var batchFlags struct {
	pattern string
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir|files...>",
	Short: "Extract records from many OCR files",
	Long: `Batch processes files sequentially and prints every record followed by
the status tally. A directory argument is walked recursively for files
matching --pattern.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFlags.pattern, "pattern", documents.DefaultImportPattern, "File name pattern for directory arguments")
}

func runBatch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	docs, err := collectDocuments(args, batchFlags.pattern)
	if err != nil {
		return err
	}

	result := workflow.ExecuteBatch(cmd.Context(), rt, docs)
	return writeJSON(cmd.OutOrStdout(), result)
}

// collectDocuments expands directory arguments and describes every file.
func collectDocuments(args []string, pattern string) ([]workflow.Document, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		matched, err := documents.MatchFiles(arg, pattern)
		if err != nil {
			return nil, err
		}
		paths = append(paths, matched...)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no files matching %q", pattern)
	}

	docs := make([]workflow.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := workflow.DocumentFromFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
