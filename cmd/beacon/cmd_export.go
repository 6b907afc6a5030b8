package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/beacon/internal/aids"
	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/internal/workflow"
)

var exportFlags struct {
	out     string
	pattern string
}

var exportCmd = &cobra.Command{
	Use:   "export <dir|files...>",
	Short: "Extract OCR files and write the records to an XLSX workbook",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.out, "out", "o", "aids.xlsx", "Output workbook path")
	f.StringVar(&exportFlags.pattern, "pattern", documents.DefaultImportPattern, "File name pattern for directory arguments")
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	docs, err := collectDocuments(args, exportFlags.pattern)
	if err != nil {
		return err
	}

	result := workflow.ExecuteBatch(cmd.Context(), rt, docs)

	f, err := os.Create(exportFlags.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportFlags.out, err)
	}

	if err := aids.WriteXLSX(f, result.Records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportFlags.out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(result.Records), exportFlags.out)
	return nil
}
