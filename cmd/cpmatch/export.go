package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/domain"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/export"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/loader"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/logging"
)

func runExport(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	resultDir := fs.String("result-dir", ".", "directory holding batch-*_result.gob files")
	outPath := fs.String("out", "results.csv", "output path (.csv or .json)")
	format := fs.String("format", "csv", "output format: csv or json")
	fs.Parse(args)

	logger := logging.New(logging.LevelInfo)

	matches, err := filepath.Glob(filepath.Join(*resultDir, "batch-*_result.gob"))
	if err != nil {
		return fmt.Errorf("export: glob result files: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("export: no result files found in %s", *resultDir)
	}

	var all []domain.Publication
	for _, path := range matches {
		pubs, err := loader.ReadResultFile(path)
		if err != nil {
			return err
		}
		all = append(all, pubs...)
	}
	export.Sort(all)
	logger.Info("exporting %d publications from %d result files", len(all), len(matches))

	f, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("export: create output %s: %w", *outPath, err)
	}
	defer f.Close()

	switch *format {
	case "csv":
		err = export.WriteCSV(f, all)
	case "json":
		err = export.WriteJSON(f, all)
	default:
		return fmt.Errorf("export: unknown format %q (want csv or json)", *format)
	}
	if err != nil {
		return err
	}
	logger.Info("wrote %s", *outPath)
	return nil
}
