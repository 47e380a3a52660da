package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/cache"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/config"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/index"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/loader"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/logging"
	"github.com/pulibrary/marc-pd-tool-sub000/internal/normalize"
)

func runIndex(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	registrationPath := fs.String("registrations", "", "path to registration-XML corpus")
	renewalPath := fs.String("renewals", "", "path to renewal-TSV corpus")
	cacheDir := fs.String("cache-dir", "", "cache directory to write the built index into")
	configPath := fs.String("config", "", "YAML config file (optional)")
	fs.Parse(args)

	if *registrationPath == "" || *renewalPath == "" || *cacheDir == "" {
		return fmt.Errorf("index: -registrations, -renewals, and -cache-dir are required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.LevelInfo)

	norm := normalize.New(normalize.Options{
		EnableStemming:              cfg.EnableStemming,
		EnableAbbreviationExpansion: cfg.EnableAbbreviationExpansion,
		DefaultLanguage:             cfg.DefaultLanguage,
	})

	regFile, err := os.Open(*registrationPath)
	if err != nil {
		return err
	}
	defer regFile.Close()
	registrations, err := loader.LoadRegistrations(regFile)
	if err != nil {
		return err
	}

	renFile, err := os.Open(*renewalPath)
	if err != nil {
		return err
	}
	defer renFile.Close()
	renewals, err := loader.LoadRenewals(renFile)
	if err != nil {
		return err
	}

	logger.Info("building registration index: %d publications", len(registrations))
	regIndex := index.BuildParallel(norm, registrations, cfg.NumWorkers)
	logger.Info("building renewal index: %d publications", len(renewals))
	renIndex := index.BuildParallel(norm, renewals, cfg.NumWorkers)

	store, err := cache.Open(*cacheDir)
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.Key(*registrationPath, *renewalPath, fmt.Sprintf("%+v", cfg), 0, 0, cfg.BruteForceMissingYear)
	if err := store.PutIndexer(key+":registration", regIndex); err != nil {
		return err
	}
	if err := store.PutIndexer(key+":renewal", renIndex); err != nil {
		return err
	}

	logger.Info("index build complete: %d registrations, %d renewals cached under key %s",
		regIndex.Len(), renIndex.Len(), key)
	return nil
}
