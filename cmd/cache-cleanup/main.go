package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/seeder/legie-metadata/internal/config"
	"github.com/seeder/legie-metadata/internal/covercache"
)

func main() {
	var apply bool
	flag.BoolVar(&apply, "apply", false, "Apply cleanup changes. Without this flag, the command is a dry-run preview.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	covers, err := covercache.Open(cfg.CoverCachePath)
	if err != nil {
		slog.Error("failed to open cover cache", "path", cfg.CoverCachePath, "error", err)
		os.Exit(1)
	}
	defer covers.Close()

	coverCount, isbnCount, err := covers.Counts()
	if err != nil {
		slog.Error("failed to count cache rows", "error", err)
		os.Exit(1)
	}
	slog.Info("cover cache contents", "cover_rows", coverCount, "isbn_mappings", isbnCount)

	orphans, err := covers.OrphanISBNs()
	if err != nil {
		slog.Error("failed to list orphaned isbn mappings", "error", err)
		os.Exit(1)
	}

	if len(orphans) == 0 {
		slog.Info("no orphaned isbn mappings found; nothing to clean")
		return
	}

	for _, isbn := range orphans {
		slog.Info("orphaned isbn mapping detected", "isbn", isbn)
	}

	if !apply {
		slog.Info("dry-run complete", "orphaned_isbn_mappings", len(orphans))
		return
	}

	deleted, err := covers.DeleteOrphanISBNs()
	if err != nil {
		slog.Error("failed to delete orphaned isbn mappings", "error", err)
		os.Exit(1)
	}

	slog.Info("cleanup completed", "deleted_isbn_mappings", deleted)
}
