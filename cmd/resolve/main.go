package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/seeder/legie-metadata/internal/config"
	"github.com/seeder/legie-metadata/internal/covercache"
	"github.com/seeder/legie-metadata/internal/legie"
	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/transport"
)

func main() {
	var (
		title       string
		authorsFlag string
		idsFlag     string
		noCache     bool
	)
	flag.StringVar(&title, "title", "", "Book or tale title to resolve. Inline identifier:value pairs are honored.")
	flag.StringVar(&authorsFlag, "authors", "", "Comma-separated author names.")
	flag.StringVar(&idsFlag, "identifiers", "", "Comma-separated key=value identifiers, e.g. legie=973,isbn=8071971138.")
	flag.BoolVar(&noCache, "no-cache", false, "Skip the cover cache entirely.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	identifiers := parseIdentifiers(idsFlag)
	authors := parseAuthors(authorsFlag)
	if title == "" && len(authors) == 0 && len(identifiers) == 0 {
		slog.Error("nothing to resolve, pass -title, -authors, or -identifiers")
		os.Exit(2)
	}

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		slog.Warn("failed to load preferences, using defaults", "path", cfg.PrefsPath, "error", err)
	}

	client := transport.NewClient(cfg.HTTPTimeout, cfg.Throttle, logger)
	resolver := legie.NewResolver(cfg.BaseURL, client, p, logger)

	if !noCache {
		covers, err := covercache.Open(cfg.CoverCachePath)
		if err != nil {
			slog.Warn("failed to open cover cache, continuing without it", "path", cfg.CoverCachePath, "error", err)
		} else {
			defer covers.Close()
			resolver = resolver.WithCoverCache(covers)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ResolveTimeout)
	defer cancel()

	records, err := resolver.Resolve(ctx, legie.Query{
		Title:       title,
		Authors:     authors,
		Identifiers: identifiers,
	})
	if err != nil {
		slog.Error("resolution failed", "error", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		slog.Error("failed to encode records", "error", err)
		os.Exit(1)
	}
}

func parseAuthors(raw string) []string {
	var authors []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			authors = append(authors, part)
		}
	}
	return authors
}

func parseIdentifiers(raw string) map[string]string {
	identifiers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || key == "" || value == "" {
			continue
		}
		identifiers[key] = value
	}
	return identifiers
}
