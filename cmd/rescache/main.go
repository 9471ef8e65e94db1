// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

// Command rescache inspects resource archives through the cache.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/woozymasta/rescache"
	"github.com/woozymasta/rescache/zipfile"
)

type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// config holds global flags.
type config struct {
	archives   arrayFlags
	dirs       arrayFlags
	loaders    arrayFlags
	prefix     string
	cacheMB    int
	verbose    bool
	verifyCRC  bool
	rejectDups bool
}

func main() {
	var cfg config

	flag.Var(&cfg.archives, "archive", "ZIP resource archive (repeatable, searched in order)")
	flag.Var(&cfg.dirs, "dir", "Loose development directory (repeatable, searched after archives)")
	flag.Var(&cfg.loaders, "loader", "Loader as pattern=codec, codec is text|lzss|lz4|zstd (repeatable, later wins)")
	flag.StringVar(&cfg.prefix, "prefix", "", "Only expose archive entries under this directory")
	flag.IntVar(&cfg.cacheMB, "cache-mb", rescache.DefaultCacheSizeMB, "Cache budget in MiB")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")
	flag.BoolVar(&cfg.verifyCRC, "verify", false, "Verify CRC-32 of extracted entries")
	flag.BoolVar(&cfg.rejectDups, "reject-duplicates", false, "Fail when a name exists in more than one source")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := rescache.NewTextLogger(level)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	if len(cfg.archives) == 0 && len(cfg.dirs) == 0 {
		fmt.Fprintf(os.Stderr, "error: at least one -archive or -dir must be specified\n")
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Error("command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: rescache [flags] <command> [args]

Commands:
  list               list resources of every source
  match <pattern>    print resource names matching a wildcard pattern
  cat <name>         write a loaded resource to stdout
  preload <pattern>  load matching resources and print cache stats
  extract <dir>      extract every archive into dir

Flags:
`)
	flag.PrintDefaults()
}

// run builds the cache and dispatches one command.
func run(ctx context.Context, cfg config, logger *rescache.Logger, cmd string, args []string) error {
	cache, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close cache", "error", err)
		}
	}()

	if err := cache.Init(); err != nil {
		return err
	}

	switch cmd {
	case "list":
		return listResources(cache)
	case "match":
		if len(args) != 1 {
			return errors.New("match needs one pattern")
		}
		for _, name := range cache.Match(args[0]) {
			fmt.Println(name)
		}
		return nil
	case "cat":
		if len(args) != 1 {
			return errors.New("cat needs one resource name")
		}
		h, err := cache.Get(args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(h.Bytes())
		return err
	case "preload":
		if len(args) != 1 {
			return errors.New("preload needs one pattern")
		}
		return preload(ctx, cache, logger, args[0])
	case "extract":
		if len(args) != 1 {
			return errors.New("extract needs one output directory")
		}
		return extract(ctx, cache, logger, args[0])
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newCache creates an uninitialized cache over configured sources and loaders.
func newCache(cfg config, logger *rescache.Logger) (*rescache.Cache, error) {
	readerOpts := zipfile.ReaderOptions{
		EntryPathPrefix: cfg.prefix,
		VerifyChecksums: cfg.verifyCRC,
	}

	files := make([]rescache.ResourceFile, 0, len(cfg.archives)+len(cfg.dirs))
	for _, path := range cfg.archives {
		files = append(files, rescache.NewZipFile(path, rescache.ZipFileOptions{Reader: readerOpts}))
	}
	for _, dir := range cfg.dirs {
		files = append(files, rescache.NewDirFile(dir, rescache.DirFileOptions{}))
	}

	cache := rescache.New(files, rescache.Options{
		CacheSizeMB:          cfg.cacheMB,
		Logger:               logger,
		RejectDuplicateNames: cfg.rejectDups,
	})

	for _, value := range cfg.loaders {
		l, err := parseLoader(value)
		if err != nil {
			return nil, err
		}
		cache.RegisterLoader(l)
	}

	return cache, nil
}

// parseLoader turns "pattern=codec" into a loader.
func parseLoader(value string) (rescache.Loader, error) {
	pattern, codec, ok := strings.Cut(value, "=")
	if !ok || pattern == "" {
		return nil, fmt.Errorf("invalid loader %q, want pattern=codec", value)
	}

	switch strings.ToLower(codec) {
	case "text":
		return rescache.NewTextLoader(pattern), nil
	case rescache.CodecLZSS:
		return rescache.NewLZSSLoader(pattern, rescache.CodecLoaderOptions{}), nil
	case rescache.CodecLZ4:
		return rescache.NewLZ4Loader(pattern, rescache.CodecLoaderOptions{}), nil
	case rescache.CodecZstd:
		return rescache.NewZstdLoader(pattern, rescache.CodecLoaderOptions{}), nil
	default:
		return nil, fmt.Errorf("unknown codec %q in loader %q", codec, value)
	}
}

// listResources prints name, size, method and source of every resource.
func listResources(cache *rescache.Cache) error {
	for _, f := range cache.Files() {
		z, ok := f.(*rescache.ZipFile)
		if !ok {
			for i := 0; i < f.Len(); i++ {
				name := f.NameAt(i)
				size, _ := f.RawSize(rescache.NewResourceName(name))
				fmt.Printf("%s\t%d\t%s\t%s\n", name, size, "file", f.FileName())
			}
			continue
		}

		for _, e := range z.Reader().Entries() {
			fmt.Printf("%s\t%d\t%s\t%s\n", e.Name, e.UncompressedSize, e.Method, f.FileName())
		}
	}

	return nil
}

// progressFunc logs each new progress decile and cancels once ctx is done.
func progressFunc(ctx context.Context, logger *rescache.Logger) rescache.ProgressFunc {
	last := -10
	return func(percent int, cancel *bool) {
		if percent/10 != last/10 {
			logger.Info("preload progress", "percent", percent)
			last = percent
		}
		*cancel = ctx.Err() != nil
	}
}

// preload loads matching resources, stopping early on interrupt.
func preload(ctx context.Context, cache *rescache.Cache, logger *rescache.Logger, pattern string) error {
	loaded, err := cache.Preload(pattern, progressFunc(ctx, logger))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(struct {
		Pattern string         `json:"pattern"`
		Loaded  int            `json:"loaded"`
		Stats   rescache.Stats `json:"stats"`
	}{pattern, loaded, cache.Stats()}); encErr != nil {
		return encErr
	}

	return err
}

// extract writes every archive into dir; later archives overwrite earlier ones.
func extract(ctx context.Context, cache *rescache.Cache, logger *rescache.Logger, dir string) error {
	for _, f := range cache.Files() {
		z, ok := f.(*rescache.ZipFile)
		if !ok {
			continue
		}

		err := z.Reader().ExtractToDir(ctx, dir, zipfile.ExtractOptions{
			Overwrite: true,
			OnEntryDone: func(entry zipfile.Entry, outputPath string) {
				logger.Debug("extracted", "entry", entry.Name, "path", outputPath)
			},
		})
		if err != nil {
			return fmt.Errorf("extract %s: %w", f.FileName(), err)
		}

		logger.Info("archive extracted", "archive", f.FileName(), "entries", z.Len(), "dir", dir)
	}

	return nil
}
