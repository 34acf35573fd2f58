package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/EricDisero/stemfetch/internal/audio"
	"github.com/EricDisero/stemfetch/internal/config"
	"github.com/EricDisero/stemfetch/internal/download"
	shttp "github.com/EricDisero/stemfetch/internal/http"
	ioutils "github.com/EricDisero/stemfetch/internal/io"
	"github.com/EricDisero/stemfetch/internal/model"
	"github.com/EricDisero/stemfetch/internal/save"
	"github.com/EricDisero/stemfetch/internal/splitter"
	"github.com/EricDisero/stemfetch/internal/store"
)

func main() {
	// Command line flags
	var (
		songFlag     = flag.String("song", "", "Song name the stems were separated from")
		stemsFlag    = flag.String("stems", "", "Comma-separated subset of stems to retrieve (default: all)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		resolveFlag  = flag.String("resolve-url", "", "Splitter resolve endpoint (overrides config)")
		cleanupFlag  = flag.String("cleanup-url", "", "Splitter cleanup endpoint (overrides config)")
		bucketFlag   = flag.String("bucket", "", "Bucket URL for direct-bucket mode, e.g. s3://stem-batches?region=us-west-2")
		playlistFlag = flag.Bool("playlist", false, "Create an M3U playlist for the batch")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	song := *songFlag
	if song == "" && flag.NArg() > 0 {
		song = flag.Arg(0)
	}
	if song == "" {
		fmt.Println("Stemfetch - Retrieve separated stems from the splitter")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  stemfetch -song <name> [options]")
		fmt.Println("  stemfetch <name> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: stemfetch-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = filepath.Join(*outputFlag, "{song}")
	}
	if *resolveFlag != "" {
		settings.ResolveURL = *resolveFlag
	}
	if *cleanupFlag != "" {
		settings.CleanupURL = *cleanupFlag
	}
	if *bucketFlag != "" {
		settings.BucketURL = *bucketFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}

	if settings.BucketURL == "" && settings.ResolveURL == "" {
		fmt.Fprintln(os.Stderr, "Error: no resolve endpoint or bucket configured (use -resolve-url or -bucket)")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Build the manifest, optionally narrowed to the requested stems.
	specs := model.StandardStems()
	if *stemsFlag != "" {
		specs = selectSpecs(specs, *stemsFlag)
		if len(specs) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no known stems in %q\n", *stemsFlag)
			os.Exit(1)
		}
	}
	manifest := model.NewManifest(song, specs, settings.ToPathConfig())

	// Pick resolve/cleanup backend: direct bucket when configured,
	// otherwise the splitter service endpoints.
	var (
		resolver download.Resolver
		cleaner  download.Cleaner
	)

	httpClient := shttp.NewClient(settings.NetworkTimeout())

	if settings.BucketURL != "" {
		bucket, err := blob.OpenBucket(ctx, settings.BucketURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
			os.Exit(1)
		}
		defer bucket.Close()

		backend := store.NewBucket(bucket, settings.SignedURLExpiry())
		resolver, cleaner = backend, backend
	} else {
		service := splitter.NewClient(httpClient, settings.ResolveURL, settings.CleanupURL)
		resolver, cleaner = service, service
	}

	saver := save.NewFileSaver(httpClient, settings.MaxConcurrentTransfers)
	saver.OnResult = func(stem *model.Stem, err error) {
		if err != nil {
			fmt.Printf("! transfer failed for %s: %v\n", stem.Name, err)
			return
		}
		fmt.Printf("+ saved %s\n", filepath.Base(stem.Path))
	}

	printEvent := func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "  "
		switch event.Level {
		case download.LevelError:
			prefix = "x "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "+ "
		case download.LevelInfo:
			prefix = "> "
		}

		fmt.Println(prefix + event.Message)
	}

	scheduler := download.NewScheduler(saver, settings.Stagger())
	scheduler.OnEvent = printEvent

	controller := download.NewController(resolver, cleaner, scheduler,
		settings.MaxAttempts, settings.RetryDelay(), logger)
	controller.OnEvent = printEvent

	fmt.Printf("Retrieving %d stems for %q (batch %s)\n\n", len(manifest.Stems), song, manifest.BatchID)

	terminal, outcome, err := controller.Start(ctx, manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := saver.Wait(); err != nil && ctx.Err() != nil {
		fmt.Println("\nRetrieval cancelled.")
		os.Exit(130)
	}

	if settings.ModifyTags {
		tagger := audio.NewTagger(audio.DefaultTagConfig())
		for _, name := range outcome.Succeeded {
			stem := manifest.Stem(name)
			if stem == nil || !audio.Taggable(stem) {
				continue
			}
			if err := tagger.TagStem(stem); err != nil {
				logger.Warn("tagging failed", "stem", name, "error", err)
			}
		}
	}

	if settings.CreatePlaylist && len(outcome.Succeeded) > 0 {
		creator := audio.NewPlaylistCreator(settings.M3UExtended)
		content := creator.CreatePlaylist(manifest)
		path := creator.PlaylistPath(manifest)
		if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
			logger.Warn("playlist creation failed", "path", path, "error", err)
		} else {
			fmt.Printf("+ created playlist %s\n", filepath.Base(path))
		}
	}

	fmt.Println()
	fmt.Printf("%s: %d/%d stems saved to %s\n", terminal, len(outcome.Succeeded), outcome.Total, manifest.Dir)
	if len(outcome.Failed) > 0 {
		fmt.Printf("  failed: %s\n", strings.Join(outcome.Failed, ", "))
		os.Exit(1)
	}
}

// selectSpecs filters the standard stems down to the comma-separated
// names in list, preserving standard order.
func selectSpecs(specs []model.StemSpec, list string) []model.StemSpec {
	wanted := make(map[string]bool)
	for _, name := range strings.Split(list, ",") {
		wanted[strings.TrimSpace(name)] = true
	}

	var selected []model.StemSpec
	for _, spec := range specs {
		if wanted[spec.Name] {
			selected = append(selected, spec)
		}
	}
	return selected
}
