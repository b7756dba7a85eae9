package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/config"
	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/download"
	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/extract"
	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/platform"
	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const settingsFile = "settings.json"

func main() {
	fmt.Printf("URL VIDS Extract v%s starting...\n", version)

	// A .env file is optional; absence is not an error
	_ = godotenv.Load()

	settings := config.NewSettings(settingsFile)
	settings.ApplyEnvOverrides()

	pageURL := flag.String("url", "", "web page to scan for video links (required)")
	dir := flag.String("dir", "", "download directory (defaults to the settings file, then ~/Downloads)")
	limit := flag.Int("limit", 0, "maximum parallel downloads (defaults to the settings file)")
	maxVideos := flag.Int("max", -1, "maximum video links to extract, 0 means unlimited (defaults to the settings file)")
	flag.Parse()

	if *pageURL == "" {
		fmt.Println("error: -url is required")
		flag.Usage()
		os.Exit(1)
	}
	if *dir != "" {
		settings.SetDownloadDirectory(*dir)
	}
	if *limit > 0 {
		settings.SetMaxParallelDownloads(*limit)
	}
	if *maxVideos >= 0 {
		settings.SetMaxVideos(*maxVideos)
	}

	// Interrupt aborts in-flight transfers; partially written files remain
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, settings, *pageURL); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, settings *config.Settings, pageURL string) error {
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		return fmt.Errorf("failed to ensure downloads dir: %w", err)
	}

	client := &http.Client{Timeout: settings.GetRequestTimeout()}
	extractor := extract.NewExtractor(client, settings.GetUserAgent())

	body, err := extractor.FetchPage(ctx, pageURL)
	if err != nil {
		return err
	}
	if err := extract.SavePage(body, config.DefaultPageFile); err != nil {
		log.Printf("warning: %v", err)
	} else {
		fmt.Printf("Page source saved to %s.\n", config.DefaultPageFile)
	}

	links, err := extract.VideoLinks(body, pageURL, settings.GetMaxVideos())
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No video links found.")
		return nil
	}

	if err := extract.WriteGallery(links, config.DefaultGalleryFile); err != nil {
		log.Printf("warning: %v", err)
	} else {
		fmt.Printf("Videos saved to %s.\n", config.DefaultGalleryFile)
	}

	selected := ui.NewSelector(os.Stdin, os.Stdout).Select(links)
	if len(selected) == 0 {
		fmt.Println("No videos selected.")
		return nil
	}

	service := download.NewService(downloadsDir, settings.GetMaxParallelDownloads())
	service.SetHTTPClient(client)
	service.SetChunkSize(settings.GetChunkSize())
	service.SetUserAgent(settings.GetUserAgent())
	service.SetReporter(download.NewBarReporter())

	summary, err := service.DownloadAll(ctx, selected)
	if err != nil {
		return err
	}

	ui.PrintSummary(os.Stdout, summary)
	return nil
}
