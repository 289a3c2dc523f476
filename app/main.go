package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/news-digest/app/api"
	"github.com/lysyi3m/news-digest/app/cfg"
	"github.com/lysyi3m/news-digest/app/digest"
	"github.com/lysyi3m/news-digest/app/feed"
	"github.com/lysyi3m/news-digest/app/summary"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogging(appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("News digest failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting news digest", "version", appCfg.Version, "mode", appCfg.Mode)

	sources, err := feed.LoadSources(appCfg.FeedsFile)
	if err != nil {
		return fmt.Errorf("failed to load feeds: %w", err)
	}
	slog.Info("Loaded feed list", "feeds", len(sources.Feeds))

	slog.Info("Loading summarization model", "model", appCfg.SummaryModel)
	model := summary.NewInferenceClient(summary.InferenceConfig{
		BaseURL:   appCfg.InferenceURL,
		Model:     appCfg.SummaryModel,
		Token:     appCfg.InferenceToken,
		UserAgent: appCfg.UserAgent,
		Timeout:   appCfg.SummaryTimeout,
	})
	summarizer, err := summary.Load(context.Background(), model, appCfg.MaxSummaryInput)
	if err != nil {
		return err
	}
	slog.Info("Summarization model ready", "model", appCfg.SummaryModel)

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}

	builder := digest.NewBuilder(appCfg.Title, sources.Feeds,
		feed.NewReader(httpClient, appCfg.UserAgent, appCfg.Timeout),
		feed.NewContentExtractor(httpClient, appCfg.UserAgent, appCfg.Timeout),
		summarizer)

	renderer, err := digest.NewRenderer()
	if err != nil {
		return err
	}

	switch appCfg.Mode {
	case cfg.ModeServe:
		return serve(appCfg, builder, renderer)
	default:
		return generate(appCfg, builder, renderer)
	}
}

func generate(appCfg *cfg.Cfg, builder *digest.Builder, renderer *digest.Renderer) error {
	doc := builder.Run(context.Background())

	slog.Info("Generating HTML file", "path", appCfg.OutputPath)
	page, err := renderer.Run(doc)
	if err != nil {
		return err
	}

	if err := digest.WriteFile(appCfg.OutputPath, page); err != nil {
		return err
	}

	slog.Info("Successfully generated digest", "path", appCfg.OutputPath, "articles", len(doc.Records))
	return nil
}

func serve(appCfg *cfg.Cfg, builder *digest.Builder, renderer *digest.Renderer) error {
	server := api.NewServer(api.NewHandler(builder, renderer))

	// Each request runs the full pipeline, so the write deadline covers a run
	// where every fetch and model call hits its timeout.
	writeTimeout := builder.MaxRunDuration(appCfg.Timeout, appCfg.SummaryTimeout) + time.Minute

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "write_timeout", writeTimeout, "port", appCfg.Port, "url", fmt.Sprintf("http://localhost:%s/", appCfg.Port))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}
