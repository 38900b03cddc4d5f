package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unalkalkan/PaperVoice/internal/app"
	"github.com/unalkalkan/PaperVoice/internal/config"
	"github.com/unalkalkan/PaperVoice/internal/console"
	"github.com/unalkalkan/PaperVoice/internal/health"
	"github.com/unalkalkan/PaperVoice/internal/intake"
	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/parser"
	"github.com/unalkalkan/PaperVoice/internal/provider"
	"github.com/unalkalkan/PaperVoice/internal/speech"
	"github.com/unalkalkan/PaperVoice/internal/storage"
	"github.com/unalkalkan/PaperVoice/internal/summarize"
	"github.com/unalkalkan/PaperVoice/pkg/types"
	"golang.org/x/sync/errgroup"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.App.LogLevel)
	ctx := context.Background()
	l.Info(ctx, "Starting PaperVoice v%s", version)

	store, err := storage.NewAdapter(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create storage adapter: %v", err)
	}
	defer store.Close()
	l.Info(ctx, "Storage adapter initialized: %s", cfg.Storage.Adapter)

	registry := provider.NewRegistry()
	if err := registry.InitializeProviders(cfg.Providers, l); err != nil {
		log.Fatalf("Failed to initialize providers: %v", err)
	}
	defer registry.Close()
	l.Info(ctx, "Providers initialized: LLM %v, TTS %v", registry.ListLLM(), registry.ListTTS())

	var summarizer summarize.Summarizer
	if llm, err := registry.GetLLM(cfg.Summarizer.Provider); err != nil {
		l.Error(ctx, "Summarizer unavailable: %v", err)
	} else {
		summarizer = summarize.New(llm, cfg.Summarizer.Model, cfg.Summarizer.Temperature, l)
	}

	voice, err := speech.NewVoice(cfg.Speech, registry, l)
	if err != nil {
		l.Error(ctx, "Speech unavailable: %v", err)
	}
	player := speech.NewController(voice, l)
	defer player.Close()

	checker := health.NewChecker(version)
	checker.Register(health.CheckSummarizer, health.CredentialCheck(summarizer != nil && config.HasCredential(cfg)))
	checker.Register(health.CheckSpeech, health.SpeechCheck(player.Available()))
	checker.Register(health.CheckStorage, health.StorageCheck(store, 5*time.Second))

	lang, _ := types.ParseLanguage(cfg.App.Language)
	files := intake.New(store, l)

	controller := app.New(app.Deps{
		Opener:     files,
		Extractor:  parser.NewPDFParser(),
		Summarizer: summarizer,
		Speaker:    player,
		Logger:     l,
		Language:   lang,
		Report:     checker.RunChecks(ctx),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return console.New(controller, files, checker, os.Stdin, os.Stdout, l).Run(gctx)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			l.Info(gctx, "Received %s, shutting down", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Error(ctx, "Session ended with error: %v", err)
		os.Exit(1)
	}
}
