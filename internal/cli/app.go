package cli

import (
	"context"
	"fmt"

	"mindguard/internal/config"
	"mindguard/internal/logger"
	"mindguard/internal/pipeline"
	"mindguard/internal/reply"
	"mindguard/internal/sentiment"
	"mindguard/internal/storage"

	"github.com/rs/zerolog"
)

// app holds everything a command needs, built once from configuration
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	moods    storage.MoodStore
	pipeline *pipeline.Pipeline
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(ctx, cfg)
}

func newAppFromConfig(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := logger.InitLogger(cfg.Log); err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	log := logger.With("app")

	analyzer, err := sentiment.New(cfg.Sentiment.LexiconFile)
	if err != nil {
		return nil, fmt.Errorf("error loading sentiment lexicon: %w", err)
	}

	moods, err := openMoodStore(ctx, cfg.Mood)
	if err != nil {
		return nil, err
	}

	chatModel, err := reply.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		moods.Close()
		return nil, err
	}
	if chatModel == nil {
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("no API key configured, replies use fixed templates")
	}

	generator, err := reply.NewGenerator(ctx, chatModel,
		reply.WithHistoryTurns(cfg.LLM.HistoryTurns),
		reply.WithLogger(logger.With("reply")),
	)
	if err != nil {
		moods.Close()
		return nil, err
	}

	p, err := pipeline.New(pipeline.Deps{
		Analyzer:     analyzer,
		Moods:        moods,
		Generator:    generator,
		HistoryTurns: cfg.LLM.HistoryTurns,
		Logger:       logger.With("pipeline"),
	})
	if err != nil {
		moods.Close()
		return nil, err
	}

	log.Debug().
		Str("mood_backend", cfg.Mood.Backend).
		Str("llm_provider", cfg.LLM.Provider).
		Bool("llm_available", generator.Available()).
		Msg("app initialized")

	return &app{cfg: cfg, log: log, moods: moods, pipeline: p}, nil
}

func openMoodStore(ctx context.Context, cfg config.MoodConfig) (storage.MoodStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		store, err := storage.NewRedisMoodStore(ctx, cfg.RedisURL,
			storage.WithRedisPrefix(cfg.RedisPrefix),
			storage.WithRedisLogger(logger.With("mood_store")),
		)
		if err != nil {
			return nil, fmt.Errorf("error connecting to mood store: %w", err)
		}
		return store, nil
	default:
		return storage.NewJSONMoodStore(cfg.FilePath(), storage.WithLogger(logger.With("mood_store"))), nil
	}
}

func (a *app) Close() error {
	return a.moods.Close()
}
