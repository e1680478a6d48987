package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pvzzle/polywatch/internal/feed"
	"github.com/pvzzle/polywatch/internal/ingest"
	"github.com/pvzzle/polywatch/internal/storage"
	"github.com/pvzzle/polywatch/internal/storage/pg"
	"github.com/pvzzle/polywatch/internal/storage/sqlite"
	"github.com/pvzzle/polywatch/internal/tg"

	tgbot "github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	repo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	feedCl := feed.NewClient(cfg.DataAPIURL)

	b, err := tgbot.New(cfg.TelegramToken,
		tgbot.WithWorkers(2),
		tgbot.WithNotAsyncHandlers(),
	)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}

	tgSvc := tg.NewService(b, cfg.TelegramChatID, repo)

	ing := ingest.New(feedCl, repo, tgSvc, ingest.Config{
		User:     cfg.PolyUser,
		Limit:    cfg.Limit,
		Interval: time.Duration(cfg.PollIntervalSec) * time.Second,
	})

	go func() {
		if err := ing.Run(ctx); err != nil {
			log.Printf("[INGEST] stopped: %v", err)
		}
	}()

	log.Printf("started. user=%s interval=%ds limit=%d store=%s",
		cfg.PolyUser, cfg.PollIntervalSec, cfg.Limit, repo)
	b.Start(ctx)

	return nil
}

func openRepo(ctx context.Context, cfg Config) (storage.Repository, error) {
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool new: %w", err)
		}
		return pg.New(pool), nil
	}

	repo, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
	}
	return repo, nil
}
