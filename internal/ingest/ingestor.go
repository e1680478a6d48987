package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pvzzle/polywatch/internal/feed"
	"github.com/pvzzle/polywatch/internal/storage"
	"github.com/pvzzle/polywatch/internal/tg"
)

type Poller interface {
	FetchActivity(ctx context.Context, user string, limit int) ([]json.RawMessage, error)
}

type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Config struct {
	User     string
	Limit    int
	Interval time.Duration
}

// Ingestor гоняет цикл poll → record → order → notify → sleep.
// Один воркер, циклы не пересекаются: сон начинается после доставки.
type Ingestor struct {
	poller   Poller
	repo     storage.Repository
	notifier Notifier
	cfg      Config

	// подменяется в тестах, чтобы гонять циклы без реальных пауз
	sleep func(ctx context.Context, d time.Duration) error
}

func New(poller Poller, repo storage.Repository, notifier Notifier, cfg Config) *Ingestor {
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	return &Ingestor{
		poller:   poller,
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

// Run крутит циклы до отмены контекста. Любая ошибка цикла превращается
// в best-effort отчёт в тот же канал уведомлений; сам процесс из-за
// одного плохого цикла не останавливается.
func (in *Ingestor) Run(ctx context.Context) error {
	for {
		if cerr := in.runCycle(ctx); cerr != nil {
			in.reportError(ctx, cerr)
		}
		if err := in.sleep(ctx, in.cfg.Interval); err != nil {
			return err
		}
	}
}

func (in *Ingestor) runCycle(ctx context.Context) (cerr *CycleError) {
	defer func() {
		if r := recover(); r != nil {
			cerr = cycleErr(KindInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	items, err := in.poller.FetchActivity(ctx, in.cfg.User, in.cfg.Limit)
	if err != nil {
		kind := KindFetch
		if errors.Is(err, feed.ErrShape) {
			kind = KindShape
		}
		return cycleErr(kind, err)
	}

	batch := make([]storage.ActivityRecord, 0, len(items))
	for _, raw := range items {
		rec, err := feed.Normalize(raw)
		if err != nil {
			// без хэша запись не дедуплицируется — пропускаем, цикл живёт
			log.Printf("[INGEST] skip record: %v", err)
			continue
		}
		batch = append(batch, rec)
	}

	fresh, err := in.repo.RecordBatch(ctx, batch)
	if err != nil {
		return cycleErr(KindStore, err)
	}
	if len(fresh) == 0 {
		return nil
	}

	for _, rec := range SortByTimestamp(fresh) {
		if err := in.notifier.Send(ctx, tg.FormatActivity(rec)); err != nil {
			// at-most-once: запись уже в базе, повторной отправки не будет
			log.Printf("[INGEST] notify %s: %v", rec.TxHash, err)
		}
	}

	log.Printf("[INGEST] recorded %d new of %d fetched", len(fresh), len(items))
	return nil
}

func (in *Ingestor) reportError(ctx context.Context, cerr *CycleError) {
	log.Printf("[INGEST] cycle failed (%s): %v", cerr.Kind, cerr.Err)

	text := fmt.Sprintf("⚠️ Error [%s]: %v", cerr.Kind, cerr.Err)
	if err := in.notifier.Send(ctx, text); err != nil {
		// жаловаться дальше некуда: канал для отчётов и есть notifier
		log.Printf("[INGEST] error report dropped: %v", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
