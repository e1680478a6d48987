// Генератор нагрузки на хранилище активности: пишет случайные батчи и
// читает свежие записи, меряет латентности. Гонять против боевой базы
// не стоит.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pvzzle/polywatch/internal/storage"
	"github.com/pvzzle/polywatch/internal/storage/pg"
	"github.com/pvzzle/polywatch/internal/storage/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

func main() {
	var (
		dsn       = flag.String("dsn", "", "Postgres DSN (mutually exclusive with -db)")
		dbPath    = flag.String("db", "", "sqlite path (mutually exclusive with -dsn)")
		dur       = flag.Duration("dur", 30*time.Second, "test duration")
		rps       = flag.Int("rps", 200, "target ops per second")
		workers   = flag.Int("workers", 16, "concurrent workers")
		batchSize = flag.Int("batch", 20, "records per write batch")
		rwRatio   = flag.Int("rw", 5, "reads per 1 write")
		readLimit = flag.Int("read-limit", 10, "ListRecent limit")
	)
	flag.Parse()

	ctx := context.Background()

	repo, err := openRepo(ctx, *dsn, *dbPath)
	if err != nil {
		panic(err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		panic(err)
	}

	fmt.Printf("starting load: dur=%s rps=%d workers=%d batch=%d rw=%d\n",
		*dur, *rps, *workers, *batchSize, *rwRatio)

	res := runPhase(ctx, repo, *workers, *rps, *dur, *rwRatio, *batchSize, *readLimit)
	printReport(res)
}

func openRepo(ctx context.Context, dsn, dbPath string) (storage.Repository, error) {
	switch {
	case dsn != "" && dbPath != "":
		return nil, fmt.Errorf("use either -dsn or -db, not both")
	case dsn != "":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pg.New(pool), nil
	case dbPath != "":
		return sqlite.Open(dbPath)
	default:
		return nil, fmt.Errorf("-dsn or -db is required")
	}
}

type results struct {
	totalOps   uint64
	readOps    uint64
	writeOps   uint64
	errOps     uint64
	latencies  []time.Duration
	startedAt  time.Time
	finishedAt time.Time
}

func runPhase(ctx context.Context, repo storage.Repository, workers, rps int, dur time.Duration, rwRatio, batchSize, readLimit int) *results {
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	res := &results{startedAt: time.Now()}
	var mu sync.Mutex

	deadline := time.Now().Add(dur)
	pctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var opSeq uint64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			rnd := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for {
				if err := limiter.Wait(pctx); err != nil {
					return
				}

				isWrite := atomic.AddUint64(&opSeq, 1)%uint64(rwRatio+1) == 0

				start := time.Now()
				var err error
				if isWrite {
					_, err = repo.RecordBatch(pctx, randomBatch(rnd, batchSize))
					atomic.AddUint64(&res.writeOps, 1)
				} else {
					_, err = repo.ListRecent(pctx, readLimit)
					atomic.AddUint64(&res.readOps, 1)
				}
				took := time.Since(start)

				atomic.AddUint64(&res.totalOps, 1)
				if err != nil {
					if pctx.Err() != nil {
						return
					}
					atomic.AddUint64(&res.errOps, 1)
					continue
				}

				mu.Lock()
				res.latencies = append(res.latencies, took)
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	res.finishedAt = time.Now()
	return res
}

func randomBatch(rnd *rand.Rand, n int) []storage.ActivityRecord {
	const hexdigits = "0123456789abcdef"

	out := make([]storage.ActivityRecord, 0, n)
	for i := 0; i < n; i++ {
		h := make([]byte, 64)
		for j := range h {
			h[j] = hexdigits[rnd.Intn(len(hexdigits))]
		}
		hash := "0x" + string(h)

		rec := storage.ActivityRecord{
			TxHash:    hash,
			Timestamp: time.Now().Unix() - int64(rnd.Intn(3600)),
			Type:      "TRADE",
			Side:      []string{"BUY", "SELL"}[rnd.Intn(2)],
			Price:     rnd.Float64(),
			Size:      rnd.Float64() * 100,
			UsdcSize:  rnd.Float64() * 50,
			Raw:       json.RawMessage(fmt.Sprintf(`{"transactionHash":%q}`, hash)),
		}
		out = append(out, rec)
	}
	return out
}

func printReport(res *results) {
	elapsed := res.finishedAt.Sub(res.startedAt)

	sort.Slice(res.latencies, func(i, j int) bool { return res.latencies[i] < res.latencies[j] })

	pct := func(p float64) time.Duration {
		if len(res.latencies) == 0 {
			return 0
		}
		idx := int(float64(len(res.latencies)-1) * p)
		return res.latencies[idx]
	}

	fmt.Printf("\n--- report ---\n")
	fmt.Printf("elapsed: %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("ops: total=%d reads=%d writes=%d errors=%d\n",
		res.totalOps, res.readOps, res.writeOps, res.errOps)
	if elapsed > 0 {
		fmt.Printf("throughput: %.1f ops/s\n", float64(res.totalOps)/elapsed.Seconds())
	}
	fmt.Printf("latency: p50=%s p95=%s p99=%s max=%s\n",
		pct(0.50), pct(0.95), pct(0.99), pct(1.0))
}
