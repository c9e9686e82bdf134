package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/woocrawl"
)

// UpsertFunc stores one item and reports whether it was created.
type UpsertFunc[T any] func(ctx context.Context, item T) (bool, error)

// Upsert stores item and records the result in stats. An identity
// conflict, raised when a concurrent writer inserted the same identity
// first, is retried once as an update: the conflicting row proves the
// identity exists, so the retry is never counted as created. Any remaining
// failure is counted as an error and returned.
func Upsert[T any](ctx context.Context, item T, upsert UpsertFunc[T], stats *woocrawl.BatchStats, logger *slog.Logger) error {
	created, err := upsert(ctx, item)
	if woocrawl.ErrorCode(err) == woocrawl.ECONFLICT {
		discardLogger(logger).Debug("retry upsert after conflict", "err", err)
		_, err = upsert(ctx, item)
		created = false
	}
	if err != nil {
		stats.Errors++
		return err
	}
	stats.Record(created)
	return nil
}

func discardLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
