package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"fox_trade/internal/feature/kline/domain"
	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

// HandoffStore は実行ID単位のキー/値受け渡しチャネルです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type HandoffStore interface {
	Put(ctx context.Context, runID string, values map[string]string) error
	// Get returns ErrHandoffNotFound when nothing was written for runID.
	Get(ctx context.Context, runID string) (map[string]string, error)
}

// KLineFetcher はK線取得のユースケースを抽象化します。
type KLineFetcher interface {
	Fetch(ctx context.Context, q klineentity.Query) (klineentity.FetchResult, error)
}

// ExtractUsecase は指定日のK線を取得し、先頭レコードの11項目を受け渡しチャネルに書き込みます。
type ExtractUsecase struct {
	fetcher KLineFetcher
	store   HandoffStore
}

// NewExtractUsecase は新しい ExtractUsecase を作成します。
func NewExtractUsecase(fetcher KLineFetcher, store HandoffStore) *ExtractUsecase {
	return &ExtractUsecase{fetcher: fetcher, store: store}
}

// Extract fetches q and hands the first record's fields off under runID.
// It returns domain.ErrSymbolNotFound when the code cannot be resolved upstream or no
// record exists for the date, and domain.ErrMalformedRecord when the record is short.
func (eu *ExtractUsecase) Extract(ctx context.Context, runID string, q klineentity.Query) error {
	res, err := eu.fetcher.Fetch(ctx, q)
	if err != nil {
		return err
	}
	if !res.Found || len(res.Records) == 0 {
		return fmt.Errorf("%w: %s on %s", domain.ErrSymbolNotFound, q.Code, q.Date)
	}

	fields, err := klineentity.SplitFields(res.Records[0])
	if err != nil {
		return err
	}
	if err := eu.store.Put(ctx, runID, fields); err != nil {
		return err
	}

	slog.Info("kline metrics handed off", "run_id", runID, "code", q.Code, "secid", res.SecID.String(), "date", fields["date"])
	return nil
}
