package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"

	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

// ReportUsecase reads the handed-off values of a run and serializes them as they are.
type ReportUsecase struct {
	store HandoffStore
	out   io.Writer
}

// NewReportUsecase creates a ReportUsecase. A nil out discards the serialized report.
func NewReportUsecase(store HandoffStore, out io.Writer) *ReportUsecase {
	if out == nil {
		out = io.Discard
	}
	return &ReportUsecase{store: store, out: out}
}

// Values returns the handed-off values of runID.
func (ru *ReportUsecase) Values(ctx context.Context, runID string) (map[string]string, error) {
	return ru.store.Get(ctx, runID)
}

// Report writes the handed-off values of runID to the configured writer as indented JSON.
func (ru *ReportUsecase) Report(ctx context.Context, runID string) error {
	values, err := ru.store.Get(ctx, runID)
	if err != nil {
		return err
	}

	b, err := marshalOrdered(values)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	if _, err := ru.out.Write(buf.Bytes()); err != nil {
		return err
	}

	slog.Info("daily report", "run_id", runID, "values", len(values))
	return nil
}

// orderedKeys returns the hand-off keys first, in record order, then any other keys sorted.
func orderedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for _, k := range klineentity.HandoffKeys {
		if _, ok := values[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range values {
		if !slices.Contains(klineentity.HandoffKeys, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

// marshalOrdered encodes values as a JSON object whose keys follow orderedKeys.
func marshalOrdered(values map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range orderedKeys(values) {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
