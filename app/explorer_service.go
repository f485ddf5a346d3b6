// Package app wires the pure analysis logic to the result store and exposes
// the operations the dashboard and the JSON API share.
package app

import (
	"context"
	"time"

	"cellscope/domain/analysis"
	"cellscope/internal/errors"
	"cellscope/internal/metrics"
	"cellscope/ports"
)

// ExplorerService runs the selection→filter→classify→view pipeline against
// a result store. It is stateless; every call carries the full selection.
type ExplorerService struct {
	store ports.ResultStorePort
}

// NewExplorerService creates an explorer service over the given store.
func NewExplorerService(store ports.ResultStorePort) *ExplorerService {
	return &ExplorerService{store: store}
}

// DGEView is the recomputed volcano-tab state for one selection.
type DGEView struct {
	Rows       []analysis.DGERecord      `json:"rows"`
	Volcano    analysis.VolcanoView      `json:"volcano"`
	Summary    analysis.SelectionSummary `json:"summary"`
	Thresholds analysis.Thresholds       `json:"thresholds"`
}

// GSEAView is the recomputed pathway-tab state for one selection.
type GSEAView struct {
	Rows []analysis.GSEARecord `json:"rows"`
	Plot analysis.PathwayView  `json:"plot"`
}

// ExploreView is one full recompute pass: normalized selection, the option
// sets it implies, and both tab views.
type ExploreView struct {
	Options    analysis.OptionSets `json:"options"`
	Selection  analysis.Selection  `json:"selection"`
	Thresholds analysis.Thresholds `json:"thresholds"`
	DGE        DGEView             `json:"dge"`
	GSEA       GSEAView            `json:"gsea"`
}

// Datasets lists the loaded datasets with their row counts.
func (s *ExplorerService) Datasets(ctx context.Context) ([]analysis.DatasetInfo, error) {
	infos, err := s.store.Datasets(ctx)
	if err != nil {
		return nil, errors.StoreError("failed to list datasets", err)
	}
	return infos, nil
}

// Options normalizes a submitted selection against the store's tables and
// returns the valid option sets alongside the normalized selection.
func (s *ExplorerService) Options(ctx context.Context, sel analysis.Selection) (analysis.OptionSets, analysis.Selection, error) {
	// Dataset resolution never depends on table contents, so only that
	// dataset's rows need to feed the cascade.
	dge, err := s.store.DGEByDataset(ctx, sel.Dataset())
	if err != nil {
		return analysis.OptionSets{}, sel, errors.StoreError("failed to load dataset rows", err)
	}

	opts, normalized := analysis.DeriveOptions(dge, sel)
	return opts, normalized, nil
}

// DGEView filters the DGE table for a normalized selection and builds the
// volcano view and summary under the given thresholds.
func (s *ExplorerService) DGEView(ctx context.Context, sel analysis.Selection, t analysis.Thresholds) (DGEView, error) {
	t = t.Clamped()

	start := time.Now()
	rows, err := s.store.FilterDGE(ctx, sel.Key())
	if err != nil {
		return DGEView{}, errors.StoreError("failed to filter DGE rows", err)
	}
	metrics.FilterDuration.WithLabelValues("dge").Observe(time.Since(start).Seconds())

	return DGEView{
		Rows:       rows,
		Volcano:    analysis.BuildVolcano(rows, t),
		Summary:    analysis.Summarize(rows, t),
		Thresholds: t,
	}, nil
}

// GSEAView filters the GSEA table for a normalized selection, truncated to
// the requested pathway count, and builds the enrichment plot view.
func (s *ExplorerService) GSEAView(ctx context.Context, sel analysis.Selection, t analysis.Thresholds) (GSEAView, error) {
	t = t.Clamped()

	start := time.Now()
	rows, err := s.store.FilterGSEA(ctx, sel.Key(), t.PathwayCount)
	if err != nil {
		return GSEAView{}, errors.StoreError("failed to filter GSEA rows", err)
	}
	metrics.FilterDuration.WithLabelValues("gsea").Observe(time.Since(start).Seconds())

	return GSEAView{
		Rows: rows,
		Plot: analysis.BuildPathwayView(rows),
	}, nil
}

// Explore runs one full recompute pass: normalize the selection, then build
// both tab views under the normalized state.
func (s *ExplorerService) Explore(ctx context.Context, sel analysis.Selection, t analysis.Thresholds) (ExploreView, error) {
	opts, normalized, err := s.Options(ctx, sel)
	if err != nil {
		return ExploreView{}, err
	}
	t = t.Clamped()

	dge, err := s.DGEView(ctx, normalized, t)
	if err != nil {
		return ExploreView{}, err
	}
	gsea, err := s.GSEAView(ctx, normalized, t)
	if err != nil {
		return ExploreView{}, err
	}

	return ExploreView{
		Options:    opts,
		Selection:  normalized,
		Thresholds: t,
		DGE:        dge,
		GSEA:       gsea,
	}, nil
}
