package serviceImp

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"reien/entities"
	"reien/pkg/inventory"
	"reien/pkg/inventory/repository"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/workbook"
	"reien/pkg/metrics"
)

type inventorySvc struct {
	mode   string
	remote inventory.Source
	repo   repository.InventoryRepository
	log    *slog.Logger
}

// New wires the service. repo may be nil when no database is configured;
// remote is only consulted in remote mode.
func New(mode string, repo repository.InventoryRepository, remote inventory.Source, log *slog.Logger) svc.InventoryService {
	if log == nil {
		log = slog.Default()
	}
	return &inventorySvc{mode: mode, remote: remote, repo: repo, log: log}
}

func (s *inventorySvc) Mode() string { return s.mode }

func (s *inventorySvc) Snapshot(ctx context.Context) (*inventory.Dataset, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	metrics.ObserveDataset(ds)
	return ds, nil
}

func (s *inventorySvc) load(ctx context.Context) (*inventory.Dataset, error) {
	switch s.mode {
	case svc.ModeStatic:
		return inventory.Static(), nil
	case svc.ModeRemote:
		if s.remote == nil {
			return nil, fmt.Errorf("%w: source not configured", svc.ErrRemote)
		}
		ds, err := s.remote.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", svc.ErrRemote, err)
		}
		return ds, nil
	case svc.ModeDB:
		return s.loadStored(ctx)
	}
	return nil, fmt.Errorf("unknown inventory mode %q", s.mode)
}

func (s *inventorySvc) loadStored(ctx context.Context) (*inventory.Dataset, error) {
	if s.repo == nil {
		return nil, svc.ErrNoStore
	}
	plots, err := s.repo.ListPlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	byArea, err := s.repo.ListPlotsByArea(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plots by area: %w", err)
	}
	if len(plots) == 0 && len(byArea) == 0 {
		return nil, svc.ErrEmptySnapshot
	}
	snap, err := s.repo.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	label := ""
	if snap != nil {
		label = snap.LastUpdated
	}
	return inventory.NewDataset(plots, byArea, label), nil
}

func (s *inventorySvc) Discrepancies(ctx context.Context) ([]inventory.Discrepancy, error) {
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Discrepancies(), nil
}

func (s *inventorySvc) Export(ctx context.Context, w io.Writer) error {
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return workbook.Export(w, ds)
}

// Import replaces the stored snapshot with the workbook contents. Rows that
// do not balance are stored as entered and reported back.
func (s *inventorySvc) Import(ctx context.Context, r io.Reader) (*svc.ImportResult, error) {
	if s.repo == nil {
		return nil, svc.ErrNoStore
	}
	ds, err := workbook.Import(r)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, ds, "import")
}

// Seed copies the built-in tables into the store.
func (s *inventorySvc) Seed(ctx context.Context) (*svc.ImportResult, error) {
	if s.repo == nil {
		return nil, svc.ErrNoStore
	}
	return s.store(ctx, inventory.Static(), "seed")
}

func (s *inventorySvc) store(ctx context.Context, ds *inventory.Dataset, source string) (*svc.ImportResult, error) {
	snap := &entities.InventorySnapshot{LastUpdated: ds.LastUpdated(), Source: source}
	if err := s.repo.ReplaceAll(ctx, snap, ds.PlotInventory(), ds.PlotsByArea()); err != nil {
		return nil, err
	}
	res := &svc.ImportResult{
		Plots:         len(ds.PlotInventory()),
		PlotsByArea:   len(ds.PlotsByArea()),
		LastUpdated:   ds.LastUpdated(),
		Discrepancies: ds.Discrepancies(),
	}
	s.log.Info("inventory stored",
		"source", source,
		"plots", res.Plots,
		"plots_by_area", res.PlotsByArea,
		"last_updated", res.LastUpdated,
		"discrepancies", len(res.Discrepancies),
	)
	for _, d := range res.Discrepancies {
		s.log.Warn("inventory discrepancy", "detail", d.String())
	}
	return res, nil
}
