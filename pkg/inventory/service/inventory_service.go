package service

import (
	"context"
	"errors"
	"io"

	"reien/pkg/inventory"
)

const (
	ModeStatic = "static" // built-in tables (mock)
	ModeDB     = "db"     // stored snapshot
	ModeRemote = "remote" // office backend
)

var (
	ErrEmptySnapshot = errors.New("no inventory snapshot stored; run seed or import")
	ErrNoStore       = errors.New("inventory store not configured")
	ErrRemote        = errors.New("remote inventory")
)

type ImportResult struct {
	Plots         int                     `json:"plots"`
	PlotsByArea   int                     `json:"plotsByArea"`
	LastUpdated   string                  `json:"lastUpdated"`
	Discrepancies []inventory.Discrepancy `json:"discrepancies"`
}

type InventoryService interface {
	Mode() string
	Snapshot(ctx context.Context) (*inventory.Dataset, error)
	Discrepancies(ctx context.Context) ([]inventory.Discrepancy, error)
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	Seed(ctx context.Context) (*ImportResult, error)
}
