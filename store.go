package dashboard

import (
	"errors"
)

type Store interface {
	// Pinned Comparisons
	UpsertPinnedComparison(p *PinnedComparison) error
	ListPinnedComparisons() ([]*PinnedComparison, error)
	LoadPinnedComparison(id string) (*PinnedComparison, error)
	DeletePinnedComparison(id string) error

	// Meta
	SetMeta(key string, value interface{}) error
	GetMeta(key string, out interface{}) error

	Close() error
}

var (
	ErrValueNotSet              = errors.New("dashboard: value not set")
	ErrPinnedComparisonNotFound = errors.New("dashboard: pinned comparison not found")
)
