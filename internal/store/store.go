package store

import (
	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
)

// Store defines the persistence operations used by the triage service and
// intake pipeline. Consumers should depend on this interface rather than
// the concrete *DB type to facilitate testing with mocks.
type Store interface {
	UpsertItem(item scoring.Item) error
	GetItem(id string) (*scoring.Item, error)
	DeleteItem(id string) error
	ListItems(claimID string) ([]scoring.Item, error)

	UpsertZone(z hvac.Zone) error
	GetZone(id string) (*hvac.Zone, error)
	DeleteZone(id string) error
	ListZones(claimID string) ([]hvac.Zone, error)
	UpdateZoneLevels(zones []hvac.Zone) error

	IntakeChecksums() (map[string]string, error)
	SetIntakeChecksum(path, checksum string) error
	DeleteIntakeFile(path string) error

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
