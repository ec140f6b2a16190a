package intake_test

import (
	"log/slog"
	"testing"

	"github.com/aerislabs/aeris/internal/intake"
	"github.com/aerislabs/aeris/internal/storage"
	"github.com/aerislabs/aeris/internal/testutil"
)

const validDoc = `
claim: c-100
items:
  - id: item-1
    category: contents
    damage_types: [water]
    damage_extent: minor
    restoration_cost: 100
    replacement_cost: 1000
    restoration_days: 2
    replacement_days: 10
zones:
  - id: zone-1
    name: Upstairs
    return_air_location: hall-return
    supply_vents:
      - id: v1
        room_id: bedroom-1
`

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSyncIngestsNewDocuments(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestWorkspace(t)

	if err := files.Write("c100.yaml", []byte(validDoc)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := intake.Sync(db, files, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	item, err := db.GetItem("item-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.ClaimID != "c-100" {
		t.Errorf("ClaimID = %q", item.ClaimID)
	}
	if _, err := db.GetZone("zone-1"); err != nil {
		t.Fatalf("GetZone: %v", err)
	}

	cs, _ := db.IntakeChecksums()
	if _, ok := cs["c100.yaml"]; !ok {
		t.Error("checksum not recorded")
	}
}

func TestSyncSkipsUnchangedDocuments(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestWorkspace(t)

	_ = files.Write("c100.yaml", []byte(validDoc))
	if err := intake.Sync(db, files, discardLogger()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}

	// Mutate the store out of band; a second sync of the unchanged file
	// must not overwrite it.
	item, _ := db.GetItem("item-1")
	item.Material = "edited in app"
	_ = db.UpsertItem(*item)

	if err := intake.Sync(db, files, discardLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	item, _ = db.GetItem("item-1")
	if item.Material != "edited in app" {
		t.Error("unchanged file was re-ingested")
	}
}

func TestSyncQuarantinesBadDocuments(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestWorkspace(t)

	_ = files.Write("bad.yaml", []byte("items: [unclosed"))
	if err := intake.Sync(db, files, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if _, err := files.Read("bad.yaml"); err == nil {
		t.Error("bad document still in drop folder")
	}
	if _, err := files.Read(storage.QuarantineDir + "/bad.yaml"); err != nil {
		t.Errorf("bad document not quarantined: %v", err)
	}

	// Quarantined files are invisible to the next sync.
	if err := intake.Sync(db, files, discardLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
}

func TestSyncForgetsRemovedFiles(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestWorkspace(t)

	_ = files.Write("c100.yaml", []byte(validDoc))
	_ = intake.Sync(db, files, discardLogger())
	_ = files.Delete("c100.yaml")
	_ = intake.Sync(db, files, discardLogger())

	cs, _ := db.IntakeChecksums()
	if _, ok := cs["c100.yaml"]; ok {
		t.Error("removed file still tracked")
	}
	// Ingested records survive: the drop file is an import, not the
	// system of record.
	if _, err := db.GetItem("item-1"); err != nil {
		t.Errorf("item gone after file removal: %v", err)
	}
}
