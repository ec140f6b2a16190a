package store_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aerislabs/aeris/internal/apperr"
	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
	"github.com/aerislabs/aeris/internal/testutil"
)

func sampleItem(id, claim string) scoring.Item {
	age := 7.0
	return scoring.Item{
		ID:              id,
		ClaimID:         claim,
		Category:        scoring.CategoryFlooring,
		Material:        "engineered oak",
		AgeYears:        &age,
		OriginalValue:   4200,
		CurrentValue:    3100,
		RestorationCost: 900,
		ReplacementCost: 3800,
		DamageTypes:     []string{"water", "swelling"},
		DamageExtent:    scoring.DamageModerate,
		Sentimental:     scoring.SentimentLow,
		Risks: scoring.RiskFactors{
			FurtherDamage:    scoring.RiskMedium,
			HealthConcerns:   scoring.RiskNone,
			StructuralImpact: scoring.RiskNone,
		},
		Timeline: scoring.Timeline{RestorationDays: 5, ReplacementDays: 12},
	}
}

func sampleZone(id, claim string) hvac.Zone {
	return hvac.Zone{
		ID:                id,
		ClaimID:           claim,
		Name:              "Ground floor",
		Rooms:             []string{"kitchen", "living"},
		ReturnAirLocation: id + "-return",
		SupplyVents: []hvac.Vent{
			{ID: id + "-v1", RoomID: "kitchen", Contaminated: true},
			{ID: id + "-v2", RoomID: "living"},
		},
		ContaminationLevel: hvac.LevelNone,
		AirflowDirection:   hvac.AirflowSupply,
	}
}

func TestItemRoundTrip(t *testing.T) {
	db := testutil.TestDB(t)

	want := sampleItem("i1", "c1")
	if err := db.UpsertItem(want); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	got, err := db.GetItem("i1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestItemNilAge(t *testing.T) {
	db := testutil.TestDB(t)

	item := sampleItem("i1", "c1")
	item.AgeYears = nil
	if err := db.UpsertItem(item); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	got, err := db.GetItem("i1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.AgeYears != nil {
		t.Errorf("AgeYears = %v, want nil", *got.AgeYears)
	}
}

func TestGetItemNotFound(t *testing.T) {
	db := testutil.TestDB(t)
	if _, err := db.GetItem("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteItem(t *testing.T) {
	db := testutil.TestDB(t)
	_ = db.UpsertItem(sampleItem("i1", "c1"))
	if err := db.DeleteItem("i1"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := db.DeleteItem("i1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListItemsByClaim(t *testing.T) {
	db := testutil.TestDB(t)
	_ = db.UpsertItem(sampleItem("i1", "c1"))
	_ = db.UpsertItem(sampleItem("i2", "c1"))
	_ = db.UpsertItem(sampleItem("i3", "c2"))

	items, err := db.ListItems("c1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}

	all, err := db.ListItems("")
	if err != nil {
		t.Fatalf("ListItems all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestZoneRoundTrip(t *testing.T) {
	db := testutil.TestDB(t)

	want := sampleZone("z1", "c1")
	if err := db.UpsertZone(want); err != nil {
		t.Fatalf("UpsertZone: %v", err)
	}
	got, err := db.GetZone("z1")
	if err != nil {
		t.Fatalf("GetZone: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestDeleteZone(t *testing.T) {
	db := testutil.TestDB(t)
	_ = db.UpsertZone(sampleZone("z1", "c1"))
	if err := db.DeleteZone("z1"); err != nil {
		t.Fatalf("DeleteZone: %v", err)
	}
	if _, err := db.GetZone("z1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateZoneLevels(t *testing.T) {
	db := testutil.TestDB(t)
	z1 := sampleZone("z1", "c1")
	z2 := sampleZone("z2", "c1")
	_ = db.UpsertZone(z1)
	_ = db.UpsertZone(z2)

	z1.ContaminationLevel = hvac.LevelHigh
	z2.ContaminationLevel = hvac.LevelLow
	if err := db.UpdateZoneLevels([]hvac.Zone{z1, z2}); err != nil {
		t.Fatalf("UpdateZoneLevels: %v", err)
	}

	got, _ := db.GetZone("z1")
	if got.ContaminationLevel != hvac.LevelHigh {
		t.Errorf("z1 level = %s, want high", got.ContaminationLevel)
	}
	got, _ = db.GetZone("z2")
	if got.ContaminationLevel != hvac.LevelLow {
		t.Errorf("z2 level = %s, want low", got.ContaminationLevel)
	}
}

func TestListZonesStableOrder(t *testing.T) {
	db := testutil.TestDB(t)
	for _, id := range []string{"zb", "za", "zc"} {
		_ = db.UpsertZone(sampleZone(id, "c1"))
	}
	zones, err := db.ListZones("c1")
	if err != nil {
		t.Fatalf("ListZones: %v", err)
	}
	want := []string{"zb", "za", "zc"}
	for i, z := range zones {
		if z.ID != want[i] {
			t.Errorf("zones[%d] = %s, want %s (insertion order)", i, z.ID, want[i])
		}
	}
}

func TestIntakeChecksums(t *testing.T) {
	db := testutil.TestDB(t)
	if err := db.SetIntakeChecksum("a.yaml", "abc"); err != nil {
		t.Fatalf("SetIntakeChecksum: %v", err)
	}
	_ = db.SetIntakeChecksum("a.yaml", "def") // overwrite
	_ = db.SetIntakeChecksum("b.yaml", "ghi")

	cs, err := db.IntakeChecksums()
	if err != nil {
		t.Fatalf("IntakeChecksums: %v", err)
	}
	if cs["a.yaml"] != "def" || cs["b.yaml"] != "ghi" {
		t.Errorf("checksums = %v", cs)
	}

	if err := db.DeleteIntakeFile("a.yaml"); err != nil {
		t.Fatalf("DeleteIntakeFile: %v", err)
	}
	cs, _ = db.IntakeChecksums()
	if _, ok := cs["a.yaml"]; ok {
		t.Error("a.yaml still present after delete")
	}
}
