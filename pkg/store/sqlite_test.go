package store

import (
	"context"
	"path/filepath"
	"testing"

	"voiceatis/pkg/db"
	"voiceatis/pkg/model"
)

func TestSQLiteStore(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	defer d.Close()

	store := NewSQLiteStore(d)
	ctx := context.Background()

	testAirports(t, ctx, store)
	testState(t, ctx, store)
}

func testAirports(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("Airports", func(t *testing.T) {
		airports := []model.AirportRecord{
			{
				ICAO:        "EDDS",
				Name:        "Stuttgart Airport",
				Lat:         48.6899,
				Lon:         9.2220,
				ElevationFt: 1276,
				Frequencies: []model.Frequency{
					{KHz: 126125, Role: model.RoleATIS},
					{KHz: 118600, Role: model.RoleTWR},
				},
			},
			{
				ICAO:        "EDDF",
				Name:        "Frankfurt am Main Airport",
				Lat:         50.0264,
				Lon:         8.5431,
				ElevationFt: 364,
			},
		}

		if err := store.ReplaceAirports(ctx, airports); err != nil {
			t.Fatalf("ReplaceAirports failed: %v", err)
		}

		n, err := store.AirportCount(ctx)
		if err != nil {
			t.Fatalf("AirportCount failed: %v", err)
		}
		if n != 2 {
			t.Errorf("AirportCount = %d, want 2", n)
		}

		loaded, err := store.LoadAirports(ctx)
		if err != nil {
			t.Fatalf("LoadAirports failed: %v", err)
		}
		if len(loaded) != 2 {
			t.Fatalf("LoadAirports returned %d airports, want 2", len(loaded))
		}

		var edds *model.AirportRecord
		for i := range loaded {
			if loaded[i].ICAO == "EDDS" {
				edds = &loaded[i]
			}
		}
		if edds == nil {
			t.Fatal("EDDS missing from loaded airports")
		}
		if len(edds.Frequencies) != 2 {
			t.Errorf("EDDS has %d frequencies, want 2", len(edds.Frequencies))
		}
		if !edds.HasATISFrequency(126125) {
			t.Error("EDDS should carry an ATIS frequency at 126125 kHz")
		}

		// Replace swaps the full dataset.
		if err := store.ReplaceAirports(ctx, airports[:1]); err != nil {
			t.Fatalf("ReplaceAirports (second) failed: %v", err)
		}
		n, err = store.AirportCount(ctx)
		if err != nil {
			t.Fatalf("AirportCount failed: %v", err)
		}
		if n != 1 {
			t.Errorf("AirportCount after replace = %d, want 1", n)
		}
	})
}

func testState(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("State", func(t *testing.T) {
		if _, ok := store.GetState(ctx, "missing"); ok {
			t.Error("GetState on missing key should report absent")
		}

		if err := store.SetState(ctx, "last_download_day", "2026-08-29"); err != nil {
			t.Fatalf("SetState failed: %v", err)
		}

		val, ok := store.GetState(ctx, "last_download_day")
		if !ok {
			t.Fatal("GetState should find the key")
		}
		if val != "2026-08-29" {
			t.Errorf("GetState = %q, want %q", val, "2026-08-29")
		}

		if err := store.SetState(ctx, "last_download_day", "2026-08-30"); err != nil {
			t.Fatalf("SetState (update) failed: %v", err)
		}
		val, _ = store.GetState(ctx, "last_download_day")
		if val != "2026-08-30" {
			t.Errorf("GetState after update = %q, want %q", val, "2026-08-30")
		}

		if err := store.DeleteState(ctx, "last_download_day"); err != nil {
			t.Fatalf("DeleteState failed: %v", err)
		}
		if _, ok := store.GetState(ctx, "last_download_day"); ok {
			t.Error("GetState after delete should report absent")
		}
	})
}

func TestGetStateOnClosedDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	store := NewSQLiteStore(d)
	ctx := context.Background()

	if err := store.SetState(ctx, "last_download_day", "2026-08-29"); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A broken connection must read as absent, never as an empty value.
	if val, ok := store.GetState(ctx, "last_download_day"); ok {
		t.Errorf("GetState on closed DB = (%q, true), want absent", val)
	}
}
