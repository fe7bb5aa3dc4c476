package sqlite_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/mwantia/catalog"
	"github.com/mwantia/catalog/data"
	"github.com/mwantia/catalog/persist/sqlite"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := t.Context()

	store, err := sqlite.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Store init failed: %v", err)
	}
	defer store.Close()

	cat := catalog.New("s3://b/p")
	cat.Put(catalog.NewSingleDataset("jid2", "zeta", "s3://b/p/jid2/zeta.csv"))

	family, err := catalog.NewFamilyDataset("jid1", "configs", "s3://b/p/jid1/configs/",
		data.FormatJSON, "*_cfg.json", "s3://b/p/jid1/configs/0001_cfg.json", 2)
	if err != nil {
		t.Fatalf("NewFamilyDataset failed: %v", err)
	}
	cat.Put(family)

	if err := store.Save(ctx, cat); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Base() != cat.Base() {
		t.Fatalf("Base mismatch: %s", loaded.Base())
	}

	owners := slices.Collect(loaded.Owners())
	if !slices.Equal(owners, []string{"jid2", "jid1"}) {
		t.Fatalf("Owner order not preserved: %v", owners)
	}

	got, err := loaded.Get("jid1", "configs")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Equal(family) || got.MemberCount != 2 || got.Example != family.Example {
		t.Fatalf("Family record mismatch: %v", got)
	}
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	store, err := sqlite.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Store init failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(t.Context()); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	ctx := t.Context()

	store, err := sqlite.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Store init failed: %v", err)
	}
	defer store.Close()

	first := catalog.New("s3://b/p")
	first.Put(catalog.NewSingleDataset("jid1", "old", "s3://b/p/jid1/old.csv"))
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	second := catalog.New("s3://b/p")
	second.Put(catalog.NewSingleDataset("jid1", "new", "s3://b/p/jid1/new.csv"))
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Contains("jid1", "old") || !loaded.Contains("jid1", "new") {
		t.Fatal("Save did not replace previous records")
	}
}
