package postgres

import (
	"context"
	"testing"
)

func TestSyncStateRoundTrip(t *testing.T) {
	repo := NewSyncStateRepo(testDB(t))
	ctx := context.Background()

	_, ok, err := repo.NextOffset(ctx, "catalog-sync")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("fresh schedule should have no offset")
	}

	if err := repo.SetNextOffset(ctx, "catalog-sync", 900); err != nil {
		t.Fatal(err)
	}
	// Upsert on the same name, not a second row.
	if err := repo.SetNextOffset(ctx, "catalog-sync", 1800); err != nil {
		t.Fatal(err)
	}

	offset, ok, err := repo.NextOffset(ctx, "catalog-sync")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || offset != 1800 {
		t.Fatalf("offset = %d ok=%v, want 1800", offset, ok)
	}

	if err := repo.Clear(ctx, "catalog-sync"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := repo.NextOffset(ctx, "catalog-sync"); ok {
		t.Error("cleared schedule still has an offset")
	}
}
