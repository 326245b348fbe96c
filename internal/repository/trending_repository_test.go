package repository

import "testing"

func TestTrendingUpsertAndMarkPublished(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewTrendingRepository(db)

	first, err := repo.UpsertTopic("golang")
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	again, err := repo.UpsertTopic("golang")
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if first.ID != again.ID {
		t.Fatalf("upsert should keep one row, got ids %d and %d", first.ID, again.ID)
	}
	if _, err := repo.UpsertTopic("rust"); err != nil {
		t.Fatalf("upsert rust failed: %v", err)
	}

	count, err := repo.CountUnpublished()
	if err != nil || count != 2 {
		t.Fatalf("unpublished count want 2 got %d err=%v", count, err)
	}

	ok, err := repo.MarkPublished(first.ID, 9)
	if err != nil || !ok {
		t.Fatalf("mark published failed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.MarkPublished(first.ID, 10)
	if err != nil || ok {
		t.Fatalf("second mark should be a no-op: ok=%v err=%v", ok, err)
	}

	unpublished, err := repo.ListUnpublished(5)
	if err != nil {
		t.Fatalf("list unpublished failed: %v", err)
	}
	if len(unpublished) != 1 || unpublished[0].Topic != "rust" {
		t.Fatalf("unpublished unexpected: %+v", unpublished)
	}
}
