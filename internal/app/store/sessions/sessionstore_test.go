package sessionstore_test

import (
	"errors"
	"testing"
	"time"

	sessionstore "github.com/dalemusser/studyhub/internal/app/store/sessions"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	later := testutil.NewSession("g1", time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC))
	earlier := testutil.NewSession("g1", time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC))
	elsewhere := testutil.NewSession("g2", time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	if err := store.Create(ctx, later); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, earlier); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, elsewhere); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListByGroup(ctx, "g1")
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByGroup: got %d sessions, want 2", len(got))
	}
	if got[0].ID != earlier.ID || got[1].ID != later.ID {
		t.Errorf("expected sessions ordered by date_time, got %s then %s", got[0].ID, got[1].ID)
	}

	n, err := store.CountByGroup(ctx, "g1")
	if err != nil || n != 2 {
		t.Errorf("CountByGroup = %d, %v; want 2, nil", n, err)
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := testutil.NewSession("g1", time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC))
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, s); err != sessionstore.ErrDuplicateSession {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}
}

func TestStore_GetByID_ScopedToGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := testutil.NewSession("g1", time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC))
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.GetByID(ctx, "g1", s.ID); err != nil {
		t.Errorf("GetByID in owning group failed: %v", err)
	}
	if _, err := store.GetByID(ctx, "g2", s.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID in other group: expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ReplaceAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := testutil.NewSession("g1", time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC))
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s.Title = "Revised"
	n, err := store.Replace(ctx, s)
	if err != nil || n != 1 {
		t.Fatalf("Replace = %d, %v; want 1, nil", n, err)
	}
	got, err := store.GetByID(ctx, "g1", s.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Revised" {
		t.Errorf("Title: got %q, want %q", got.Title, "Revised")
	}

	if n, err := store.Delete(ctx, "g1", s.ID); err != nil || n != 1 {
		t.Errorf("Delete = %d, %v; want 1, nil", n, err)
	}

	other := testutil.NewSession("g1", time.Date(2025, 1, 21, 10, 0, 0, 0, time.UTC))
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n, err := store.DeleteByGroup(ctx, "g1"); err != nil || n != 1 {
		t.Errorf("DeleteByGroup = %d, %v; want 1, nil", n, err)
	}
}
