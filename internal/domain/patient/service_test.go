package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rakshanam/clinic/internal/platform/store"
)

type purgerSpy struct {
	deleted []string
	count   int
	fail    bool
}

func (p *purgerSpy) DeleteByPatient(_ context.Context, patientID string) (int, error) {
	if p.fail {
		return 0, fmt.Errorf("prescription store down")
	}
	p.deleted = append(p.deleted, patientID)
	return p.count, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestRepo(now time.Time) (*storeRepo, store.RecordStore) {
	records := store.NewMemory()
	return &storeRepo{records: records, now: fixedClock(now)}, records
}

func TestCreateAssignsDateEncodedID(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	id, err := repo.Create(ctx, &Patient{Name: "Smt Tilkan", Age: "62", Weight: "58"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "250101001" {
		t.Errorf("id = %q, want 250101001", id)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Smt Tilkan" || got.Age != "62" || got.ID != id {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.CreatedAt == 0 {
		t.Error("createdAt not stamped")
	}
}

func TestCreateClaimsLowestUnusedSequence(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		id, err := repo.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60"})
		if err != nil {
			t.Fatalf("Create %d: %v", want, err)
		}
		if exp := fmt.Sprintf("250101%03d", want); id != exp {
			t.Errorf("id = %q, want %q", id, exp)
		}
	}

	// A gap from a deleted patient is reclaimed.
	if err := repo.Delete(ctx, "250101002"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	id, err := repo.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "250101002" {
		t.Errorf("id = %q, want reclaimed 250101002", id)
	}
}

func TestCreateSequenceResetsNextDay(t *testing.T) {
	records := store.NewMemory()
	ctx := context.Background()

	day1 := &storeRepo{records: records, now: fixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))}
	if _, err := day1.Create(ctx, &Patient{Name: "A", Age: "30", Weight: "60"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	day2 := &storeRepo{records: records, now: fixedClock(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))}
	id, err := day2.Create(ctx, &Patient{Name: "B", Age: "30", Weight: "60"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "250102001" {
		t.Errorf("id = %q, want 250102001", id)
	}
}

func TestListAllSortedByName(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, name := range []string{"Ramesh", "Anita", "Mohan"} {
		if _, err := repo.Create(ctx, &Patient{Name: name, Age: "40", Weight: "65"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	patients, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(patients) != 3 {
		t.Fatalf("got %d patients, want 3", len(patients))
	}
	for i, want := range []string{"Anita", "Mohan", "Ramesh"} {
		if patients[i].Name != want {
			t.Errorf("patients[%d] = %q, want %q", i, patients[i].Name, want)
		}
	}
}

func TestUpdateTouchesOnlyPatchedFields(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "Smt Tilkan", Age: "62", Weight: "58", Address: "Khairagarh"})

	addr := "Rajnandgaon"
	if err := repo.Update(ctx, id, Patch{Address: &addr}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.GetByID(ctx, id)
	if got.Address != "Rajnandgaon" {
		t.Errorf("address = %q", got.Address)
	}
	if got.Name != "Smt Tilkan" || got.Age != "62" || got.Weight != "58" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt == 0 {
		t.Error("updatedAt not stamped")
	}
}

func TestEmptyPatchOnlyBumpsUpdatedAt(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "Smt Tilkan", Age: "62", Weight: "58"})
	before, _ := repo.GetByID(ctx, id)

	if err := repo.Update(ctx, id, Patch{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	after, _ := repo.GetByID(ctx, id)
	if after.Name != before.Name || after.Age != before.Age || after.Weight != before.Weight {
		t.Errorf("empty patch changed fields: %+v", after)
	}
	if after.UpdatedAt == 0 {
		t.Error("updatedAt not stamped")
	}
}

func TestRecordVitalsSkipsEmptyValues(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "P", Age: "40", Weight: "70", BloodPressure: "130/85"})

	if err := repo.RecordVitals(ctx, id, "72", ""); err != nil {
		t.Fatalf("RecordVitals: %v", err)
	}
	got, _ := repo.GetByID(ctx, id)
	if got.Weight != "72" {
		t.Errorf("weight = %q, want 72", got.Weight)
	}
	if got.BloodPressure != "130/85" {
		t.Errorf("bloodPressure = %q, want the old reading kept", got.BloodPressure)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	svc := NewService(repo, &purgerSpy{}, zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		name string
		p    Patient
	}{
		{"missing name", Patient{Age: "30", Weight: "60"}},
		{"missing age", Patient{Name: "P", Weight: "60"}},
		{"missing weight", Patient{Name: "P", Age: "30"}},
		{"bad gender", Patient{Name: "P", Age: "30", Weight: "60", Gender: "X"}},
		{"bad blood group", Patient{Name: "P", Age: "30", Weight: "60", BloodGroup: "C+"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.p
			if _, err := svc.Create(ctx, &p); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	if _, err := svc.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60", Gender: "Female", BloodGroup: "O+"}); err != nil {
		t.Errorf("valid patient rejected: %v", err)
	}
}

func TestServiceDeleteCascades(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	spy := &purgerSpy{count: 2}
	svc := NewService(repo, spy, zerolog.Nop())
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60"})
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(spy.deleted) != 1 || spy.deleted[0] != id {
		t.Errorf("cascade calls = %v", spy.deleted)
	}
	if _, err := repo.GetByID(ctx, id); !IsNotFound(err) {
		t.Errorf("patient should be gone, got %v", err)
	}
}

func TestServiceDeleteEmptyCascade(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	svc := NewService(repo, &purgerSpy{count: 0}, zerolog.Nop())
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60"})
	if err := svc.Delete(ctx, id); err != nil {
		t.Errorf("delete with no prescriptions should succeed: %v", err)
	}
}

func TestServiceDeleteSurfacesCascadeFailure(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	svc := NewService(repo, &purgerSpy{fail: true}, zerolog.Nop())
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60"})
	if err := svc.Delete(ctx, id); err == nil {
		t.Fatal("expected the cascade error to surface")
	}
	// The patient delete itself already committed.
	if _, err := repo.GetByID(ctx, id); !IsNotFound(err) {
		t.Errorf("patient should be gone despite the failed cascade, got %v", err)
	}
}

func TestWatchDeliversUpdatesAndDeletes(t *testing.T) {
	repo, _ := newTestRepo(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	id, _ := repo.Create(ctx, &Patient{Name: "P", Age: "30", Weight: "60"})

	var got []*Patient
	cancel := repo.Watch(id, func(p *Patient) { got = append(got, p) })

	w := "62"
	if err := repo.Update(ctx, id, Patch{Weight: &w}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cancel()
	if err := repo.records.Set(ctx, store.Join(collection, id), store.Fields{"name": "ghost"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0] == nil || got[0].Weight != "62" {
		t.Errorf("first notification = %+v", got[0])
	}
	if got[1] != nil {
		t.Errorf("delete should notify nil, got %+v", got[1])
	}
}
