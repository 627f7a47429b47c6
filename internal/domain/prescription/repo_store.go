package prescription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rakshanam/clinic/internal/platform/store"
)

const collection = "prescriptions"

type storeRepo struct {
	records store.RecordStore
	now     func() time.Time
}

// NewRepository builds a prescription repository over the record store.
func NewRepository(records store.RecordStore) Repository {
	return &storeRepo{records: records, now: time.Now}
}

// ListAll returns every prescription in scan order. Callers that need an
// ordering sort for themselves.
func (r *storeRepo) ListAll(ctx context.Context) ([]*Prescription, error) {
	recs, err := r.records.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	out := make([]*Prescription, 0, len(recs))
	for id, rec := range recs {
		rx, err := fromFields(id, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, rx)
	}
	return out, nil
}

// ListByPatient filters the full collection by patient, newest visit first.
func (r *storeRepo) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Prescription, 0)
	for _, rx := range all {
		if rx.PatientID == patientID {
			out = append(out, rx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Prescription, error) {
	rec, err := r.records.Get(ctx, store.Join(collection, id))
	if err != nil {
		return nil, fmt.Errorf("get prescription %s: %w", id, err)
	}
	return fromFields(id, rec)
}

func (r *storeRepo) Create(ctx context.Context, rx *Prescription) (string, error) {
	id := uuid.NewString()
	rx.CreatedAt = r.now().UnixMilli()
	rec, err := toFields(rx)
	if err != nil {
		return "", err
	}
	if err := r.records.Set(ctx, store.Join(collection, id), rec); err != nil {
		return "", fmt.Errorf("create prescription: %w", err)
	}
	rx.ID = id
	return id, nil
}

func (r *storeRepo) Update(ctx context.Context, id string, patch Patch) error {
	fields, err := patch.Fields()
	if err != nil {
		return err
	}
	if err := r.records.Update(ctx, store.Join(collection, id), fields); err != nil {
		return fmt.Errorf("update prescription %s: %w", id, err)
	}
	return nil
}

func (r *storeRepo) Delete(ctx context.Context, id string) error {
	if err := r.records.Delete(ctx, store.Join(collection, id)); err != nil {
		return fmt.Errorf("delete prescription %s: %w", id, err)
	}
	return nil
}

// DeleteByPatient removes every prescription belonging to the patient. Each
// delete commits on its own; on a partial failure the remaining records are
// left behind and the joined errors are returned with the count of deletes
// that did land.
func (r *storeRepo) DeleteByPatient(ctx context.Context, patientID string) (int, error) {
	recs, err := r.records.List(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("list prescriptions: %w", err)
	}
	var deleted int
	var errs []error
	for id, rec := range recs {
		if pid, _ := rec["patientId"].(string); pid != patientID {
			continue
		}
		if err := r.records.Delete(ctx, store.Join(collection, id)); err != nil {
			errs = append(errs, fmt.Errorf("delete prescription %s: %w", id, err))
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}
