package patient

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rakshanam/clinic/internal/platform/store"
)

const collection = "patients"

type storeRepo struct {
	records store.RecordStore
	now     func() time.Time
}

// NewRepository returns a Repository over the given record store.
func NewRepository(records store.RecordStore) Repository {
	return &storeRepo{records: records, now: time.Now}
}

func (r *storeRepo) ListAll(ctx context.Context) ([]*Patient, error) {
	recs, err := r.records.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	patients := make([]*Patient, 0, len(recs))
	for id, rec := range recs {
		p, err := fromFields(id, rec)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	sort.SliceStable(patients, func(i, j int) bool {
		return patients[i].Name < patients[j].Name
	})
	return patients, nil
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	rec, err := r.records.Get(ctx, store.Join(collection, id))
	if err != nil {
		return nil, err
	}
	return fromFields(id, rec)
}

// Create claims a date-encoded id of the form YYMMDDNNN: a six digit date
// prefix plus the lowest unused three digit sequence for that day, starting
// at 001. Finding the sequence is a full collection scan on every create;
// fine at clinic scale. Two simultaneous creates on the same day can race to
// the same NNN, since this is a read-then-write with no compare-and-swap.
func (r *storeRepo) Create(ctx context.Context, p *Patient) (string, error) {
	prefix := r.now().Format("060102")

	existing, err := r.records.List(ctx, collection)
	if err != nil {
		return "", fmt.Errorf("scan patient ids: %w", err)
	}

	taken := make(map[string]bool)
	for id := range existing {
		if len(id) == 9 && id[:6] == prefix {
			taken[id] = true
		}
	}
	seq := 1
	for taken[fmt.Sprintf("%s%03d", prefix, seq)] {
		seq++
	}
	id := fmt.Sprintf("%s%03d", prefix, seq)

	p.ID = id
	p.CreatedAt = r.now().UnixMilli()
	rec, err := toFields(p)
	if err != nil {
		return "", err
	}
	if err := r.records.Set(ctx, store.Join(collection, id), rec); err != nil {
		return "", err
	}
	return id, nil
}

func (r *storeRepo) Update(ctx context.Context, id string, patch Patch) error {
	fields, err := patch.Fields()
	if err != nil {
		return err
	}
	fields["updatedAt"] = r.now().UnixMilli()
	return r.records.Update(ctx, store.Join(collection, id), fields)
}

// RecordVitals refreshes the latest-known-vitals cache from a prescription
// write. Empty values are skipped, not cleared.
func (r *storeRepo) RecordVitals(ctx context.Context, id, weight, bloodPressure string) error {
	fields := store.Fields{"updatedAt": r.now().UnixMilli()}
	if weight != "" {
		fields["weight"] = weight
	}
	if bloodPressure != "" {
		fields["bloodPressure"] = bloodPressure
	}
	return r.records.Update(ctx, store.Join(collection, id), fields)
}

func (r *storeRepo) Delete(ctx context.Context, id string) error {
	return r.records.Delete(ctx, store.Join(collection, id))
}

func (r *storeRepo) Watch(id string, fn func(*Patient)) func() {
	return r.records.Subscribe(store.Join(collection, id), func(rec store.Fields) {
		if rec == nil {
			fn(nil)
			return
		}
		p, err := fromFields(id, rec)
		if err != nil {
			return
		}
		fn(p)
	})
}
