package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rakshanam/clinic/internal/platform/store"
)

// Collection is a typed view over one template collection. All four catalog
// collections share the same access pattern, so the store plumbing is
// written once.
type Collection[T any] struct {
	records store.RecordStore
	name    string
	setID   func(*T, string)
	stamp   func(*T, int64)
	less    func(a, b *T) bool
	now     func() time.Time
}

func (c *Collection[T]) ListAll(ctx context.Context) ([]*T, error) {
	recs, err := c.records.List(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	out := make([]*T, 0, len(recs))
	for id, rec := range recs {
		v, err := decodeRecord(id, rec, c.setID)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return c.less(out[i], out[j]) })
	return out, nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	rec, err := c.records.Get(ctx, store.Join(c.name, id))
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return decodeRecord(id, rec, c.setID)
}

func (c *Collection[T]) Create(ctx context.Context, v *T) (string, error) {
	id := uuid.NewString()
	c.stamp(v, c.now().UnixMilli())
	rec, err := encodeRecord(v)
	if err != nil {
		return "", err
	}
	if err := c.records.Set(ctx, store.Join(c.name, id), rec); err != nil {
		return "", fmt.Errorf("create %s: %w", c.name, err)
	}
	c.setID(v, id)
	return id, nil
}

// Update replaces the stored template wholesale, keeping the original
// creation stamp.
func (c *Collection[T]) Update(ctx context.Context, id string, v *T) error {
	existing, err := c.records.Get(ctx, store.Join(c.name, id))
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	if createdAt, ok := existing["createdAt"].(float64); ok {
		c.stamp(v, int64(createdAt))
	}
	rec, err := encodeRecord(v)
	if err != nil {
		return err
	}
	if err := c.records.Set(ctx, store.Join(c.name, id), rec); err != nil {
		return fmt.Errorf("update %s/%s: %w", c.name, id, err)
	}
	c.setID(v, id)
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.records.Delete(ctx, store.Join(c.name, id)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Repository groups the four template collections.
type Repository struct {
	Medicines  *Collection[SavedMedicine]
	Diagnoses  *Collection[CommonDiagnosis]
	Complaints *Collection[ChiefComplaint]
	Panchkarma *Collection[SavedPanchkarmaProcess]
}

// NewRepository builds the catalog collections over the record store. Every
// collection lists sorted by its display name.
func NewRepository(records store.RecordStore) *Repository {
	return &Repository{
		Medicines: &Collection[SavedMedicine]{
			records: records,
			name:    "medicines",
			setID:   func(m *SavedMedicine, id string) { m.ID = id },
			stamp:   func(m *SavedMedicine, ts int64) { m.CreatedAt = ts },
			less:    func(a, b *SavedMedicine) bool { return a.Name < b.Name },
			now:     time.Now,
		},
		Diagnoses: &Collection[CommonDiagnosis]{
			records: records,
			name:    "diagnoses",
			setID:   func(d *CommonDiagnosis, id string) { d.ID = id },
			stamp:   func(d *CommonDiagnosis, ts int64) { d.CreatedAt = ts },
			less:    func(a, b *CommonDiagnosis) bool { return a.DiseaseName < b.DiseaseName },
			now:     time.Now,
		},
		Complaints: &Collection[ChiefComplaint]{
			records: records,
			name:    "chiefComplaints",
			setID:   func(c *ChiefComplaint, id string) { c.ID = id },
			stamp:   func(c *ChiefComplaint, ts int64) { c.CreatedAt = ts },
			less:    func(a, b *ChiefComplaint) bool { return a.Name < b.Name },
			now:     time.Now,
		},
		Panchkarma: &Collection[SavedPanchkarmaProcess]{
			records: records,
			name:    "panchkarmaProcesses",
			setID:   func(p *SavedPanchkarmaProcess, id string) { p.ID = id },
			stamp:   func(p *SavedPanchkarmaProcess, ts int64) { p.CreatedAt = ts },
			less:    func(a, b *SavedPanchkarmaProcess) bool { return a.Name < b.Name },
			now:     time.Now,
		},
	}
}
