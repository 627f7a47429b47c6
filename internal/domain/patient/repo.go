package patient

import "context"

// Repository is durable patient storage. GetByID returns store.ErrNotFound
// for a missing id; callers treat that as a normal outcome.
type Repository interface {
	ListAll(ctx context.Context) ([]*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Create(ctx context.Context, p *Patient) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	RecordVitals(ctx context.Context, id, weight, bloodPressure string) error
	Delete(ctx context.Context, id string) error
	Watch(id string, fn func(*Patient)) (cancel func())
}
