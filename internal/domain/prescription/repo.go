package prescription

import "context"

// Repository is the persistence boundary for prescriptions.
type Repository interface {
	ListAll(ctx context.Context) ([]*Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error)
	GetByID(ctx context.Context, id string) (*Prescription, error)
	Create(ctx context.Context, rx *Prescription) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
	DeleteByPatient(ctx context.Context, patientID string) (int, error)
}
