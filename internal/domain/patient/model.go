package patient

import (
	"encoding/json"
	"fmt"

	"github.com/rakshanam/clinic/internal/platform/store"
)

// Patient is the demographic and clinical baseline for one person. The id is
// the storage key, not a stored field; weight and bloodPressure double as a
// denormalized "latest known vitals" cache refreshed from prescription
// writes.
type Patient struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Age           string `json:"age"`
	Gender        string `json:"gender,omitempty"`
	Weight        string `json:"weight,omitempty"`
	Height        string `json:"height,omitempty"`
	BloodGroup    string `json:"bloodGroup,omitempty"`
	BloodPressure string `json:"bloodPressure,omitempty"`
	Address       string `json:"address,omitempty"`
	PastIllnesses string `json:"pastIllnesses,omitempty"`
	CreatedAt     int64  `json:"createdAt,omitempty"`
	UpdatedAt     int64  `json:"updatedAt,omitempty"`
}

// Patch is a typed shallow partial update. Nil fields are left untouched;
// set fields replace the stored value wholesale.
type Patch struct {
	Name          *string `json:"name,omitempty"`
	Age           *string `json:"age,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	Weight        *string `json:"weight,omitempty"`
	Height        *string `json:"height,omitempty"`
	BloodGroup    *string `json:"bloodGroup,omitempty"`
	BloodPressure *string `json:"bloodPressure,omitempty"`
	Address       *string `json:"address,omitempty"`
	PastIllnesses *string `json:"pastIllnesses,omitempty"`
}

// Fields renders the patch as a store field bag containing only the set keys.
func (p Patch) Fields() (store.Fields, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode patient patch: %w", err)
	}
	var out store.Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode patient patch: %w", err)
	}
	return out, nil
}

func fromFields(id string, rec store.Fields) (*Patient, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode patient %s: %w", id, err)
	}
	var p Patient
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode patient %s: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

func toFields(p *Patient) (store.Fields, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode patient: %w", err)
	}
	var out store.Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode patient: %w", err)
	}
	// The key is the id; it is never stored inside the bag.
	delete(out, "id")
	return out, nil
}
