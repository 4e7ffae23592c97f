// Package collection defines the persisted record set of the library: the
// Record type, its natural key, and the Store implementations that
// own all durable writes. Every component above this package produces values;
// only a Store persists them.
package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/collectorking/collectorking/pkg/errors"
)

// MaxImagePaths is the maximum number of locally cached images per record.
const MaxImagePaths = 3

// Key is the natural key of a record: a printed set code plus its canonical
// rarity. One key maps to exactly one stored record.
type Key struct {
	SetCode string
	Rarity  string
}

// String implements fmt.Stringer.
func (k Key) String() string {
	if k.Rarity == "" {
		return k.SetCode
	}
	return k.SetCode + " [" + k.Rarity + "]"
}

// Record is the unit of persistence: one owned printing of a card.
type Record struct {
	SetCode     string    `yaml:"set_code" json:"set_code"`
	Rarity      string    `yaml:"rarity" json:"rarity"`
	Name        string    `yaml:"name" json:"name"`
	SetName     string    `yaml:"set_name" json:"set_name"`
	Price       float64   `yaml:"price" json:"price"`
	Quantity    int       `yaml:"quantity" json:"quantity"`
	ImagePaths  []string  `yaml:"image_paths,omitempty" json:"image_paths,omitempty"`
	ExternalID  *int64    `yaml:"external_id,omitempty" json:"external_id,omitempty"`
	LastUpdated time.Time `yaml:"last_updated" json:"last_updated"`
}

// Key returns the record's natural key.
func (r Record) Key() Key {
	return Key{SetCode: r.SetCode, Rarity: r.Rarity}
}

// LineTotal returns price multiplied by quantity. It is derived at read time
// and never persisted.
func (r Record) LineTotal() float64 {
	return r.Price * float64(r.Quantity)
}

// JoinedImagePaths returns the image paths as a single comma-joined field,
// the representation used on export.
func (r Record) JoinedImagePaths() string {
	return strings.Join(r.ImagePaths, ",")
}

// Validate checks the record's invariants before it is accepted by a Store.
func (r Record) Validate() error {
	if strings.TrimSpace(r.SetCode) == "" {
		return &errors.ValidationError{Field: "set_code", Message: "cannot be empty"}
	}
	if r.Price < 0 {
		return &errors.ValidationError{Field: "price", Value: r.Price, Message: "cannot be negative"}
	}
	if r.Quantity < 0 {
		return &errors.ValidationError{Field: "quantity", Value: r.Quantity, Message: "cannot be negative"}
	}
	if len(r.ImagePaths) > MaxImagePaths {
		return &errors.ValidationError{
			Field:   "image_paths",
			Value:   len(r.ImagePaths),
			Message: fmt.Sprintf("at most %d images per record", MaxImagePaths),
		}
	}
	return nil
}

// QuantityPolicy controls what Upsert does with the quantity of an already
// stored key: replace it with the incoming value, or accumulate.
type QuantityPolicy int

const (
	// QuantityReplace overwrites the stored quantity with the incoming one.
	// This matches re-entering a corrected count for a card you own.
	QuantityReplace QuantityPolicy = iota

	// QuantityAccumulate adds the incoming quantity to the stored one.
	// This matches importing a second binder of the same cards.
	QuantityAccumulate
)

// String implements fmt.Stringer.
func (p QuantityPolicy) String() string {
	switch p {
	case QuantityAccumulate:
		return "accumulate"
	default:
		return "replace"
	}
}

// ParseQuantityPolicy parses a policy name. Unknown names are an error so a
// typo in configuration cannot silently change import semantics.
func ParseQuantityPolicy(s string) (QuantityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return QuantityReplace, nil
	case "accumulate", "sum", "add":
		return QuantityAccumulate, nil
	default:
		return QuantityReplace, &errors.ValidationError{
			Field:   "quantity_policy",
			Value:   s,
			Message: `must be "replace" or "accumulate"`,
		}
	}
}
