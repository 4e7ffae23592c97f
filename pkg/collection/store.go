package collection

// Store owns the persisted record set. Implementations serialize writes
// internally; locks are held per operation, never across a batch, so
// interleaved single-record edits stay responsive during a long refresh.
type Store interface {
	// Upsert inserts the record or, if its key already exists, updates all
	// mutable fields in place. Quantity handling follows the store's
	// QuantityPolicy. LastUpdated is set by the store on every write.
	Upsert(rec Record) error

	// Record returns the stored record for the key, or ErrRecordNotFound.
	Record(key Key) (Record, error)

	// SetQuantity updates the quantity of an existing record, or fails
	// with ErrRecordNotFound. The line total is derived at read time.
	SetQuantity(key Key, quantity int) error

	// UpdatePrice sets a new unit price for an existing record, bumping
	// LastUpdated. A non-empty newRarity additionally re-keys the record,
	// which refresh uses when the catalog supplies a rarity for a record
	// stored without one.
	UpdatePrice(key Key, price float64, newRarity string) error

	// List returns all records in stable insertion order.
	List() []Record

	// TotalValue returns the sum of price*quantity over all records,
	// 0 for an empty store.
	TotalValue() float64

	// Len returns the number of stored records.
	Len() int
}
