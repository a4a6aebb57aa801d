package repositories

import "pasartani/internal/models"

// Snapshot is the full persistent state of the marketplace: every entity the
// in-memory stores hold, in one value.
type Snapshot struct {
	Customers     []models.Customer
	Farmers       []models.Farmer
	Products      []models.Product
	Orders        []models.Order
	Subscriptions []models.Subscription
}

// SnapshotRepository is the durable-store boundary. The core loads one
// snapshot at startup and saves one on shutdown (or on demand); any lossless
// encoding of the entities suffices, provided load-save-load round-trips to
// identical values.
type SnapshotRepository interface {
	LoadAll() (*Snapshot, error)
	SaveAll(snap *Snapshot) error
}
