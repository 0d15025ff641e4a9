package model

import "time"

// Sync log statuses.
const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncMetrics counts what a mirror sync run did for one shop.
type SyncMetrics struct {
	ProductsFetched  int
	VariantsFetched  int
	ProductsSynced   int
	VariantsSynced   int
	ProductsDeleted  int
	VariantsDeleted  int
	VariantsFiltered int
}

// SyncLog is one row of the append-only sync history. It is the only
// durable record of a mirror sync or submit outcome.
type SyncLog struct {
	ID           int64
	ShopID       int64
	Status       string
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time
	Metrics      SyncMetrics
}
