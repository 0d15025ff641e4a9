package mirror

import (
	"context"
	"fmt"
	"time"

	"lightspeed-sync/internal/domain/model"
)

// InsertSyncLog opens a sync history row in the running state and returns
// its id for the later CompleteSyncLog call.
func (s *Store) InsertSyncLog(ctx context.Context, shopID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_logs (shop_id, status, started_at) VALUES (?, ?, ?)`,
		shopID, model.SyncStatusRunning, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mirror: insert sync log shop=%d: %w", shopID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("mirror: sync log insert id: %w", err)
	}
	return id, nil
}

// CompleteSyncLog closes a sync history row with its final status and the
// run's counters. errorMessage is stored empty on success.
func (s *Store) CompleteSyncLog(ctx context.Context, id int64, status, errorMessage string, metrics model.SyncMetrics) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sync_logs SET status = ?, error_message = ?, completed_at = ?,
		 products_fetched = ?, variants_fetched = ?, products_synced = ?, variants_synced = ?,
		 products_deleted = ?, variants_deleted = ?, variants_filtered = ?
		 WHERE id = ?`,
		status, errorMessage, time.Now().UTC(),
		metrics.ProductsFetched, metrics.VariantsFetched, metrics.ProductsSynced, metrics.VariantsSynced,
		metrics.ProductsDeleted, metrics.VariantsDeleted, metrics.VariantsFiltered,
		id)
	if err != nil {
		return fmt.Errorf("mirror: complete sync log id=%d: %w", id, err)
	}
	return nil
}
