package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lightspeed-sync/internal/domain/model"
)

// upsertChunk caps multi-row statements so a large shop never produces an
// oversized packet.
const upsertChunk = 500

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) UpsertProductRows(ctx context.Context, shopID int64, rows []model.ProductRow) error {
	return upsertProductRows(ctx, s.db, shopID, rows)
}

func upsertProductRows(ctx context.Context, db execer, shopID int64, rows []model.ProductRow) error {
	for start := 0; start < len(rows); start += upsertChunk {
		chunk := rows[start:min(start+upsertChunk, len(rows))]
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*4)
		for _, row := range chunk {
			image, err := imageJSON(row.Image)
			if err != nil {
				return fmt.Errorf("mirror: marshal product image: %w", err)
			}
			placeholders = append(placeholders, "(?, ?, ?, ?)")
			args = append(args, shopID, row.ProductID, row.Visibility, image)
		}
		query := `INSERT INTO products (shop_id, lightspeed_product_id, visibility, image)
		 VALUES ` + strings.Join(placeholders, ", ") + `
		 ON DUPLICATE KEY UPDATE visibility = VALUES(visibility), image = VALUES(image)`
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mirror: upsert %d product rows: %w", len(chunk), err)
		}
	}
	return nil
}

func (s *Store) UpsertContentRows(ctx context.Context, shopID int64, rows []model.ContentRow) error {
	return upsertContentRows(ctx, s.db, shopID, rows)
}

func upsertContentRows(ctx context.Context, db execer, shopID int64, rows []model.ContentRow) error {
	for start := 0; start < len(rows); start += upsertChunk {
		chunk := rows[start:min(start+upsertChunk, len(rows))]
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*8)
		for _, row := range chunk {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, shopID, row.ProductID, row.Lang, row.URL, row.Title, row.Fulltitle, row.Description, row.Content)
		}
		query := `INSERT INTO product_content
		 (shop_id, lightspeed_product_id, language_code, url, title, fulltitle, description, content)
		 VALUES ` + strings.Join(placeholders, ", ") + `
		 ON DUPLICATE KEY UPDATE url = VALUES(url), title = VALUES(title), fulltitle = VALUES(fulltitle),
		 description = VALUES(description), content = VALUES(content)`
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mirror: upsert %d content rows: %w", len(chunk), err)
		}
	}
	return nil
}

func (s *Store) UpsertVariantRows(ctx context.Context, shopID int64, rows []model.VariantRow) error {
	return upsertVariantRows(ctx, s.db, shopID, rows)
}

func upsertVariantRows(ctx context.Context, db execer, shopID int64, rows []model.VariantRow) error {
	for start := 0; start < len(rows); start += upsertChunk {
		chunk := rows[start:min(start+upsertChunk, len(rows))]
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*8)
		for _, row := range chunk {
			image, err := imageJSON(row.Image)
			if err != nil {
				return fmt.Errorf("mirror: marshal variant image: %w", err)
			}
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, shopID, row.ProductID, row.VariantID, row.SKU, row.IsDefault, row.SortOrder, row.PriceExcl, image)
		}
		query := `INSERT INTO variants
		 (shop_id, lightspeed_product_id, lightspeed_variant_id, sku, is_default, sort_order, price_excl, image)
		 VALUES ` + strings.Join(placeholders, ", ") + `
		 ON DUPLICATE KEY UPDATE lightspeed_product_id = VALUES(lightspeed_product_id), sku = VALUES(sku),
		 is_default = VALUES(is_default), sort_order = VALUES(sort_order),
		 price_excl = VALUES(price_excl), image = VALUES(image)`
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mirror: upsert %d variant rows: %w", len(chunk), err)
		}
	}
	return nil
}

func (s *Store) UpsertVariantContentRows(ctx context.Context, shopID int64, rows []model.VariantContentRow) error {
	return upsertVariantContentRows(ctx, s.db, shopID, rows)
}

func upsertVariantContentRows(ctx context.Context, db execer, shopID int64, rows []model.VariantContentRow) error {
	for start := 0; start < len(rows); start += upsertChunk {
		chunk := rows[start:min(start+upsertChunk, len(rows))]
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*4)
		for _, row := range chunk {
			placeholders = append(placeholders, "(?, ?, ?, ?)")
			args = append(args, shopID, row.VariantID, row.Lang, row.Title)
		}
		query := `INSERT INTO variant_content (shop_id, lightspeed_variant_id, language_code, title)
		 VALUES ` + strings.Join(placeholders, ", ") + `
		 ON DUPLICATE KEY UPDATE title = VALUES(title)`
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mirror: upsert %d variant content rows: %w", len(chunk), err)
		}
	}
	return nil
}

func (s *Store) UpsertImageRows(ctx context.Context, shopID int64, rows []model.ImageRow) error {
	return upsertImageRows(ctx, s.db, shopID, rows)
}

func upsertImageRows(ctx context.Context, db execer, shopID int64, rows []model.ImageRow) error {
	for start := 0; start < len(rows); start += upsertChunk {
		chunk := rows[start:min(start+upsertChunk, len(rows))]
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*7)
		for _, row := range chunk {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, shopID, row.ProductID, row.RemoteID, row.Src, row.Thumb, row.Title, row.SortOrder)
		}
		query := `INSERT INTO product_images
		 (shop_id, lightspeed_product_id, lightspeed_image_id, src, thumb, title, sort_order)
		 VALUES ` + strings.Join(placeholders, ", ") + `
		 ON DUPLICATE KEY UPDATE lightspeed_image_id = VALUES(lightspeed_image_id),
		 thumb = VALUES(thumb), title = VALUES(title), sort_order = VALUES(sort_order)`
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mirror: upsert %d image rows: %w", len(chunk), err)
		}
	}
	return nil
}

// DeleteProductsNotIn removes mirror products orphaned relative to the
// remote API. Child rows cascade via foreign keys.
func (s *Store) DeleteProductsNotIn(ctx context.Context, shopID int64, keep []int64) (int, error) {
	return s.deleteNotIn(ctx, "products", "lightspeed_product_id", shopID, keep)
}

// DeleteVariantsNotIn removes mirror variants orphaned relative to the
// remote API.
func (s *Store) DeleteVariantsNotIn(ctx context.Context, shopID int64, keep []int64) (int, error) {
	return s.deleteNotIn(ctx, "variants", "lightspeed_variant_id", shopID, keep)
}

func (s *Store) deleteNotIn(ctx context.Context, table, column string, shopID int64, keep []int64) (int, error) {
	var query string
	var args []any
	if len(keep) == 0 {
		query = `DELETE FROM ` + table + ` WHERE shop_id = ?`
		args = []any{shopID}
	} else {
		query, args = inQuery(`DELETE FROM `+table+` WHERE shop_id = ? AND `+column+` NOT IN `, shopID, keep)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mirror: delete orphaned %s shop=%d: %w", table, shopID, err)
	}
	affected, _ := result.RowsAffected()
	return int(affected), nil
}

// ReplaceProductState upserts one product's post-submit rows and deletes
// child rows no longer present, inside one transaction.
func (s *Store) ReplaceProductState(ctx context.Context, shopID int64, rows ProductRows) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mirror: begin replace product state: %w", err)
	}
	defer tx.Rollback()

	if err := upsertProductRows(ctx, tx, shopID, []model.ProductRow{rows.Product}); err != nil {
		return err
	}
	if err := upsertContentRows(ctx, tx, shopID, rows.Contents); err != nil {
		return err
	}
	if err := upsertVariantRows(ctx, tx, shopID, rows.Variants); err != nil {
		return err
	}
	if err := upsertVariantContentRows(ctx, tx, shopID, rows.VariantContents); err != nil {
		return err
	}
	if err := upsertImageRows(ctx, tx, shopID, rows.Images); err != nil {
		return err
	}

	productID := rows.Product.ProductID
	keepVariants := make([]int64, 0, len(rows.Variants))
	for _, v := range rows.Variants {
		keepVariants = append(keepVariants, v.VariantID)
	}

	if len(keepVariants) == 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM variants WHERE shop_id = ? AND lightspeed_product_id = ?`, shopID, productID)
	} else {
		placeholders := make([]string, len(keepVariants))
		args := []any{shopID, productID}
		for i, id := range keepVariants {
			placeholders[i] = "?"
			args = append(args, id)
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM variants WHERE shop_id = ? AND lightspeed_product_id = ? AND lightspeed_variant_id NOT IN (`+strings.Join(placeholders, ", ")+`)`,
			args...)
	}
	if err != nil {
		return fmt.Errorf("mirror: delete removed variants product=%d: %w", productID, err)
	}

	if len(rows.Images) == 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM product_images WHERE shop_id = ? AND lightspeed_product_id = ?`, shopID, productID)
	} else {
		placeholders := make([]string, len(rows.Images))
		args := []any{shopID, productID}
		for i, img := range rows.Images {
			placeholders[i] = "?"
			args = append(args, img.Src)
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM product_images WHERE shop_id = ? AND lightspeed_product_id = ? AND src NOT IN (`+strings.Join(placeholders, ", ")+`)`,
			args...)
	}
	if err != nil {
		return fmt.Errorf("mirror: delete removed images product=%d: %w", productID, err)
	}

	return tx.Commit()
}

func inQuery(prefix string, shopID int64, ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, shopID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return prefix + "(" + strings.Join(placeholders, ", ") + ")", args
}
