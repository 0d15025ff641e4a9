package mirror

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lightspeed-sync/internal/domain/model"
)

func (s *Store) ListShops(ctx context.Context) ([]model.Shop, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, tld FROM shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("mirror: list shops: %w", err)
	}
	defer rows.Close()

	var shops []model.Shop
	for rows.Next() {
		var shop model.Shop
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.TLD); err != nil {
			return nil, fmt.Errorf("mirror: scan shop: %w", err)
		}
		shops = append(shops, shop)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range shops {
		langs, err := s.shopLanguages(ctx, shops[i].ID)
		if err != nil {
			return nil, err
		}
		shops[i].Languages = langs
	}
	return shops, nil
}

func (s *Store) GetShopByTLD(ctx context.Context, tld string) (*model.Shop, error) {
	var shop model.Shop
	err := s.db.QueryRowContext(ctx, `SELECT id, name, tld FROM shops WHERE tld = ?`, tld).
		Scan(&shop.ID, &shop.Name, &shop.TLD)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mirror: shop tld=%s not found", tld)
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: get shop tld=%s: %w", tld, err)
	}
	langs, err := s.shopLanguages(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	shop.Languages = langs
	return &shop, nil
}

func (s *Store) shopLanguages(ctx context.Context, shopID int64) ([]model.Language, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, is_default, is_active FROM shop_languages WHERE shop_id = ? ORDER BY id`, shopID)
	if err != nil {
		return nil, fmt.Errorf("mirror: shop languages shop=%d: %w", shopID, err)
	}
	defer rows.Close()

	var langs []model.Language
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.Code, &l.IsDefault, &l.IsActive); err != nil {
			return nil, fmt.Errorf("mirror: scan shop language: %w", err)
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

// ProductIDsBySKU resolves product ids whose variants carry the SKU.
// Duplicates are possible and preserved: a SKU may map to more than one
// product, and callers let the operator disambiguate.
func (s *Store) ProductIDsBySKU(ctx context.Context, shopID int64, sku string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT lightspeed_product_id FROM variants
		 WHERE shop_id = ? AND sku = ? ORDER BY lightspeed_product_id`, shopID, sku)
	if err != nil {
		return nil, fmt.Errorf("mirror: products by sku shop=%d: %w", shopID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadProduct reads every mirror row of one product; nil when the
// product has no mirror row for this shop.
func (s *Store) LoadProduct(ctx context.Context, shopID, productID int64) (*ProductRows, error) {
	var out ProductRows
	var image sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT lightspeed_product_id, shop_id, COALESCE(visibility, ''), image
		 FROM products WHERE shop_id = ? AND lightspeed_product_id = ?`, shopID, productID).
		Scan(&out.Product.ProductID, &out.Product.ShopID, &out.Product.Visibility, &image)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: load product shop=%d product=%d: %w", shopID, productID, err)
	}
	out.Product.Image = imageFromJSON(image)

	if out.Contents, err = s.productContents(ctx, shopID, productID); err != nil {
		return nil, err
	}
	if out.Variants, err = s.productVariants(ctx, shopID, productID); err != nil {
		return nil, err
	}
	variantIDs := make([]int64, 0, len(out.Variants))
	for _, v := range out.Variants {
		variantIDs = append(variantIDs, v.VariantID)
	}
	if out.VariantContents, err = s.variantContents(ctx, shopID, variantIDs); err != nil {
		return nil, err
	}
	if out.Images, err = s.productImages(ctx, shopID, productID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) productContents(ctx context.Context, shopID, productID int64) ([]model.ContentRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lightspeed_product_id, language_code, url, title, fulltitle, description, content
		 FROM product_content WHERE shop_id = ? AND lightspeed_product_id = ?`, shopID, productID)
	if err != nil {
		return nil, fmt.Errorf("mirror: product content shop=%d product=%d: %w", shopID, productID, err)
	}
	defer rows.Close()

	var out []model.ContentRow
	for rows.Next() {
		var row model.ContentRow
		if err := rows.Scan(&row.ProductID, &row.Lang, &row.URL, &row.Title, &row.Fulltitle, &row.Description, &row.Content); err != nil {
			return nil, fmt.Errorf("mirror: scan product content: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) productVariants(ctx context.Context, shopID, productID int64) ([]model.VariantRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lightspeed_variant_id, lightspeed_product_id, COALESCE(sku, ''), is_default,
		        COALESCE(sort_order, 0), COALESCE(price_excl, 0), image
		 FROM variants WHERE shop_id = ? AND lightspeed_product_id = ?
		 ORDER BY is_default DESC, sort_order, lightspeed_variant_id`, shopID, productID)
	if err != nil {
		return nil, fmt.Errorf("mirror: variants shop=%d product=%d: %w", shopID, productID, err)
	}
	defer rows.Close()

	var out []model.VariantRow
	for rows.Next() {
		var row model.VariantRow
		var image sql.NullString
		if err := rows.Scan(&row.VariantID, &row.ProductID, &row.SKU, &row.IsDefault, &row.SortOrder, &row.PriceExcl, &image); err != nil {
			return nil, fmt.Errorf("mirror: scan variant: %w", err)
		}
		row.Image = imageFromJSON(image)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) variantContents(ctx context.Context, shopID int64, variantIDs []int64) ([]model.VariantContentRow, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	query, args := inQuery(
		`SELECT lightspeed_variant_id, language_code, COALESCE(title, '')
		 FROM variant_content WHERE shop_id = ? AND lightspeed_variant_id IN `, shopID, variantIDs)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mirror: variant content shop=%d: %w", shopID, err)
	}
	defer rows.Close()

	var out []model.VariantContentRow
	for rows.Next() {
		var row model.VariantContentRow
		if err := rows.Scan(&row.VariantID, &row.Lang, &row.Title); err != nil {
			return nil, fmt.Errorf("mirror: scan variant content: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) productImages(ctx context.Context, shopID, productID int64) ([]model.ImageRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(lightspeed_image_id, 0), lightspeed_product_id, src,
		        COALESCE(thumb, ''), COALESCE(title, ''), COALESCE(sort_order, 0)
		 FROM product_images WHERE shop_id = ? AND lightspeed_product_id = ?
		 ORDER BY sort_order, src`, shopID, productID)
	if err != nil {
		return nil, fmt.Errorf("mirror: product images shop=%d product=%d: %w", shopID, productID, err)
	}
	defer rows.Close()

	var out []model.ImageRow
	for rows.Next() {
		var row model.ImageRow
		if err := rows.Scan(&row.RemoteID, &row.ProductID, &row.Src, &row.Thumb, &row.Title, &row.SortOrder); err != nil {
			return nil, fmt.Errorf("mirror: scan product image: %w", err)
		}
		row.ID = uuid.NewString()
		out = append(out, row)
	}
	return out, rows.Err()
}
