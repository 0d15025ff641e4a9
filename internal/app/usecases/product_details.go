package usecases

import (
	"context"
	"fmt"

	"lightspeed-sync/internal/adapters/mirror"
	"lightspeed-sync/internal/app/editor"
	"lightspeed-sync/internal/domain/model"
	"lightspeed-sync/internal/logging"
)

// ProductDetails is the read model behind the edit flow: the source shop's
// candidates for one SKU plus every target shop's current mirrored state.
// Source is a list because a SKU may map to duplicate source products;
// callers must let the user disambiguate.
type ProductDetails struct {
	Source  []model.ProductData
	Targets map[string][]model.ProductData
	Shops   map[string]model.Shop

	// MissingInAllShops is true when no target shop has any mirrored
	// product for the SKU, so every shop would go through the create flow.
	MissingInAllShops bool
}

type ProductDetailsService interface {
	GetProductDetails(ctx context.Context, sku string) (*ProductDetails, error)
}

type ProductDetailsClient struct {
	store     mirror.StoreService
	sourceTLD string
	logger    logging.Notifier
}

func NewProductDetails(store mirror.StoreService, sourceTLD string, logger logging.Notifier) ProductDetailsService {
	return &ProductDetailsClient{
		store:     store,
		sourceTLD: sourceTLD,
		logger:    logger,
	}
}

func (c *ProductDetailsClient) GetProductDetails(ctx context.Context, sku string) (*ProductDetails, error) {
	shops, err := c.store.ListShops(ctx)
	if err != nil {
		return nil, err
	}

	details := &ProductDetails{
		Targets: make(map[string][]model.ProductData),
		Shops:   make(map[string]model.Shop, len(shops)),
	}

	var sourceShop *model.Shop
	for i := range shops {
		details.Shops[shops[i].TLD] = shops[i]
		if shops[i].TLD == c.sourceTLD {
			sourceShop = &shops[i]
		}
	}
	if sourceShop == nil {
		return nil, fmt.Errorf("source shop tld=%s not configured", c.sourceTLD)
	}

	details.Source, err = c.loadBySKU(ctx, *sourceShop, sku)
	if err != nil {
		return nil, err
	}

	targetRows := 0
	for _, shop := range shops {
		if shop.TLD == c.sourceTLD {
			continue
		}
		products, err := c.loadBySKU(ctx, shop, sku)
		if err != nil {
			return nil, err
		}
		details.Targets[shop.TLD] = products
		targetRows += len(products)
	}
	details.MissingInAllShops = targetRows == 0

	return details, nil
}

func (c *ProductDetailsClient) loadBySKU(ctx context.Context, shop model.Shop, sku string) ([]model.ProductData, error) {
	ids, err := c.store.ProductIDsBySKU(ctx, shop.ID, sku)
	if err != nil {
		return nil, fmt.Errorf("lookup sku=%s shop=%s: %w", sku, shop.TLD, err)
	}

	products := make([]model.ProductData, 0, len(ids))
	for _, id := range ids {
		rows, err := c.store.LoadProduct(ctx, shop.ID, id)
		if err != nil {
			return nil, fmt.Errorf("load product=%d shop=%s: %w", id, shop.TLD, err)
		}
		if rows == nil {
			// The variant lookup can race a concurrent mirror sync that
			// deleted the product.
			c.logger.LogWarning(fmt.Sprintf("Product %d vanished from mirror shop=%s", id, shop.TLD))
			continue
		}
		products = append(products, editor.LoadProduct(rows.Product, rows.Contents, rows.Variants, rows.VariantContents, rows.Images))
	}
	return products, nil
}
