package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"lightspeed-sync/internal/adapters/lightspeed"
	"lightspeed-sync/internal/adapters/lightspeed/dto"
	"lightspeed-sync/internal/adapters/mirror"
	"lightspeed-sync/internal/domain/model"
	"lightspeed-sync/internal/logging"
)

type SyncMirrorService interface {
	Run(ctx context.Context) error
	RunShop(ctx context.Context, shop model.Shop) error
}

const maxConcurrentShops = 3

type SyncMirrorClient struct {
	clients map[string]lightspeed.ClientService
	store   mirror.StoreService
	logger  logging.Notifier
}

// NewSyncMirror builds the mirror sync job. clients is keyed by shop TLD.
func NewSyncMirror(clients map[string]lightspeed.ClientService, store mirror.StoreService, logger logging.Notifier) SyncMirrorService {
	return &SyncMirrorClient{
		clients: clients,
		store:   store,
		logger:  logger,
	}
}

// Run syncs every configured shop. Shops run concurrently and fail
// independently; the returned error joins the per-shop failures.
func (c *SyncMirrorClient) Run(ctx context.Context) error {
	shops, err := c.store.ListShops(ctx)
	if err != nil {
		c.logger.LogError("Error listing shops", err)
		return err
	}
	c.logger.Log(fmt.Sprintf("Mirror sync started shops=%d", len(shops)))

	var (
		mu       sync.Mutex
		shopErrs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentShops)
	for _, shop := range shops {
		shop := shop
		g.Go(func() error {
			if err := c.RunShop(gctx, shop); err != nil {
				mu.Lock()
				shopErrs = append(shopErrs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(shopErrs) > 0 {
		c.logger.LogError(fmt.Sprintf("Mirror sync completed with %d failed shops", len(shopErrs)), errors.Join(shopErrs...))
		return errors.Join(shopErrs...)
	}
	c.logger.LogSuccess(fmt.Sprintf("Mirror sync completed shops=%d", len(shops)))
	return nil
}

// RunShop reconciles one shop's mirror against the remote API: base
// language products and variants first, then content-only passes for the
// secondary languages, then orphan cleanup.
func (c *SyncMirrorClient) RunShop(ctx context.Context, shop model.Shop) error {
	client, ok := c.clients[shop.TLD]
	if !ok {
		err := fmt.Errorf("no api client configured for shop tld=%s", shop.TLD)
		c.logger.LogError("Shop sync skipped", err)
		return err
	}

	defaultLang, flagged := shop.DefaultLanguage()
	if defaultLang == "" {
		err := fmt.Errorf("shop tld=%s has no languages configured", shop.TLD)
		c.logger.LogError("Shop sync skipped", err)
		return err
	}
	if !flagged {
		c.logger.LogWarning(fmt.Sprintf("Shop tld=%s has no default language flagged, using %s", shop.TLD, defaultLang))
	}

	logID, err := c.store.InsertSyncLog(ctx, shop.ID)
	if err != nil {
		c.logger.LogError("Error opening sync log", err)
		return err
	}

	metrics, err := c.syncShop(ctx, client, shop, defaultLang)
	if err != nil {
		c.logger.LogError(fmt.Sprintf("Shop sync failed tld=%s", shop.TLD), err)
		if logErr := c.store.CompleteSyncLog(ctx, logID, model.SyncStatusError, err.Error(), metrics); logErr != nil {
			c.logger.LogError("Error closing sync log", logErr)
		}
		return fmt.Errorf("sync shop tld=%s: %w", shop.TLD, err)
	}

	if err := c.store.CompleteSyncLog(ctx, logID, model.SyncStatusSuccess, "", metrics); err != nil {
		c.logger.LogError("Error closing sync log", err)
		return err
	}
	c.logger.LogSuccess(fmt.Sprintf(
		"Shop sync completed tld=%s products=%d variants=%d filtered=%d deleted_products=%d deleted_variants=%d",
		shop.TLD, metrics.ProductsSynced, metrics.VariantsSynced, metrics.VariantsFiltered,
		metrics.ProductsDeleted, metrics.VariantsDeleted,
	))
	return nil
}

func (c *SyncMirrorClient) syncShop(ctx context.Context, client lightspeed.ClientService, shop model.Shop, defaultLang string) (model.SyncMetrics, error) {
	var metrics model.SyncMetrics

	var (
		products []dto.Product
		variants []dto.Variant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = client.FetchProducts(gctx, defaultLang)
		return err
	})
	g.Go(func() error {
		var err error
		variants, err = client.FetchVariants(gctx, defaultLang)
		return err
	})
	if err := g.Wait(); err != nil {
		return metrics, err
	}
	metrics.ProductsFetched = len(products)
	metrics.VariantsFetched = len(variants)

	productIDs := make(map[int64]struct{}, len(products))
	productRows := make([]model.ProductRow, 0, len(products))
	contentRows := make([]model.ContentRow, 0, len(products))
	for _, p := range products {
		productIDs[p.ID] = struct{}{}
		productRows = append(productRows, model.ProductRow{
			ProductID:  p.ID,
			ShopID:     shop.ID,
			Visibility: p.Visibility,
			Image:      imageRefFromDTO(p.Image),
		})
		contentRows = append(contentRows, productContentRow(p, defaultLang))
	}

	variantRows := make([]model.VariantRow, 0, len(variants))
	variantContentRows := make([]model.VariantContentRow, 0, len(variants))
	for _, v := range variants {
		productID := v.ProductID()
		if _, ok := productIDs[productID]; !ok {
			metrics.VariantsFiltered++
			c.logger.LogWarning(fmt.Sprintf(
				"Orphaned variant skipped tld=%s variant=%d product=%d", shop.TLD, v.ID, productID))
			continue
		}
		variantRows = append(variantRows, model.VariantRow{
			VariantID: v.ID,
			ProductID: productID,
			SKU:       v.SKU,
			IsDefault: v.IsDefault,
			SortOrder: v.SortOrder,
			PriceExcl: v.PriceExcl,
			Image:     imageRefFromDTO(v.Image),
		})
		variantContentRows = append(variantContentRows, model.VariantContentRow{
			VariantID: v.ID,
			Lang:      defaultLang,
			Title:     v.Title,
		})
	}

	if err := c.store.UpsertProductRows(ctx, shop.ID, productRows); err != nil {
		return metrics, err
	}
	if err := c.store.UpsertContentRows(ctx, shop.ID, contentRows); err != nil {
		return metrics, err
	}
	if err := c.store.UpsertVariantRows(ctx, shop.ID, variantRows); err != nil {
		return metrics, err
	}
	if err := c.store.UpsertVariantContentRows(ctx, shop.ID, variantContentRows); err != nil {
		return metrics, err
	}
	metrics.ProductsSynced = len(productRows)
	metrics.VariantsSynced = len(variantRows)

	keepProducts := make([]int64, 0, len(productRows))
	for _, row := range productRows {
		keepProducts = append(keepProducts, row.ProductID)
	}
	keepVariants := make([]int64, 0, len(variantRows))
	for _, row := range variantRows {
		keepVariants = append(keepVariants, row.VariantID)
	}
	deleted, err := c.store.DeleteProductsNotIn(ctx, shop.ID, keepProducts)
	if err != nil {
		return metrics, err
	}
	metrics.ProductsDeleted = deleted
	deleted, err = c.store.DeleteVariantsNotIn(ctx, shop.ID, keepVariants)
	if err != nil {
		return metrics, err
	}
	metrics.VariantsDeleted = deleted

	for _, lang := range shop.ActiveLanguages() {
		if lang == defaultLang {
			continue
		}
		if err := c.syncLanguageContent(ctx, client, shop, lang, productIDs, keepVariants); err != nil {
			return metrics, fmt.Errorf("sync lang=%s content: %w", lang, err)
		}
	}

	return metrics, nil
}

// syncLanguageContent runs a content-only pass for one secondary language.
// Rows are filtered to ids known from the base-language pass so a product
// appearing mid-sync cannot leave dangling content.
func (c *SyncMirrorClient) syncLanguageContent(ctx context.Context, client lightspeed.ClientService, shop model.Shop, lang string, productIDs map[int64]struct{}, knownVariants []int64) error {
	variantIDs := make(map[int64]struct{}, len(knownVariants))
	for _, id := range knownVariants {
		variantIDs[id] = struct{}{}
	}

	products, err := client.FetchProducts(ctx, lang)
	if err != nil {
		return err
	}
	contentRows := make([]model.ContentRow, 0, len(products))
	for _, p := range products {
		if _, ok := productIDs[p.ID]; !ok {
			continue
		}
		contentRows = append(contentRows, productContentRow(p, lang))
	}
	if err := c.store.UpsertContentRows(ctx, shop.ID, contentRows); err != nil {
		return err
	}

	variants, err := client.FetchVariants(ctx, lang)
	if err != nil {
		return err
	}
	variantContentRows := make([]model.VariantContentRow, 0, len(variants))
	for _, v := range variants {
		if _, ok := variantIDs[v.ID]; !ok {
			continue
		}
		variantContentRows = append(variantContentRows, model.VariantContentRow{
			VariantID: v.ID,
			Lang:      lang,
			Title:     v.Title,
		})
	}
	return c.store.UpsertVariantContentRows(ctx, shop.ID, variantContentRows)
}

func productContentRow(p dto.Product, lang string) model.ContentRow {
	return model.ContentRow{
		ProductID:   p.ID,
		Lang:        lang,
		URL:         nullable(p.URL),
		Title:       nullable(p.Title),
		Fulltitle:   nullable(p.Fulltitle),
		Description: nullable(p.Description),
		Content:     nullable(p.Content),
	}
}

func imageRefFromDTO(img *dto.Image) *model.ImageRef {
	if img == nil || img.Src == "" {
		return nil
	}
	return &model.ImageRef{
		Src:   img.Src,
		Thumb: img.Thumb,
		Title: img.Title,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
