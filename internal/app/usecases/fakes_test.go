package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lightspeed-sync/internal/adapters/lightspeed/dto"
	"lightspeed-sync/internal/adapters/mirror"
	"lightspeed-sync/internal/domain/model"
	"lightspeed-sync/internal/logging"
)

type nopNotifier struct{}

func (nopNotifier) Log(string)             {}
func (nopNotifier) LogError(string, error) {}
func (nopNotifier) LogWarning(string)      {}
func (nopNotifier) LogSuccess(string)      {}

var _ logging.Notifier = nopNotifier{}

// fakeClient is an in-memory ClientService. failOn makes every call whose
// op name contains the substring fail.
type fakeClient struct {
	mu     sync.Mutex
	failOn string
	nextID int64

	products map[string][]dto.Product
	variants map[string][]dto.Variant
	images   []dto.ProductImage

	calls []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		nextID:   1000,
		products: make(map[string][]dto.Product),
		variants: make(map[string][]dto.Variant),
	}
}

func (f *fakeClient) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.failOn != "" && strings.Contains(op, f.failOn) {
		return fmt.Errorf("remote rejected %s", op)
	}
	return nil
}

func (f *fakeClient) assign() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeClient) FetchProducts(_ context.Context, lang string) ([]dto.Product, error) {
	if err := f.record("fetch products " + lang); err != nil {
		return nil, err
	}
	return f.products[lang], nil
}

func (f *fakeClient) FetchVariants(_ context.Context, lang string) ([]dto.Variant, error) {
	if err := f.record("fetch variants " + lang); err != nil {
		return nil, err
	}
	return f.variants[lang], nil
}

func (f *fakeClient) CreateProduct(_ context.Context, lang string, _ dto.ProductInput) (*dto.Product, error) {
	if err := f.record("create product " + lang); err != nil {
		return nil, err
	}
	return &dto.Product{ID: f.assign()}, nil
}

func (f *fakeClient) UpdateProduct(_ context.Context, lang string, productID int64, _ dto.ProductInput) error {
	return f.record(fmt.Sprintf("update product %s %d", lang, productID))
}

func (f *fakeClient) CreateVariant(_ context.Context, lang string, _ dto.VariantInput) (*dto.Variant, error) {
	if err := f.record("create variant " + lang); err != nil {
		return nil, err
	}
	return &dto.Variant{ID: f.assign()}, nil
}

func (f *fakeClient) UpdateVariant(_ context.Context, lang string, variantID int64, _ dto.VariantInput) error {
	return f.record(fmt.Sprintf("update variant %s %d", lang, variantID))
}

func (f *fakeClient) DeleteVariant(_ context.Context, lang string, variantID int64) error {
	return f.record(fmt.Sprintf("delete variant %s %d", lang, variantID))
}

func (f *fakeClient) GetProductImages(_ context.Context, productID int64, lang string) ([]dto.ProductImage, error) {
	if err := f.record(fmt.Sprintf("list images %s %d", lang, productID)); err != nil {
		return nil, err
	}
	return f.images, nil
}

func (f *fakeClient) CreateProductImage(_ context.Context, productID int64, lang string, _ dto.ImageInput) (*dto.ProductImage, error) {
	if err := f.record(fmt.Sprintf("create image %s %d", lang, productID)); err != nil {
		return nil, err
	}
	return &dto.ProductImage{ID: f.assign()}, nil
}

func (f *fakeClient) UpdateProductImage(_ context.Context, productID, imageID int64, lang string, _ dto.ImageInput) error {
	return f.record(fmt.Sprintf("update image %s %d %d", lang, productID, imageID))
}

func (f *fakeClient) DeleteProductImage(_ context.Context, productID, imageID int64, lang string) error {
	return f.record(fmt.Sprintf("delete image %s %d %d", lang, productID, imageID))
}

// fakeStore is an in-memory StoreService recording what was written.
type fakeStore struct {
	mu sync.Mutex

	shops []model.Shop
	rows  map[int64]*mirror.ProductRows // keyed by shop id, LoadProduct source

	upsertedProducts        map[int64][]model.ProductRow
	upsertedContents        map[int64][]model.ContentRow
	upsertedVariants        map[int64][]model.VariantRow
	upsertedVariantContents map[int64][]model.VariantContentRow
	upsertedImages          map[int64][]model.ImageRow

	replaced map[int64]mirror.ProductRows

	keptProducts map[int64][]int64
	keptVariants map[int64][]int64

	syncLogs   int64
	completed  map[int64]string
	logMetrics map[int64]model.SyncMetrics
}

func newFakeStore(shops ...model.Shop) *fakeStore {
	return &fakeStore{
		shops:                   shops,
		rows:                    make(map[int64]*mirror.ProductRows),
		upsertedProducts:        make(map[int64][]model.ProductRow),
		upsertedContents:        make(map[int64][]model.ContentRow),
		upsertedVariants:        make(map[int64][]model.VariantRow),
		upsertedVariantContents: make(map[int64][]model.VariantContentRow),
		upsertedImages:          make(map[int64][]model.ImageRow),
		replaced:                make(map[int64]mirror.ProductRows),
		keptProducts:            make(map[int64][]int64),
		keptVariants:            make(map[int64][]int64),
		completed:               make(map[int64]string),
		logMetrics:              make(map[int64]model.SyncMetrics),
	}
}

func (f *fakeStore) ListShops(context.Context) ([]model.Shop, error) {
	return f.shops, nil
}

func (f *fakeStore) GetShopByTLD(_ context.Context, tld string) (*model.Shop, error) {
	for i := range f.shops {
		if f.shops[i].TLD == tld {
			return &f.shops[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ProductIDsBySKU(_ context.Context, shopID int64, sku string) ([]int64, error) {
	rows, ok := f.rows[shopID]
	if !ok {
		return nil, nil
	}
	for _, v := range rows.Variants {
		if v.SKU == sku {
			return []int64{rows.Product.ProductID}, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) LoadProduct(_ context.Context, shopID, productID int64) (*mirror.ProductRows, error) {
	rows, ok := f.rows[shopID]
	if !ok || rows.Product.ProductID != productID {
		return nil, nil
	}
	return rows, nil
}

func (f *fakeStore) UpsertProductRows(_ context.Context, shopID int64, rows []model.ProductRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertedProducts[shopID] = append(f.upsertedProducts[shopID], rows...)
	return nil
}

func (f *fakeStore) UpsertContentRows(_ context.Context, shopID int64, rows []model.ContentRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertedContents[shopID] = append(f.upsertedContents[shopID], rows...)
	return nil
}

func (f *fakeStore) UpsertVariantRows(_ context.Context, shopID int64, rows []model.VariantRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertedVariants[shopID] = append(f.upsertedVariants[shopID], rows...)
	return nil
}

func (f *fakeStore) UpsertVariantContentRows(_ context.Context, shopID int64, rows []model.VariantContentRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertedVariantContents[shopID] = append(f.upsertedVariantContents[shopID], rows...)
	return nil
}

func (f *fakeStore) UpsertImageRows(_ context.Context, shopID int64, rows []model.ImageRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertedImages[shopID] = append(f.upsertedImages[shopID], rows...)
	return nil
}

func (f *fakeStore) DeleteProductsNotIn(_ context.Context, shopID int64, keep []int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keptProducts[shopID] = keep
	return 0, nil
}

func (f *fakeStore) DeleteVariantsNotIn(_ context.Context, shopID int64, keep []int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keptVariants[shopID] = keep
	return 0, nil
}

func (f *fakeStore) ReplaceProductState(_ context.Context, shopID int64, rows mirror.ProductRows) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced[shopID] = rows
	return nil
}

func (f *fakeStore) InsertSyncLog(_ context.Context, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncLogs++
	return f.syncLogs, nil
}

func (f *fakeStore) CompleteSyncLog(_ context.Context, id int64, status, _ string, metrics model.SyncMetrics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[id] = status
	f.logMetrics[id] = metrics
	return nil
}

var _ mirror.StoreService = (*fakeStore)(nil)
