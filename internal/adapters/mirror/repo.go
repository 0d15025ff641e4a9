package mirror

import (
	"context"
	"database/sql"
	"encoding/json"

	"lightspeed-sync/internal/domain/model"
)

// ProductRows bundles every mirror row of one product.
type ProductRows struct {
	Product         model.ProductRow
	Contents        []model.ContentRow
	Variants        []model.VariantRow
	VariantContents []model.VariantContentRow
	Images          []model.ImageRow
}

// StoreService is the local database mirror: the read source for current
// shop state and the write sink for post-reconciliation persistence. The
// mirror always follows the remote API, never user intent.
type StoreService interface {
	ListShops(ctx context.Context) ([]model.Shop, error)
	GetShopByTLD(ctx context.Context, tld string) (*model.Shop, error)

	ProductIDsBySKU(ctx context.Context, shopID int64, sku string) ([]int64, error)
	LoadProduct(ctx context.Context, shopID, productID int64) (*ProductRows, error)

	UpsertProductRows(ctx context.Context, shopID int64, rows []model.ProductRow) error
	UpsertContentRows(ctx context.Context, shopID int64, rows []model.ContentRow) error
	UpsertVariantRows(ctx context.Context, shopID int64, rows []model.VariantRow) error
	UpsertVariantContentRows(ctx context.Context, shopID int64, rows []model.VariantContentRow) error
	UpsertImageRows(ctx context.Context, shopID int64, rows []model.ImageRow) error
	DeleteProductsNotIn(ctx context.Context, shopID int64, keep []int64) (int, error)
	DeleteVariantsNotIn(ctx context.Context, shopID int64, keep []int64) (int, error)
	ReplaceProductState(ctx context.Context, shopID int64, rows ProductRows) error

	InsertSyncLog(ctx context.Context, shopID int64) (int64, error)
	CompleteSyncLog(ctx context.Context, logID int64, status, errMessage string, metrics model.SyncMetrics) error
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) StoreService {
	return &Store{db: db}
}

// imageJSON serializes an image reference for the mirror's JSON columns,
// keeping only title, thumb and src like the upstream payloads.
func imageJSON(img *model.ImageRef) (sql.NullString, error) {
	if img == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(map[string]string{
		"title": img.Title,
		"thumb": img.Thumb,
		"src":   img.Src,
	})
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func imageFromJSON(raw sql.NullString) *model.ImageRef {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil
	}
	var payload struct {
		Title string `json:"title"`
		Thumb string `json:"thumb"`
		Src   string `json:"src"`
	}
	if err := json.Unmarshal([]byte(raw.String), &payload); err != nil {
		return nil
	}
	if payload.Src == "" {
		return nil
	}
	return &model.ImageRef{Title: payload.Title, Thumb: payload.Thumb, Src: payload.Src}
}
