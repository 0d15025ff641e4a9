package model

// Raw mirror rows as the read accessors return them. The content model
// joins them into ProductData; the mirror adapter scans and upserts them.

type ProductRow struct {
	ProductID  int64
	ShopID     int64
	Visibility string
	Image      *ImageRef
}

type ContentRow struct {
	ProductID   int64
	Lang        string
	URL         *string
	Title       *string
	Fulltitle   *string
	Description *string
	Content     *string
}

type VariantRow struct {
	VariantID int64
	ProductID int64
	SKU       string
	IsDefault bool
	SortOrder int
	PriceExcl float64
	Image     *ImageRef
}

type VariantContentRow struct {
	VariantID int64
	Lang      string
	Title     string
}

type ImageRow struct {
	ID        string
	RemoteID  int64
	ProductID int64
	Src       string
	Thumb     string
	Title     string
	SortOrder int
}
