package dto

type ResourceRef struct {
	Resource struct {
		ID int64 `json:"id"`
	} `json:"resource"`
}

type Variant struct {
	ID        int64        `json:"id"`
	IsDefault bool         `json:"isDefault"`
	SortOrder int          `json:"sortOrder,omitempty"`
	SKU       string       `json:"sku,omitempty"`
	PriceExcl float64      `json:"priceExcl,omitempty"`
	Title     string       `json:"title,omitempty"`
	Image     *Image       `json:"image,omitempty"`
	Product   *ResourceRef `json:"product,omitempty"`
}

// ProductID returns the owning product id, or 0 for a detached variant.
func (v Variant) ProductID() int64 {
	if v.Product == nil {
		return 0
	}
	return v.Product.Resource.ID
}

type VariantsResponse struct {
	Variants []Variant `json:"variants"`
}

type VariantResponse struct {
	Variant Variant `json:"variant"`
}

// VariantInput is the writable subset of a variant. Product must be set on
// create; the API ignores it on update. A variant image can be assigned but
// never cleared remotely, so there is no null-image form.
type VariantInput struct {
	Product   *int64   `json:"product,omitempty"`
	IsDefault *bool    `json:"isDefault,omitempty"`
	SortOrder *int     `json:"sortOrder,omitempty"`
	SKU       *string  `json:"sku,omitempty"`
	PriceExcl *float64 `json:"priceExcl,omitempty"`
	Title     *string  `json:"title,omitempty"`
	Image     *Image   `json:"image,omitempty"`
}
