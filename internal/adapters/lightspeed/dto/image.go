package dto

type ProductImage struct {
	ID        int64  `json:"id"`
	SortOrder int    `json:"sortOrder,omitempty"`
	Src       string `json:"src,omitempty"`
	Thumb     string `json:"thumb,omitempty"`
	Title     string `json:"title,omitempty"`
}

type ProductImagesResponse struct {
	ProductImages []ProductImage `json:"productImages"`
}

type ProductImageResponse struct {
	ProductImage ProductImage `json:"productImage"`
}

// ImageInput is the writable subset of a product image. Attachment is a
// base64 payload or a source URL depending on which field is set.
type ImageInput struct {
	Src       *string `json:"src,omitempty"`
	Title     *string `json:"title,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}
