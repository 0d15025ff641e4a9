package dto

// Image is the normalized image payload: only title, thumb and src are
// kept from the API response.
type Image struct {
	Src       string `json:"src,omitempty"`
	Thumb     string `json:"thumb,omitempty"`
	Title     string `json:"title,omitempty"`
	SortOrder int    `json:"sortOrder,omitempty"`
}

type Product struct {
	ID          int64  `json:"id"`
	Visibility  string `json:"visibility,omitempty"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Fulltitle   string `json:"fulltitle,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Image       *Image `json:"image,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type ProductsResponse struct {
	Products []Product `json:"products"`
}

type ProductResponse struct {
	Product Product `json:"product"`
}

// ProductInput is the writable subset of a product. Nil fields are left
// untouched by the API.
type ProductInput struct {
	Visibility  *string `json:"visibility,omitempty"`
	Title       *string `json:"title,omitempty"`
	Fulltitle   *string `json:"fulltitle,omitempty"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
}
