package lightspeed

import (
	"context"
	"fmt"
	"net/http"

	"lightspeed-sync/internal/adapters/lightspeed/dto"
)

func (c *Client) GetProductImages(ctx context.Context, productID int64, lang string) ([]dto.ProductImage, error) {
	var resp dto.ProductImagesResponse
	url := c.endpoint(lang, fmt.Sprintf("products/%d/images.json", productID), nil)
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("get product images product=%d lang=%s: %w", productID, lang, err)
	}
	return resp.ProductImages, nil
}

func (c *Client) CreateProductImage(ctx context.Context, productID int64, lang string, in dto.ImageInput) (*dto.ProductImage, error) {
	var resp dto.ProductImageResponse
	url := c.endpoint(lang, fmt.Sprintf("products/%d/images.json", productID), nil)
	err := c.doRequest(ctx, http.MethodPost, url, map[string]any{"productImage": in}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create product image product=%d lang=%s: %w", productID, lang, err)
	}
	if resp.ProductImage.ID == 0 {
		return nil, fmt.Errorf("create product image product=%d lang=%s: empty image id in response", productID, lang)
	}
	return &resp.ProductImage, nil
}

func (c *Client) UpdateProductImage(ctx context.Context, productID, imageID int64, lang string, in dto.ImageInput) error {
	url := c.endpoint(lang, fmt.Sprintf("products/%d/images/%d.json", productID, imageID), nil)
	err := c.doRequest(ctx, http.MethodPut, url, map[string]any{"productImage": in}, nil)
	if err != nil {
		return fmt.Errorf("update product image product=%d image=%d lang=%s: %w", productID, imageID, lang, err)
	}
	return nil
}

func (c *Client) DeleteProductImage(ctx context.Context, productID, imageID int64, lang string) error {
	url := c.endpoint(lang, fmt.Sprintf("products/%d/images/%d.json", productID, imageID), nil)
	err := c.doRequest(ctx, http.MethodDelete, url, nil, nil)
	if err != nil {
		return fmt.Errorf("delete product image product=%d image=%d lang=%s: %w", productID, imageID, lang, err)
	}
	return nil
}
