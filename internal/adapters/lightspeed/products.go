package lightspeed

import (
	"context"
	"fmt"
	"net/http"

	"lightspeed-sync/internal/adapters/lightspeed/dto"
)

const productFields = "id,visibility,url,title,fulltitle,description,content,image,createdAt,updatedAt"

// FetchProducts pages through every product of the shop in one language.
func (c *Client) FetchProducts(ctx context.Context, lang string) ([]dto.Product, error) {
	var products []dto.Product
	for page := 1; ; page++ {
		var resp dto.ProductsResponse
		url := c.endpoint(lang, "products.json", pageQuery(page, productFields))
		if err := c.doRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("fetch products page=%d lang=%s: %w", page, lang, err)
		}
		if len(resp.Products) == 0 {
			break
		}
		products = append(products, resp.Products...)
		if len(resp.Products) < pageLimit {
			break
		}
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, lang string, in dto.ProductInput) (*dto.Product, error) {
	var resp dto.ProductResponse
	url := c.endpoint(lang, "products.json", nil)
	err := c.doRequest(ctx, http.MethodPost, url, map[string]any{"product": in}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create product lang=%s: %w", lang, err)
	}
	if resp.Product.ID == 0 {
		return nil, fmt.Errorf("create product lang=%s: empty product id in response", lang)
	}
	return &resp.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, lang string, productID int64, in dto.ProductInput) error {
	url := c.endpoint(lang, fmt.Sprintf("products/%d.json", productID), nil)
	err := c.doRequest(ctx, http.MethodPut, url, map[string]any{"product": in}, nil)
	if err != nil {
		return fmt.Errorf("update product id=%d lang=%s: %w", productID, lang, err)
	}
	return nil
}
