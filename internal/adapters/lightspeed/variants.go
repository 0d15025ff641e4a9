package lightspeed

import (
	"context"
	"fmt"
	"net/http"

	"lightspeed-sync/internal/adapters/lightspeed/dto"
)

const variantFields = "id,isDefault,sortOrder,sku,priceExcl,title,image,product"

// FetchVariants pages through every variant of the shop in one language.
func (c *Client) FetchVariants(ctx context.Context, lang string) ([]dto.Variant, error) {
	var variants []dto.Variant
	for page := 1; ; page++ {
		var resp dto.VariantsResponse
		url := c.endpoint(lang, "variants.json", pageQuery(page, variantFields))
		if err := c.doRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("fetch variants page=%d lang=%s: %w", page, lang, err)
		}
		if len(resp.Variants) == 0 {
			break
		}
		variants = append(variants, resp.Variants...)
		if len(resp.Variants) < pageLimit {
			break
		}
	}
	return variants, nil
}

func (c *Client) CreateVariant(ctx context.Context, lang string, in dto.VariantInput) (*dto.Variant, error) {
	if in.Product == nil || *in.Product == 0 {
		return nil, fmt.Errorf("create variant lang=%s: product id is required", lang)
	}
	var resp dto.VariantResponse
	url := c.endpoint(lang, "variants.json", nil)
	err := c.doRequest(ctx, http.MethodPost, url, map[string]any{"variant": in}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create variant lang=%s: %w", lang, err)
	}
	if resp.Variant.ID == 0 {
		return nil, fmt.Errorf("create variant lang=%s: empty variant id in response", lang)
	}
	return &resp.Variant, nil
}

func (c *Client) UpdateVariant(ctx context.Context, lang string, variantID int64, in dto.VariantInput) error {
	url := c.endpoint(lang, fmt.Sprintf("variants/%d.json", variantID), nil)
	err := c.doRequest(ctx, http.MethodPut, url, map[string]any{"variant": in}, nil)
	if err != nil {
		return fmt.Errorf("update variant id=%d lang=%s: %w", variantID, lang, err)
	}
	return nil
}

func (c *Client) DeleteVariant(ctx context.Context, lang string, variantID int64) error {
	url := c.endpoint(lang, fmt.Sprintf("variants/%d.json", variantID), nil)
	err := c.doRequest(ctx, http.MethodDelete, url, nil, nil)
	if err != nil {
		return fmt.Errorf("delete variant id=%d lang=%s: %w", variantID, lang, err)
	}
	return nil
}
