package lightspeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lightspeed-sync/internal/adapters/lightspeed/dto"
	"lightspeed-sync/internal/config"
)

// pageLimit is the maximum page size the API allows on list endpoints.
const pageLimit = 250

// ClientService is the remote commerce API for one shop. Language is part
// of every call because the API exposes content per language in the URL.
type ClientService interface {
	FetchProducts(ctx context.Context, lang string) ([]dto.Product, error)
	FetchVariants(ctx context.Context, lang string) ([]dto.Variant, error)
	CreateProduct(ctx context.Context, lang string, in dto.ProductInput) (*dto.Product, error)
	UpdateProduct(ctx context.Context, lang string, productID int64, in dto.ProductInput) error
	CreateVariant(ctx context.Context, lang string, in dto.VariantInput) (*dto.Variant, error)
	UpdateVariant(ctx context.Context, lang string, variantID int64, in dto.VariantInput) error
	DeleteVariant(ctx context.Context, lang string, variantID int64) error
	GetProductImages(ctx context.Context, productID int64, lang string) ([]dto.ProductImage, error)
	CreateProductImage(ctx context.Context, productID int64, lang string, in dto.ImageInput) (*dto.ProductImage, error)
	UpdateProductImage(ctx context.Context, productID, imageID int64, lang string, in dto.ImageInput) error
	DeleteProductImage(ctx context.Context, productID, imageID int64, lang string) error
}

type Client struct {
	config     config.LightspeedConfig
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewClient builds a per-shop client. Credentials are the shop's own key
// pair resolved by TLD.
func NewClient(cfg config.LightspeedConfig, apiKey, apiSecret string, httpClient *http.Client) ClientService {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		config:     cfg,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: httpClient,
	}
}

func (c *Client) endpoint(lang, path string, query url.Values) string {
	u := fmt.Sprintf("%s/%s/%s", c.config.BaseUrl, lang, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doRequest performs one JSON request with bounded retry on transient
// failures. out may be nil when the response body is not needed.
func (c *Client) doRequest(ctx context.Context, method, url string, body, out any) error {
	var lastErr error
	for attempt := 0; attempt < retryMax; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, retryDelay(attempt-1)); err != nil {
				return err
			}
		}
		lastErr = c.doRequestOnce(ctx, method, url, body, out)
		if lastErr == nil {
			return nil
		}
		if !isRetryableHTTPError(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) doRequestOnce(ctx context.Context, method, url string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPStatusError(resp.StatusCode, resp.Status, respBody)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func pageQuery(page int, fields string) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageLimit))
	q.Set("page", strconv.Itoa(page))
	if fields != "" {
		q.Set("fields", fields)
	}
	return q
}
