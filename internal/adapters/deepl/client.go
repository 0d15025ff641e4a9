package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lightspeed-sync/internal/adapters/deepl/dto"
	"lightspeed-sync/internal/config"
	"lightspeed-sync/internal/domain/model"
)

// TranslateService is the machine-translation collaborator. A call either
// fully succeeds, returning one result per item in input order, or fails
// as a whole.
type TranslateService interface {
	Translate(ctx context.Context, items []model.TranslationItem) ([]model.TranslationResult, error)
}

type Client struct {
	config     config.DeepLConfig
	httpClient *http.Client
}

func NewClient(cfg config.DeepLConfig, httpClient *http.Client) TranslateService {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Translate sends the items grouped per language pair. Description and
// content fields carry markup, so HTML tag handling is always on.
func (c *Client) Translate(ctx context.Context, items []model.TranslationItem) ([]model.TranslationResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	type langPair struct{ source, target string }
	groups := make(map[langPair][]int)
	order := make([]langPair, 0)
	for i, item := range items {
		pair := langPair{source: item.SourceLang, target: item.TargetLang}
		if _, ok := groups[pair]; !ok {
			order = append(order, pair)
		}
		groups[pair] = append(groups[pair], i)
	}

	results := make([]model.TranslationResult, len(items))
	for _, pair := range order {
		idxs := groups[pair]
		texts := make([]string, len(idxs))
		for n, i := range idxs {
			texts[n] = items[i].Text
		}

		translated, err := c.translateBatch(ctx, pair.source, pair.target, texts)
		if err != nil {
			return nil, fmt.Errorf("translate %s->%s: %w", pair.source, pair.target, err)
		}
		if len(translated) != len(idxs) {
			return nil, fmt.Errorf("translate %s->%s: got %d translations for %d texts", pair.source, pair.target, len(translated), len(idxs))
		}
		for n, i := range idxs {
			results[i] = model.TranslationResult{
				TranslationItem: items[i],
				TranslatedText:  translated[n],
			}
		}
	}
	return results, nil
}

func (c *Client) translateBatch(ctx context.Context, sourceLang, targetLang string, texts []string) ([]string, error) {
	reqBody := dto.TranslateRequest{
		Text:        texts,
		SourceLang:  strings.ToUpper(sourceLang),
		TargetLang:  strings.ToUpper(targetLang),
		TagHandling: "html",
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseUrl+"/v2/translate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.config.AuthKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("deepl translate request failed: %s", resp.Status)
	}

	var apiResp dto.TranslateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(apiResp.Translations))
	for _, t := range apiResp.Translations {
		out = append(out, t.Text)
	}
	return out, nil
}
