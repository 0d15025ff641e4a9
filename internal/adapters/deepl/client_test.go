package deepl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightspeed-sync/internal/adapters/deepl/dto"
	"lightspeed-sync/internal/config"
	"lightspeed-sync/internal/domain/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) TranslateService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.DeepLConfig{BaseUrl: server.URL, AuthKey: "test-key"}, server.Client())
}

func TestTranslateGroupsPerLanguagePair(t *testing.T) {
	var requests []dto.TranslateRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/translate", r.URL.Path)
		assert.Equal(t, "DeepL-Auth-Key test-key", r.Header.Get("Authorization"))

		var req dto.TranslateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		resp := dto.TranslateResponse{}
		for _, text := range req.Text {
			resp.Translations = append(resp.Translations, dto.Translation{Text: "[" + req.TargetLang + "] " + text})
		}
		json.NewEncoder(w).Encode(resp)
	})

	items := []model.TranslationItem{
		{SourceLang: "nl", TargetLang: "de", Field: "title", Text: "Rode jas"},
		{SourceLang: "nl", TargetLang: "fr", Field: "title", Text: "Rode jas"},
		{SourceLang: "nl", TargetLang: "de", Field: "description", Text: "Warm"},
	}
	results, err := client.Translate(context.Background(), items)
	require.NoError(t, err)

	// One HTTP call per language pair, results back in input order.
	require.Len(t, requests, 2)
	assert.Equal(t, "html", requests[0].TagHandling)

	require.Len(t, results, len(items))
	assert.Equal(t, "[DE] Rode jas", results[0].TranslatedText)
	assert.Equal(t, "[FR] Rode jas", results[1].TranslatedText)
	assert.Equal(t, "[DE] Warm", results[2].TranslatedText)
	for i, r := range results {
		assert.Equal(t, items[i], r.TranslationItem)
	}
}

func TestTranslateFailsAsAWhole(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := client.Translate(context.Background(), []model.TranslationItem{
		{SourceLang: "nl", TargetLang: "de", Field: "title", Text: "Rode jas"},
	})
	assert.Error(t, err)
}

func TestTranslateRejectsLengthMismatch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(dto.TranslateResponse{})
	})

	_, err := client.Translate(context.Background(), []model.TranslationItem{
		{SourceLang: "nl", TargetLang: "de", Field: "title", Text: "Rode jas"},
	})
	assert.Error(t, err)
}

func TestTranslateEmptyBatchIsNoOp(t *testing.T) {
	client := NewClient(config.DeepLConfig{}, nil)

	results, err := client.Translate(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}
