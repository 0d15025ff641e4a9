package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightspeed-sync/internal/domain/model"
)

type fakeService struct {
	calls     int
	sent      [][]model.TranslationItem
	translate func(item model.TranslationItem) string
	err       error
}

func (f *fakeService) Translate(_ context.Context, items []model.TranslationItem) ([]model.TranslationResult, error) {
	f.calls++
	f.sent = append(f.sent, items)
	if f.err != nil {
		return nil, f.err
	}
	results := make([]model.TranslationResult, len(items))
	for i, item := range items {
		results[i] = model.TranslationResult{TranslationItem: item, TranslatedText: f.translate(item)}
	}
	return results, nil
}

func upperService() *fakeService {
	return &fakeService{translate: func(item model.TranslationItem) string {
		return "[" + item.TargetLang + "] " + item.Text
	}}
}

func sourceContent() model.ProductContent {
	var c model.ProductContent
	c.SetField(model.FieldTitle, "Rode jas")
	c.SetField(model.FieldDescription, "Een warme winterjas")
	return c
}

func TestPrepareBatchCopiesDefaultLanguage(t *testing.T) {
	b := PrepareBatch(sourceContent(), "nl", []string{"nl", "de", "fr"})

	assert.Equal(t, []string{"nl"}, b.CopyLanguages)
	require.Len(t, b.Items, 4)
	for _, item := range b.Items {
		assert.Equal(t, "nl", item.SourceLang)
		assert.NotEqual(t, "nl", item.TargetLang)
	}
}

func TestPrepareBatchSkipsBlankFields(t *testing.T) {
	var c model.ProductContent
	c.SetField(model.FieldTitle, "Rode jas")
	c.SetField(model.FieldContent, "   ")

	b := PrepareBatch(c, "nl", []string{"de"})

	require.Len(t, b.Items, 1)
	assert.Equal(t, model.FieldTitle, b.Items[0].Field)
}

func TestDeduplicateCollapsesIdenticalRequests(t *testing.T) {
	items := []model.TranslationItem{
		{SourceLang: "nl", TargetLang: "de", Field: "title", Text: "Rode jas"},
		{SourceLang: "nl", TargetLang: "de", Field: "title", Text: "Rode jas"},
		{SourceLang: "nl", TargetLang: "fr", Field: "title", Text: "Rode jas"},
		{SourceLang: "nl", TargetLang: "de", Field: "description", Text: "Rode jas"},
	}

	d := Deduplicate(items)

	require.Len(t, d.UniqueItems, 3)
	require.Len(t, d.IndexMap, len(items))
	assert.Equal(t, d.IndexMap[0], d.IndexMap[1])

	unique := make([]model.TranslationResult, len(d.UniqueItems))
	for i, item := range d.UniqueItems {
		unique[i] = model.TranslationResult{TranslationItem: item, TranslatedText: "t" + item.TargetLang + item.Field}
	}
	full := ReconstructResults(items, d, unique)

	require.Len(t, full, len(items))
	assert.Equal(t, full[0].TranslatedText, full[1].TranslatedText)
	for i, r := range full {
		assert.Equal(t, items[i], r.TranslationItem)
	}
}

func TestApplyResultsIdempotent(t *testing.T) {
	source := sourceContent()
	results := []model.TranslationResult{
		{TranslationItem: model.TranslationItem{SourceLang: "nl", TargetLang: "de", Field: "title", Text: "Rode jas"}, TranslatedText: "Roter Mantel"},
	}

	first := ApplyResults(source, "nl", []string{"nl", "de"}, results)
	second := ApplyResults(source, "nl", []string{"nl", "de"}, results)

	assert.Equal(t, first, second)

	title, ok := first.ContentByLanguage["de"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Roter Mantel", title)
	assert.Equal(t, model.OriginTranslated, first.TranslationMeta["de"][model.FieldTitle])

	copied, ok := first.ContentByLanguage["nl"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Rode jas", copied)
	assert.Equal(t, model.OriginCopied, first.TranslationMeta["nl"][model.FieldTitle])
}

func TestApplyResultsMissingResultFallsBackToSource(t *testing.T) {
	applied := ApplyResults(sourceContent(), "nl", []string{"de"}, nil)

	title, ok := applied.ContentByLanguage["de"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Rode jas", title)
	assert.Equal(t, model.OriginTranslated, applied.TranslationMeta["de"][model.FieldTitle])
}

func TestRunTranslatesAndCopies(t *testing.T) {
	svc := &fakeService{translate: func(item model.TranslationItem) string {
		if item.Field == "title" {
			return "Roter Mantel"
		}
		return "Ein warmer Wintermantel"
	}}

	applied, err := Run(context.Background(), svc, NewCache(), sourceContent(), "nl", []string{"nl", "de"})

	require.NoError(t, err)
	assert.Equal(t, 1, svc.calls)

	title, _ := applied.ContentByLanguage["de"].Field(model.FieldTitle)
	assert.Equal(t, "Roter Mantel", title)
	nlTitle, _ := applied.ContentByLanguage["nl"].Field(model.FieldTitle)
	assert.Equal(t, "Rode jas", nlTitle)
}

func TestRunCacheReducesCallVolumeNotResults(t *testing.T) {
	svcA := upperService()
	cache := NewCache()
	first, err := Run(context.Background(), svcA, cache, sourceContent(), "nl", []string{"de", "fr"})
	require.NoError(t, err)
	require.Equal(t, 1, svcA.calls)

	svcB := upperService()
	second, err := Run(context.Background(), svcB, cache, sourceContent(), "nl", []string{"de", "fr"})
	require.NoError(t, err)
	assert.Equal(t, 0, svcB.calls)
	assert.Equal(t, first, second)

	// No cache: same results, more calls.
	svcC := upperService()
	third, err := Run(context.Background(), svcC, nil, sourceContent(), "nl", []string{"de", "fr"})
	require.NoError(t, err)
	assert.Equal(t, 1, svcC.calls)
	assert.Equal(t, first, third)
}

func TestRunFallsBackToSourceTextOnBatchFailure(t *testing.T) {
	svc := &fakeService{err: errors.New("deepl unavailable")}

	applied, err := Run(context.Background(), svc, nil, sourceContent(), "nl", []string{"de"})

	require.Error(t, err)
	title, ok := applied.ContentByLanguage["de"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Rode jas", title)
	assert.Equal(t, model.OriginTranslated, applied.TranslationMeta["de"][model.FieldTitle])
}
