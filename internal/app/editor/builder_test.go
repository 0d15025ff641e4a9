package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightspeed-sync/internal/app/translate"
	"lightspeed-sync/internal/domain/model"
)

type echoTranslator struct {
	calls int
	err   error
}

func (f *echoTranslator) Translate(_ context.Context, items []model.TranslationItem) ([]model.TranslationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	results := make([]model.TranslationResult, len(items))
	for i, item := range items {
		results[i] = model.TranslationResult{TranslationItem: item, TranslatedText: "[" + item.TargetLang + "] " + item.Text}
	}
	return results, nil
}

func germanShop() model.Shop {
	return model.Shop{
		ID:  2,
		TLD: "de",
		Languages: []model.Language{
			{Code: "de", IsDefault: true, IsActive: true},
			{Code: "en", IsActive: true},
		},
	}
}

func sourceProduct() model.ProductData {
	var nl model.ProductContent
	nl.SetField(model.FieldTitle, "Rode jas")
	nl.SetField(model.FieldDescription, "Een warme winterjas")
	return model.ProductData{
		ProductID:  10,
		ShopID:     1,
		Visibility: model.VisibilityVisible,
		Image:      &model.ImageRef{ID: "src-main", Src: "main.jpg"},
		Content:    map[string]model.ProductContent{"nl": nl},
		Variants: []model.Variant{
			{VariantID: 100, SKU: "JAS-S", IsDefault: true, SortOrder: 0, PriceExcl: 49.95, Titles: map[string]string{"nl": "Maat S"}},
			{VariantID: 101, SKU: "JAS-M", SortOrder: 1, PriceExcl: 49.95, Titles: map[string]string{"nl": "Maat M"}},
		},
		Images: []model.ImageRef{
			{ID: "src-1", Src: "main.jpg", SortOrder: 0},
			{ID: "src-2", Src: "detail.jpg", SortOrder: 1},
		},
	}
}

func initCreate(t *testing.T) *EditableTargetData {
	t.Helper()
	b := NewBuilder(&echoTranslator{}, translate.NewCache())
	e, err := b.InitCreate(context.Background(), sourceProduct(), "nl", germanShop())
	require.NoError(t, err)
	return e
}

func targetProduct() model.ProductData {
	var de model.ProductContent
	de.SetField(model.FieldTitle, "Alt")
	return model.ProductData{
		ProductID:  20,
		ShopID:     2,
		Visibility: model.VisibilityVisible,
		Content:    map[string]model.ProductContent{"de": de},
		Variants: []model.Variant{
			{VariantID: 200, SKU: "JAS-S", IsDefault: true, SortOrder: 0, PriceExcl: 54.95, Titles: map[string]string{"de": "Größe S"}},
			{VariantID: 201, SKU: "ANDERS", SortOrder: 1, PriceExcl: 39.95, Titles: map[string]string{}},
		},
		Images: []model.ImageRef{{ID: "t-1", Src: "alt.jpg", SortOrder: 0}},
	}
}

func initEdit(t *testing.T) *EditableTargetData {
	t.Helper()
	b := NewBuilder(&echoTranslator{}, translate.NewCache())
	return b.InitEdit(sourceProduct(), targetProduct(), "nl", germanShop())
}

func TestInitCreateSeedsContentAndProvenance(t *testing.T) {
	e := initCreate(t)

	assert.Equal(t, ModeCreate, e.Mode)
	assert.Equal(t, "de", e.DefaultLang)
	assert.False(t, e.IsDirty())

	deTitle, ok := e.Content["de"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "[de] Rode jas", deTitle)
	assert.Equal(t, model.OriginTranslated, e.FieldOrigin("de", model.FieldTitle))
	assert.Equal(t, model.OriginTranslated, e.FieldOrigin("en", model.FieldTitle))
}

func TestInitCreateCopiesVariantsPositionally(t *testing.T) {
	e := initCreate(t)

	require.Len(t, e.Variants, 2)
	for i, v := range e.Variants {
		assert.Zero(t, v.VariantID)
		assert.NotEmpty(t, v.TempID)
		assert.Equal(t, i, v.SourceMatch)
	}
	assert.Empty(t, e.DirtyVariants)
	assert.True(t, e.Variants[0].IsDefault)
	assert.Equal(t, "JAS-S", e.Variants[0].SKU)
	assert.Equal(t, 49.95, e.Variants[0].PriceExcl)
	// Default-language title seeded from the source default title.
	assert.Equal(t, "Maat S", e.Variants[0].Titles["de"])
}

func TestInitCreateCopiesImagesUnderFreshIDs(t *testing.T) {
	src := sourceProduct()
	e := initCreate(t)

	require.Len(t, e.Images, 2)
	for i, img := range e.Images {
		assert.Equal(t, src.Images[i].Src, img.Src)
		assert.NotEqual(t, src.Images[i].ID, img.ID)
		assert.Equal(t, i, img.SortOrder)
	}
	require.NotNil(t, e.ProductImage)
	assert.Equal(t, "main.jpg", e.ProductImage.Src)
}

func TestInitCreateSurvivesTranslationFailure(t *testing.T) {
	b := NewBuilder(&echoTranslator{err: assert.AnError}, nil)
	e, err := b.InitCreate(context.Background(), sourceProduct(), "nl", germanShop())

	require.Error(t, err)
	require.NotNil(t, e)
	title, ok := e.Content["de"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Rode jas", title)
	assert.False(t, e.IsDirty())
}

func TestInitEditSeedsFromTargetNotSource(t *testing.T) {
	e := initEdit(t)

	assert.Equal(t, ModeEdit, e.Mode)
	assert.Equal(t, int64(20), e.ProductID)
	assert.False(t, e.IsDirty())

	title, ok := e.Content["de"].Field(model.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Alt", title)
	assert.Equal(t, model.OriginExisting, e.FieldOrigin("de", model.FieldTitle))
	// Absent field in an absent language still reads as existing in edit mode.
	assert.Equal(t, model.OriginExisting, e.FieldOrigin("en", model.FieldTitle))
}

func TestInitEditMatchesSourceVariants(t *testing.T) {
	e := initEdit(t)

	require.Len(t, e.Variants, 2)
	assert.Equal(t, 0, e.Variants[0].SourceMatch) // by SKU
	assert.Equal(t, -1, e.Variants[1].SourceMatch)
	assert.Equal(t, int64(200), e.Variants[0].VariantID)
}

func TestInitEditMatchesByDefaultFlagWhenSKUDiffers(t *testing.T) {
	target := targetProduct()
	target.Variants[0].SKU = "EIGENES"

	b := NewBuilder(&echoTranslator{}, nil)
	e := b.InitEdit(sourceProduct(), target, "nl", germanShop())

	assert.Equal(t, 0, e.Variants[0].SourceMatch)
}
