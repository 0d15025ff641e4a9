package editor

import (
	"context"

	"github.com/google/uuid"

	"lightspeed-sync/internal/app/translate"
	"lightspeed-sync/internal/domain/model"
)

// Builder produces one fully-initialized EditableTargetData per target
// shop. It is pure given its inputs plus the outcome of translation
// calls: no hidden global state is consulted.
type Builder struct {
	translator translate.Service
	cache      *translate.Cache
}

// NewBuilder wires the translation service and the optional session
// cache. cache may be nil.
func NewBuilder(translator translate.Service, cache *translate.Cache) *Builder {
	return &Builder{translator: translator, cache: cache}
}

// InitCreate initializes the create-flow working copy for one target
// shop: content copied or translated from the source, variants copied
// positionally with no remote ids yet, images copied verbatim under fresh
// client-side identities. A translation failure degrades to source text
// (already applied) and is returned for shop-level surfacing; the
// returned state is usable either way.
func (b *Builder) InitCreate(ctx context.Context, source model.ProductData, sourceDefaultLang string, shop model.Shop) (*EditableTargetData, error) {
	targetLangs := shop.ActiveLanguages()
	defaultLang, _ := shop.DefaultLanguage()

	sourceContent := source.Content[sourceDefaultLang]
	applied, trErr := translate.Run(ctx, b.translator, b.cache, sourceContent, sourceDefaultLang, targetLangs)

	e := &EditableTargetData{
		Mode:              ModeCreate,
		ShopID:            shop.ID,
		ShopTLD:           shop.TLD,
		Languages:         targetLangs,
		DefaultLang:       defaultLang,
		SourceDefaultLang: sourceDefaultLang,
		Source:            source,
		Content:           applied.ContentByLanguage,
		TranslationMeta:   applied.TranslationMeta,
		Visibility:        source.Visibility,
		RemovedImageSrcs:  make(map[string]struct{}),
		DirtyFields:       make(map[string]struct{}),
		DirtyVariants:     make(map[string]struct{}),
	}

	for i, sv := range source.Variants {
		titles := map[string]string{}
		if t := sv.Titles[sourceDefaultLang]; t != "" {
			titles[defaultLang] = t
		}
		v := EditableVariant{
			Variant: model.Variant{
				SKU:       sv.SKU,
				IsDefault: sv.IsDefault,
				SortOrder: sv.SortOrder,
				PriceExcl: sv.PriceExcl,
				Image:     sv.Image.Clone(),
				Titles:    titles,
			},
			TempID:      uuid.NewString(),
			SourceMatch: i,
		}
		snapshotVariant(&v)
		e.Variants = append(e.Variants, v)
	}

	for _, img := range source.Images {
		c := img
		c.ID = uuid.NewString()
		e.Images = append(e.Images, c)
	}
	e.renumberImages()

	if source.Image != nil {
		e.ProductImage = source.Image.Clone()
		e.ProductImage.ID = uuid.NewString()
	}

	b.finishInit(e)
	return e, trErr
}

// InitEdit initializes the edit-flow working copy from the target shop's
// own current state; nothing is copied from the source. Every present
// field starts with origin existing. Source variants are matched to the
// nearest target variant by SKU, then by default flag; unmatched target
// variants are kept with no provenance link.
func (b *Builder) InitEdit(source model.ProductData, target model.ProductData, sourceDefaultLang string, shop model.Shop) *EditableTargetData {
	targetLangs := shop.ActiveLanguages()
	defaultLang, _ := shop.DefaultLanguage()

	e := &EditableTargetData{
		Mode:              ModeEdit,
		ShopID:            shop.ID,
		ShopTLD:           shop.TLD,
		ProductID:         target.ProductID,
		Languages:         targetLangs,
		DefaultLang:       defaultLang,
		SourceDefaultLang: sourceDefaultLang,
		Source:            source,
		Content:           model.CloneContentMap(target.Content),
		Visibility:        target.Visibility,
		ProductImage:      target.Image.Clone(),
		RemovedImageSrcs:  make(map[string]struct{}),
		DirtyFields:       make(map[string]struct{}),
		DirtyVariants:     make(map[string]struct{}),
		TranslationMeta:   make(map[string]map[string]model.Origin),
	}

	for lang, content := range e.Content {
		meta := make(map[string]model.Origin)
		for _, field := range model.TranslatableFields {
			if _, ok := content.Field(field); ok {
				meta[field] = model.OriginExisting
			}
		}
		e.TranslationMeta[lang] = meta
	}

	for _, tv := range target.Variants {
		v := EditableVariant{
			Variant:     tv.Clone(),
			TempID:      uuid.NewString(),
			SourceMatch: matchSourceVariant(source.Variants, tv),
		}
		snapshotVariant(&v)
		e.Variants = append(e.Variants, v)
	}

	e.Images = cloneImages(target.Images)
	e.renumberImages()

	b.finishInit(e)
	return e
}

func (b *Builder) finishInit(e *EditableTargetData) {
	renumberVariants(e.Variants)
	e.OriginalVisibility = e.Visibility
	e.OriginalProductImage = e.ProductImage.Clone()
	e.baselineContent = model.CloneContentMap(e.Content)
	e.baselineMeta = cloneMeta(e.TranslationMeta)
	e.originalVariantOrder = variantOrderKeys(e.Variants)
	e.originalImageOrder = imageOrderKeys(e.Images)
	if idx := e.DefaultVariantIndex(); idx >= 0 {
		e.originalDefaultKey = e.Variants[idx].Key()
	}
	e.takeSnapshot()
}

// snapshotVariant records the restore/dirty baselines from the variant's
// current values.
func snapshotVariant(v *EditableVariant) {
	v.OriginalSKU = v.SKU
	v.OriginalPrice = v.PriceExcl
	v.OriginalImage = v.Image.Clone()
	v.OriginalSortOrder = v.SortOrder
	v.OriginalIsDefault = v.IsDefault
	v.OriginalTitles = make(map[string]string, len(v.Titles))
	for lang, t := range v.Titles {
		v.OriginalTitles[lang] = t
	}
}

// matchSourceVariant finds the source variant a target variant mirrors:
// SKU equality wins, then the default flag, else no match.
func matchSourceVariant(sourceVariants []model.Variant, target model.Variant) int {
	for i, sv := range sourceVariants {
		if sv.SKU != "" && sv.SKU == target.SKU {
			return i
		}
	}
	if target.IsDefault {
		for i, sv := range sourceVariants {
			if sv.IsDefault {
				return i
			}
		}
	}
	return -1
}
