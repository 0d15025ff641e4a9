package editor

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"lightspeed-sync/internal/app/translate"
	"lightspeed-sync/internal/domain/model"
)

// All engine operations are synchronous, total transformations of one
// EditableTargetData. While a submit is in flight for the shop they
// silently no-op; only the retranslate operations can fail, and on
// failure the field value is left untouched.

// UpdateField sets a content field from a direct user edit. An empty
// value clears the field. Dirtiness is a comparison against the baseline,
// so typing the baseline value back makes the field clean again and
// restores its baseline origin.
func (e *EditableTargetData) UpdateField(lang, field, value string) {
	if e.submitting {
		return
	}
	content := e.Content[lang]
	if value == "" {
		content.ClearField(field)
	} else {
		content.SetField(field, value)
	}
	e.Content[lang] = content

	key := FieldKey(lang, field)
	if e.fieldEqualsBaseline(lang, field) {
		delete(e.DirtyFields, key)
		e.setOrigin(lang, field, e.baselineOrigin(lang, field))
		return
	}
	e.DirtyFields[key] = struct{}{}
	e.setOrigin(lang, field, model.OriginManual)
}

// ResetField restores the baseline value and origin of one field: the
// source copy, the initial translation, or in edit mode the original
// target value.
func (e *EditableTargetData) ResetField(lang, field string) {
	if e.submitting {
		return
	}
	content := e.Content[lang]
	if base, ok := e.baselineContent[lang].Field(field); ok {
		content.SetField(field, base)
	} else {
		content.ClearField(field)
	}
	e.Content[lang] = content
	delete(e.DirtyFields, FieldKey(lang, field))
	e.setOrigin(lang, field, e.baselineOrigin(lang, field))
}

// ResetLanguage resets every translatable field of one language to its
// per-field baseline.
func (e *EditableTargetData) ResetLanguage(lang string) {
	for _, field := range model.TranslatableFields {
		e.ResetField(lang, field)
	}
}

// PickFromSource overwrites one field with the source shop's value in the
// source default language. The origin becomes copied — this is a system
// copy, not a manual edit.
func (e *EditableTargetData) PickFromSource(lang, field string) {
	if e.submitting {
		return
	}
	content := e.Content[lang]
	if text, ok := e.Source.Content[e.SourceDefaultLang].Field(field); ok && text != "" {
		content.SetField(field, text)
	} else {
		content.ClearField(field)
	}
	e.Content[lang] = content

	key := FieldKey(lang, field)
	if e.fieldEqualsBaseline(lang, field) {
		delete(e.DirtyFields, key)
		e.setOrigin(lang, field, e.baselineOrigin(lang, field))
		return
	}
	e.DirtyFields[key] = struct{}{}
	e.setOrigin(lang, field, model.OriginCopied)
}

// RetranslateField re-invokes the translation service for one field
// against the current source content, overwrites the value, and redefines
// the reset baseline: the field becomes the new clean state. On failure
// nothing changes and the error is returned for per-field display.
func (e *EditableTargetData) RetranslateField(ctx context.Context, svc translate.Service, cache *translate.Cache, lang, field string) error {
	if e.submitting {
		return nil
	}
	srcText, ok := e.Source.Content[e.SourceDefaultLang].Field(field)
	if !ok || strings.TrimSpace(srcText) == "" {
		e.applyRetranslated(lang, field, "", "")
		return nil
	}

	if lang == e.SourceDefaultLang {
		e.applyRetranslated(lang, field, srcText, model.OriginCopied)
		return nil
	}

	item := model.TranslationItem{
		SourceLang: e.SourceDefaultLang,
		TargetLang: lang,
		Field:      field,
		Text:       srcText,
	}
	// Retranslate overrides are cached per shop so they never leak into
	// sibling shops reusing the session cache.
	shopKey := translate.ShopCacheKey(e.ShopTLD, item)
	if text, hit := cache.Get(shopKey); hit {
		e.applyRetranslated(lang, field, text, model.OriginTranslated)
		return nil
	}
	results, err := svc.Translate(ctx, []model.TranslationItem{item})
	if err != nil {
		return err
	}
	translated := results[0].TranslatedText
	cache.Put(shopKey, translated)
	e.applyRetranslated(lang, field, translated, model.OriginTranslated)
	return nil
}

// RetranslateLanguage retranslates every non-blank source field for one
// language in a single batch call. All-or-nothing: a failed call leaves
// every field untouched.
func (e *EditableTargetData) RetranslateLanguage(ctx context.Context, svc translate.Service, cache *translate.Cache, lang string) error {
	if e.submitting {
		return nil
	}
	sourceContent := e.Source.Content[e.SourceDefaultLang]

	if lang == e.SourceDefaultLang {
		for _, field := range model.TranslatableFields {
			text, ok := sourceContent.Field(field)
			if !ok || strings.TrimSpace(text) == "" {
				e.applyRetranslated(lang, field, "", "")
				continue
			}
			e.applyRetranslated(lang, field, text, model.OriginCopied)
		}
		return nil
	}

	var items []model.TranslationItem
	for _, field := range model.TranslatableFields {
		text, ok := sourceContent.Field(field)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		items = append(items, model.TranslationItem{
			SourceLang: e.SourceDefaultLang,
			TargetLang: lang,
			Field:      field,
			Text:       text,
		})
	}

	translated := make(map[string]string, len(items))
	var missing []model.TranslationItem
	for _, item := range items {
		if text, hit := cache.Get(translate.ShopCacheKey(e.ShopTLD, item)); hit {
			translated[item.Field] = text
			continue
		}
		missing = append(missing, item)
	}
	if len(missing) > 0 {
		results, err := svc.Translate(ctx, missing)
		if err != nil {
			return err
		}
		for _, r := range results {
			translated[r.Field] = r.TranslatedText
			cache.Put(translate.ShopCacheKey(e.ShopTLD, r.TranslationItem), r.TranslatedText)
		}
	}

	for _, field := range model.TranslatableFields {
		text, ok := sourceContent.Field(field)
		if !ok || strings.TrimSpace(text) == "" {
			e.applyRetranslated(lang, field, "", "")
			continue
		}
		e.applyRetranslated(lang, field, translated[field], model.OriginTranslated)
	}
	return nil
}

// applyRetranslated writes a system-produced value and makes it the new
// baseline. An empty value with no origin clears the field entirely.
func (e *EditableTargetData) applyRetranslated(lang, field, value string, origin model.Origin) {
	content := e.Content[lang]
	baseline := e.baselineContent[lang]
	if origin == "" {
		content.ClearField(field)
		baseline.ClearField(field)
	} else {
		content.SetField(field, value)
		baseline.SetField(field, value)
	}
	e.Content[lang] = content
	if e.baselineContent == nil {
		e.baselineContent = make(map[string]model.ProductContent)
	}
	e.baselineContent[lang] = baseline

	delete(e.DirtyFields, FieldKey(lang, field))
	e.setOrigin(lang, field, origin)
	if e.baselineMeta[lang] == nil {
		e.baselineMeta[lang] = make(map[string]model.Origin)
	}
	if origin == "" {
		delete(e.baselineMeta[lang], field)
	} else {
		e.baselineMeta[lang][field] = origin
	}
}

// SetVisibility updates the product visibility. Dirtiness is derived by
// comparison against the original value.
func (e *EditableTargetData) SetVisibility(value string) {
	if e.submitting {
		return
	}
	e.Visibility = value
}

// RemoveVariant soft-deletes a variant. When the current default is
// removed the first remaining non-removed variant takes the flag so the
// product never loses its default.
func (e *EditableTargetData) RemoveVariant(idx int) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) || e.Variants[idx].Removed {
		return
	}
	wasDefault := e.Variants[idx].IsDefault
	e.Variants[idx].Removed = true
	e.Variants[idx].IsDefault = false
	if wasDefault {
		for i := range e.Variants {
			if !e.Variants[i].Removed {
				e.Variants[i].IsDefault = true
				break
			}
		}
	}
	renumberVariants(e.Variants)
}

// RestoreVariant clears the soft-delete flag. A restored former default
// is not re-promoted; the now-current default keeps the flag unless no
// default exists at all.
func (e *EditableTargetData) RestoreVariant(idx int) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) || !e.Variants[idx].Removed {
		return
	}
	e.Variants[idx].Removed = false
	if e.DefaultVariantIndex() == -1 {
		e.Variants[idx].IsDefault = true
	}
	renumberVariants(e.Variants)
}

// AddVariant appends a client-side variant with no remote id yet. It is
// dirty by definition: a new variant always results in a create call.
func (e *EditableTargetData) AddVariant(v model.Variant) {
	if e.submitting {
		return
	}
	ev := EditableVariant{
		Variant:     v.Clone(),
		TempID:      uuid.NewString(),
		SourceMatch: -1,
	}
	ev.VariantID = 0
	ev.IsDefault = e.DefaultVariantIndex() == -1
	snapshotVariant(&ev)
	e.Variants = append(e.Variants, ev)
	renumberVariants(e.Variants)
	e.DirtyVariants[ev.Key()] = struct{}{}
}

// SetDefaultVariant moves the default flag to a non-removed variant.
func (e *EditableTargetData) SetDefaultVariant(idx int) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) || e.Variants[idx].Removed {
		return
	}
	for i := range e.Variants {
		e.Variants[i].IsDefault = i == idx
	}
}

// RestoreDefaultVariant returns the default flag to whichever variant
// held it at session start, if it is still present and not removed.
func (e *EditableTargetData) RestoreDefaultVariant() {
	if e.submitting || e.originalDefaultKey == "" {
		return
	}
	for i, v := range e.Variants {
		if v.Key() == e.originalDefaultKey && !v.Removed {
			e.SetDefaultVariant(i)
			return
		}
	}
}

// UpdateVariantSKU edits a variant SKU.
func (e *EditableTargetData) UpdateVariantSKU(idx int, sku string) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) {
		return
	}
	e.Variants[idx].SKU = sku
	e.refreshVariantDirty(idx)
}

// UpdateVariantPrice edits a variant price.
func (e *EditableTargetData) UpdateVariantPrice(idx int, price float64) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) {
		return
	}
	e.Variants[idx].PriceExcl = price
	e.refreshVariantDirty(idx)
}

// UpdateVariantTitle edits a variant title for one language.
func (e *EditableTargetData) UpdateVariantTitle(idx int, lang, title string) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) {
		return
	}
	if title == "" {
		delete(e.Variants[idx].Titles, lang)
	} else {
		e.Variants[idx].Titles[lang] = title
	}
	e.refreshVariantDirty(idx)
}

// SelectVariantImage assigns an image to a variant, or nil to detach it
// client-side. The remote API cannot clear a variant image once set, so a
// nil assignment only affects the mirror.
func (e *EditableTargetData) SelectVariantImage(idx int, image *model.ImageRef) {
	if e.submitting || idx < 0 || idx >= len(e.Variants) {
		return
	}
	e.Variants[idx].Image = image.Clone()
	e.refreshVariantDirty(idx)
}

// SelectProductImage assigns the product image, or nil.
func (e *EditableTargetData) SelectProductImage(image *model.ImageRef) {
	if e.submitting {
		return
	}
	e.ProductImage = image.Clone()
}

// RemoveImageFromTarget soft-removes an image by src. List order is
// untouched; the displayed image falls back via DisplayImage. Surviving
// images are renumbered so their sort orders stay dense.
func (e *EditableTargetData) RemoveImageFromTarget(src string) {
	if e.submitting {
		return
	}
	e.RemovedImageSrcs[src] = struct{}{}
	e.renumberImages()
}

// RestoreImageToTarget undoes a soft removal.
func (e *EditableTargetData) RestoreImageToTarget(src string) {
	if e.submitting {
		return
	}
	delete(e.RemovedImageSrcs, src)
	e.renumberImages()
}

// MoveVariant moves a variant to a new list position and renumbers sort
// orders. Order-dirtiness is a comparison against the original order, so
// moving an entry back clears the flag.
func (e *EditableTargetData) MoveVariant(from, to int) {
	if e.submitting || !validMove(from, to, len(e.Variants)) {
		return
	}
	v := e.Variants[from]
	e.Variants = append(e.Variants[:from], e.Variants[from+1:]...)
	e.Variants = append(e.Variants[:to], append([]EditableVariant{v}, e.Variants[to:]...)...)
	renumberVariants(e.Variants)
	e.OrderChanged = !sameOrder(variantOrderKeys(e.Variants), e.originalVariantOrder)
}

// MoveImage moves an image to a new list position and renumbers sort
// orders.
func (e *EditableTargetData) MoveImage(from, to int) {
	if e.submitting || !validMove(from, to, len(e.Images)) {
		return
	}
	img := e.Images[from]
	e.Images = append(e.Images[:from], e.Images[from+1:]...)
	e.Images = append(e.Images[:to], append([]model.ImageRef{img}, e.Images[to:]...)...)
	e.renumberImages()
	e.ImageOrderChanged = !sameOrder(imageOrderKeys(e.Images), e.originalImageOrder)
}

func validMove(from, to, n int) bool {
	return from >= 0 && from < n && to >= 0 && to < n && from != to
}

func (e *EditableTargetData) fieldEqualsBaseline(lang, field string) bool {
	cur, curOK := e.Content[lang].Field(field)
	base, baseOK := e.baselineContent[lang].Field(field)
	if !curOK && !baseOK {
		return true
	}
	return curOK == baseOK && cur == base
}

func (e *EditableTargetData) baselineOrigin(lang, field string) model.Origin {
	if meta, ok := e.baselineMeta[lang]; ok {
		if origin, ok := meta[field]; ok {
			return origin
		}
	}
	if e.Mode == ModeEdit {
		return model.OriginExisting
	}
	return ""
}

func (e *EditableTargetData) setOrigin(lang, field string, origin model.Origin) {
	if e.TranslationMeta == nil {
		e.TranslationMeta = make(map[string]map[string]model.Origin)
	}
	if e.TranslationMeta[lang] == nil {
		e.TranslationMeta[lang] = make(map[string]model.Origin)
	}
	if origin == "" {
		delete(e.TranslationMeta[lang], field)
		return
	}
	e.TranslationMeta[lang][field] = origin
}

// refreshVariantDirty recomputes dirty membership for one variant by
// comparing its editable values against the init snapshots.
func (e *EditableTargetData) refreshVariantDirty(idx int) {
	v := e.Variants[idx]
	dirty := v.SKU != v.OriginalSKU ||
		v.PriceExcl != v.OriginalPrice ||
		!model.SameImage(v.Image, v.OriginalImage) ||
		!sameTitles(v.Titles, v.OriginalTitles)
	if dirty {
		e.DirtyVariants[v.Key()] = struct{}{}
	} else {
		delete(e.DirtyVariants, v.Key())
	}
}

func sameTitles(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for lang, t := range a {
		if b[lang] != t {
			return false
		}
	}
	return true
}

// renumberVariants assigns dense zero-based sort orders to non-removed
// variants in list order. Removed entries keep their last sort order for
// exact restore.
func renumberVariants(variants []EditableVariant) {
	seq := 0
	for i := range variants {
		if variants[i].Removed {
			continue
		}
		variants[i].SortOrder = seq
		seq++
	}
}

// renumberImages assigns dense zero-based sort orders to non-removed
// images in list order. Removed entries keep their last sort order for
// exact restore.
func (e *EditableTargetData) renumberImages() {
	seq := 0
	for i := range e.Images {
		if _, removed := e.RemovedImageSrcs[e.Images[i].Src]; removed {
			continue
		}
		e.Images[i].SortOrder = seq
		seq++
	}
}
