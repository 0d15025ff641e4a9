package editor

import (
	"strconv"

	"lightspeed-sync/internal/domain/model"
)

// EditableVariant is one working-copy variant with its soft-delete flag
// and the snapshots needed for exact restore and dirty detection.
type EditableVariant struct {
	model.Variant

	// TempID identifies a variant created client-side (VariantID 0) in
	// dirty-tracking sets until a remote id is assigned.
	TempID  string
	Removed bool

	// SourceMatch is the index of the matched source variant, -1 when the
	// variant has no provenance link to the source product.
	SourceMatch int

	OriginalSKU       string
	OriginalPrice     float64
	OriginalTitles    map[string]string
	OriginalImage     *model.ImageRef
	OriginalSortOrder int
	OriginalIsDefault bool
}

// Key identifies the variant in dirty sets and order snapshots: the
// remote id when persisted, the temp id otherwise.
func (v EditableVariant) Key() string {
	if v.VariantID != 0 {
		return strconv.FormatInt(v.VariantID, 10)
	}
	return v.TempID
}

// EditableTargetData is the mutable working copy for one target shop
// within one interactive session. It is never shared across shops and is
// discarded on navigation away or after a successful submit.
type EditableTargetData struct {
	Mode    Mode
	ShopID  int64
	ShopTLD string

	// ProductID is the remote product id on the target shop; 0 in create
	// mode until submit assigns one.
	ProductID int64

	// Languages are the target shop's active languages; DefaultLang its
	// default. SourceDefaultLang is fixed for the whole session.
	Languages         []string
	DefaultLang       string
	SourceDefaultLang string

	// Source is retained so pick-from-source and retranslate have
	// something to pick from.
	Source model.ProductData

	Content  map[string]model.ProductContent
	Variants []EditableVariant
	Images   []model.ImageRef

	RemovedImageSrcs     map[string]struct{}
	Visibility           string
	OriginalVisibility   string
	ProductImage         *model.ImageRef
	OriginalProductImage *model.ImageRef

	DirtyFields       map[string]struct{}
	DirtyVariants     map[string]struct{}
	OrderChanged      bool
	ImageOrderChanged bool

	TranslationMeta map[string]map[string]model.Origin

	// Reset baselines. A retranslate redefines the affected entries, so
	// "clean" is always relative to the most recent baseline.
	baselineContent map[string]model.ProductContent
	baselineMeta    map[string]map[string]model.Origin

	originalVariantOrder []string
	originalImageOrder   []string
	originalDefaultKey   string

	snapshot *shopSnapshot

	// submitting blocks user mutations while a submit for this shop is in
	// flight. Engine operations silently no-op while it is set.
	submitting bool
}

// FieldKey builds a dirty-fields key.
func FieldKey(lang, field string) string {
	return lang + "." + field
}

// IsFieldDirty reports whether the field currently diverges from its
// baseline.
func (e *EditableTargetData) IsFieldDirty(lang, field string) bool {
	_, ok := e.DirtyFields[FieldKey(lang, field)]
	return ok
}

// FieldOrigin returns the current provenance of one field.
func (e *EditableTargetData) FieldOrigin(lang, field string) model.Origin {
	if meta, ok := e.TranslationMeta[lang]; ok {
		if origin, ok := meta[field]; ok {
			return origin
		}
	}
	if e.Mode == ModeEdit {
		return model.OriginExisting
	}
	return ""
}

// FieldButtons exposes the affordance policy for one field.
func (e *EditableTargetData) FieldButtons(lang, field string) Buttons {
	return ButtonPolicy(e.Mode, lang, e.SourceDefaultLang, e.FieldOrigin(lang, field), e.IsFieldDirty(lang, field))
}

// IsDirty reports whether anything on this shop diverges from baseline.
func (e *EditableTargetData) IsDirty() bool {
	return len(e.DirtyFields) > 0 || len(e.DirtyVariants) > 0 ||
		e.OrderChanged || e.ImageOrderChanged ||
		e.Visibility != e.OriginalVisibility ||
		!model.SameImage(e.ProductImage, e.OriginalProductImage) ||
		len(e.RemovedImageSrcs) > 0 || e.anyVariantRemoved()
}

func (e *EditableTargetData) anyVariantRemoved() bool {
	for _, v := range e.Variants {
		if v.Removed {
			return true
		}
	}
	return false
}

// IsImageRemoved reports whether an image src is soft-removed.
func (e *EditableTargetData) IsImageRemoved(src string) bool {
	_, ok := e.RemovedImageSrcs[src]
	return ok
}

// DisplayImage is the derived "current displayed image": the selected
// product image unless it is removed, then the first non-removed image in
// order. Never stored, always derived.
func (e *EditableTargetData) DisplayImage() *model.ImageRef {
	if e.ProductImage != nil && !e.IsImageRemoved(e.ProductImage.Src) {
		return e.ProductImage
	}
	for i := range e.Images {
		if !e.IsImageRemoved(e.Images[i].Src) {
			return &e.Images[i]
		}
	}
	return nil
}

// DefaultVariantIndex returns the index of the non-removed variant
// holding the default flag, or -1.
func (e *EditableTargetData) DefaultVariantIndex() int {
	for i, v := range e.Variants {
		if !v.Removed && v.IsDefault {
			return i
		}
	}
	return -1
}

// LockForSubmit marks the shop's editable state as submit-locked so no
// user mutation can interleave with the in-flight request set. Reads stay
// allowed for progress display.
func (e *EditableTargetData) LockForSubmit() bool {
	if e.submitting {
		return false
	}
	e.submitting = true
	return true
}

// Unlock releases the submit lock, success or failure.
func (e *EditableTargetData) Unlock() {
	e.submitting = false
}

// Submitting reports whether a submit is in flight for this shop.
func (e *EditableTargetData) Submitting() bool {
	return e.submitting
}

// shopSnapshot is the post-init state ResetShop restores.
type shopSnapshot struct {
	content          map[string]model.ProductContent
	variants         []EditableVariant
	images           []model.ImageRef
	visibility       string
	productImage     *model.ImageRef
	translationMeta  map[string]map[string]model.Origin
	baselineContent  map[string]model.ProductContent
	baselineMeta     map[string]map[string]model.Origin
}

func cloneMeta(in map[string]map[string]model.Origin) map[string]map[string]model.Origin {
	out := make(map[string]map[string]model.Origin, len(in))
	for lang, fields := range in {
		m := make(map[string]model.Origin, len(fields))
		for field, origin := range fields {
			m[field] = origin
		}
		out[lang] = m
	}
	return out
}

func cloneVariants(in []EditableVariant) []EditableVariant {
	out := make([]EditableVariant, len(in))
	for i, v := range in {
		c := v
		c.Variant = v.Variant.Clone()
		c.OriginalImage = v.OriginalImage.Clone()
		c.OriginalTitles = make(map[string]string, len(v.OriginalTitles))
		for lang, t := range v.OriginalTitles {
			c.OriginalTitles[lang] = t
		}
		out[i] = c
	}
	return out
}

func cloneImages(in []model.ImageRef) []model.ImageRef {
	out := make([]model.ImageRef, len(in))
	copy(out, in)
	return out
}

// takeSnapshot captures the post-init state. Called once by the builder.
func (e *EditableTargetData) takeSnapshot() {
	e.snapshot = &shopSnapshot{
		content:         model.CloneContentMap(e.Content),
		variants:        cloneVariants(e.Variants),
		images:          cloneImages(e.Images),
		visibility:      e.Visibility,
		productImage:    e.ProductImage.Clone(),
		translationMeta: cloneMeta(e.TranslationMeta),
		baselineContent: model.CloneContentMap(e.baselineContent),
		baselineMeta:    cloneMeta(e.baselineMeta),
	}
}

// ResetShop restores the entire shop state to its post-init snapshot.
// Other shops are unaffected: no mutable structure is shared across
// EditableTargetData values.
func (e *EditableTargetData) ResetShop() {
	if e.submitting || e.snapshot == nil {
		return
	}
	s := e.snapshot
	e.Content = model.CloneContentMap(s.content)
	e.Variants = cloneVariants(s.variants)
	e.Images = cloneImages(s.images)
	e.Visibility = s.visibility
	e.ProductImage = s.productImage.Clone()
	e.TranslationMeta = cloneMeta(s.translationMeta)
	e.baselineContent = model.CloneContentMap(s.baselineContent)
	e.baselineMeta = cloneMeta(s.baselineMeta)
	e.RemovedImageSrcs = make(map[string]struct{})
	e.DirtyFields = make(map[string]struct{})
	e.DirtyVariants = make(map[string]struct{})
	e.OrderChanged = false
	e.ImageOrderChanged = false
}

func variantOrderKeys(variants []EditableVariant) []string {
	keys := make([]string, len(variants))
	for i, v := range variants {
		keys[i] = v.Key()
	}
	return keys
}

func imageOrderKeys(images []model.ImageRef) []string {
	keys := make([]string, len(images))
	for i, img := range images {
		keys[i] = img.ID
	}
	return keys
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
