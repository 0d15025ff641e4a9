package editor

import (
	"errors"
	"sort"
	"strings"

	"lightspeed-sync/internal/domain/model"
)

// Plan is the minimal operation set bringing one target shop to the
// finalized editable state. Slices are ordered for execution: product
// first, then content, then variant creates before updates before
// deletes, then images — so a default reassignment never opens a window
// with zero default entities on the remote side.
type Plan struct {
	ShopID    int64
	ShopTLD   string
	Mode      Mode
	ProductID int64

	CreateProduct  *CreateProductOp
	UpdateProduct  *UpdateProductOp
	ContentUpdates []ContentUpdateOp

	VariantCreates []VariantCreateOp
	VariantUpdates []VariantUpdateOp
	VariantDeletes []VariantDeleteOp

	ImageCreates []ImageCreateOp
	ImageUpdates []ImageUpdateOp
	ImageDeletes []ImageDeleteOp
}

// IsEmpty reports whether the plan carries no remote operation at all.
func (p Plan) IsEmpty() bool {
	return p.CreateProduct == nil && p.UpdateProduct == nil &&
		len(p.ContentUpdates) == 0 &&
		len(p.VariantCreates) == 0 && len(p.VariantUpdates) == 0 && len(p.VariantDeletes) == 0 &&
		len(p.ImageCreates) == 0 && len(p.ImageUpdates) == 0 && len(p.ImageDeletes) == 0
}

type CreateProductOp struct {
	Lang       string
	Visibility string
	Content    model.ProductContent
}

// UpdateProductOp carries only what is dirty: a nil Visibility or a field
// left nil in Content is not sent.
type UpdateProductOp struct {
	Lang       string
	Visibility *string
	Content    model.ProductContent
}

type ContentUpdateOp struct {
	Lang    string
	Content model.ProductContent
}

type VariantCreateOp struct {
	TempID    string
	SKU       string
	IsDefault bool
	SortOrder int
	PriceExcl float64
	Image     *model.ImageRef
	Titles    map[string]string
}

// VariantUpdateOp carries pointers for changed scalar fields only. Image
// is present only when it changed to a non-nil value: the remote API
// cannot clear a variant image.
type VariantUpdateOp struct {
	VariantID int64
	SKU       *string
	PriceExcl *float64
	SortOrder *int
	IsDefault *bool
	Image     *model.ImageRef
	Titles    map[string]string
}

type VariantDeleteOp struct {
	VariantID int64
}

type ImageCreateOp struct {
	ClientID  string
	Src       string
	Title     string
	SortOrder int
}

// Image ops for existing images are keyed by src; the executor resolves
// the remote image id from the mirror or a live image listing.
type ImageUpdateOp struct {
	Src       string
	Title     string
	SortOrder int
}

type ImageDeleteOp struct {
	Src string
}

// ErrNoTargetLanguages blocks a submit for a shop with no configured
// active languages.
var ErrNoTargetLanguages = errors.New("target shop has no active languages")

// ErrEmptyTitle blocks a submit when the default-language title is blank.
var ErrEmptyTitle = errors.New("default language title is required")

// BuildPlan computes the minimal operation set for one finalized shop
// state. Create mode emits creates for everything non-removed; edit mode
// emits updates for dirty entities only, deletes for removed persisted
// entities, and nothing for removed entities that never existed remotely.
func BuildPlan(e *EditableTargetData) (*Plan, error) {
	if len(e.Languages) == 0 {
		return nil, ErrNoTargetLanguages
	}
	if e.Mode == ModeCreate {
		if title, ok := e.Content[e.DefaultLang].Field(model.FieldTitle); !ok || strings.TrimSpace(title) == "" {
			return nil, ErrEmptyTitle
		}
	}

	plan := &Plan{
		ShopID:    e.ShopID,
		ShopTLD:   e.ShopTLD,
		Mode:      e.Mode,
		ProductID: e.ProductID,
	}
	if e.Mode == ModeCreate {
		buildCreatePlan(e, plan)
	} else {
		buildEditPlan(e, plan)
	}
	return plan, nil
}

func buildCreatePlan(e *EditableTargetData, plan *Plan) {
	plan.CreateProduct = &CreateProductOp{
		Lang:       e.DefaultLang,
		Visibility: e.Visibility,
		Content:    e.Content[e.DefaultLang].Clone(),
	}
	for _, lang := range e.Languages {
		if lang == e.DefaultLang {
			continue
		}
		content := e.Content[lang]
		if contentEmpty(content) {
			continue
		}
		plan.ContentUpdates = append(plan.ContentUpdates, ContentUpdateOp{Lang: lang, Content: content.Clone()})
	}

	// Default variant first: the remote side assumes the first created
	// variant is the product's primary one.
	for _, v := range orderedForCreate(e.Variants) {
		plan.VariantCreates = append(plan.VariantCreates, VariantCreateOp{
			TempID:    v.TempID,
			SKU:       v.SKU,
			IsDefault: v.IsDefault,
			SortOrder: v.SortOrder,
			PriceExcl: v.PriceExcl,
			Image:     v.Image.Clone(),
			Titles:    copyTitles(v.Titles),
		})
	}

	for _, img := range e.Images {
		if e.IsImageRemoved(img.Src) {
			continue
		}
		plan.ImageCreates = append(plan.ImageCreates, ImageCreateOp{
			ClientID:  img.ID,
			Src:       img.Src,
			Title:     img.Title,
			SortOrder: img.SortOrder,
		})
	}
}

func buildEditPlan(e *EditableTargetData, plan *Plan) {
	// Product update only when visibility or a default-language field is
	// dirty.
	var vis *string
	if e.Visibility != e.OriginalVisibility {
		v := e.Visibility
		vis = &v
	}
	dirtyDefault := dirtyContentFields(e, e.DefaultLang)
	if vis != nil || !contentEmpty(dirtyDefault) {
		plan.UpdateProduct = &UpdateProductOp{
			Lang:       e.DefaultLang,
			Visibility: vis,
			Content:    dirtyDefault,
		}
	}
	for _, lang := range e.Languages {
		if lang == e.DefaultLang {
			continue
		}
		dirty := dirtyContentFields(e, lang)
		if contentEmpty(dirty) {
			continue
		}
		plan.ContentUpdates = append(plan.ContentUpdates, ContentUpdateOp{Lang: lang, Content: dirty})
	}

	for _, v := range orderedForCreate(e.Variants) {
		if v.VariantID != 0 {
			continue
		}
		plan.VariantCreates = append(plan.VariantCreates, VariantCreateOp{
			TempID:    v.TempID,
			SKU:       v.SKU,
			IsDefault: v.IsDefault,
			SortOrder: v.SortOrder,
			PriceExcl: v.PriceExcl,
			Image:     v.Image.Clone(),
			Titles:    copyTitles(v.Titles),
		})
	}

	for i := range e.Variants {
		v := &e.Variants[i]
		if v.Removed || v.VariantID == 0 {
			continue
		}
		if op := variantUpdate(e, v); op != nil {
			plan.VariantUpdates = append(plan.VariantUpdates, *op)
		}
	}

	// Deletes last; removed variants that were never persisted simply
	// vanish.
	for _, v := range e.Variants {
		if v.Removed && v.VariantID != 0 {
			plan.VariantDeletes = append(plan.VariantDeletes, VariantDeleteOp{VariantID: v.VariantID})
		}
	}

	buildImageOps(e, plan)
}

func variantUpdate(e *EditableTargetData, v *EditableVariant) *VariantUpdateOp {
	_, dirty := e.DirtyVariants[v.Key()]
	orderMoved := v.SortOrder != v.OriginalSortOrder
	defaultMoved := v.IsDefault != v.OriginalIsDefault
	if !dirty && !orderMoved && !defaultMoved {
		return nil
	}

	op := &VariantUpdateOp{VariantID: v.VariantID}
	if v.SKU != v.OriginalSKU {
		sku := v.SKU
		op.SKU = &sku
	}
	if v.PriceExcl != v.OriginalPrice {
		price := v.PriceExcl
		op.PriceExcl = &price
	}
	if orderMoved {
		order := v.SortOrder
		op.SortOrder = &order
	}
	if defaultMoved {
		def := v.IsDefault
		op.IsDefault = &def
	}
	if !model.SameImage(v.Image, v.OriginalImage) && v.Image != nil {
		op.Image = v.Image.Clone()
	}
	for lang, title := range v.Titles {
		if v.OriginalTitles[lang] == title {
			continue
		}
		if op.Titles == nil {
			op.Titles = make(map[string]string)
		}
		op.Titles[lang] = title
	}
	return op
}

func buildImageOps(e *EditableTargetData, plan *Plan) {
	original := make(map[string]model.ImageRef, len(e.snapshot.images))
	for _, img := range e.snapshot.images {
		original[img.Src] = img
	}

	for _, img := range e.Images {
		if e.IsImageRemoved(img.Src) {
			continue
		}
		orig, existed := original[img.Src]
		if !existed {
			plan.ImageCreates = append(plan.ImageCreates, ImageCreateOp{
				ClientID:  img.ID,
				Src:       img.Src,
				Title:     img.Title,
				SortOrder: img.SortOrder,
			})
			continue
		}
		if img.SortOrder != orig.SortOrder || img.Title != orig.Title {
			plan.ImageUpdates = append(plan.ImageUpdates, ImageUpdateOp{
				Src:       img.Src,
				Title:     img.Title,
				SortOrder: img.SortOrder,
			})
		}
	}

	for src := range e.RemovedImageSrcs {
		if _, existed := original[src]; existed {
			plan.ImageDeletes = append(plan.ImageDeletes, ImageDeleteOp{Src: src})
		}
	}
	sort.Slice(plan.ImageDeletes, func(i, j int) bool {
		return plan.ImageDeletes[i].Src < plan.ImageDeletes[j].Src
	})
}

// dirtyContentFields returns a content payload holding only the fields of
// lang currently marked dirty.
func dirtyContentFields(e *EditableTargetData, lang string) model.ProductContent {
	var out model.ProductContent
	content := e.Content[lang]
	for _, field := range model.TranslatableFields {
		if !e.IsFieldDirty(lang, field) {
			continue
		}
		if value, ok := content.Field(field); ok {
			out.SetField(field, value)
		} else {
			// Cleared fields are sent as empty strings.
			out.SetField(field, "")
		}
	}
	return out
}

func contentEmpty(c model.ProductContent) bool {
	for _, field := range model.TranslatableFields {
		if _, ok := c.Field(field); ok {
			return false
		}
	}
	return true
}

// orderedForCreate yields non-removed variants with the default variant
// first, then by sort order.
func orderedForCreate(variants []EditableVariant) []EditableVariant {
	out := make([]EditableVariant, 0, len(variants))
	for _, v := range variants {
		if !v.Removed {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

func copyTitles(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for lang, t := range in {
		out[lang] = t
	}
	return out
}
