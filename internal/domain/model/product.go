package model

// Product visibility values as the remote API reports them.
const (
	VisibilityVisible = "visible"
	VisibilityHidden  = "hidden"
	VisibilityAuto    = "auto"
)

// ImageRef is a product or variant image. ID is a stable client-side
// identity (uuid) used for removal and restore tracking; remote numeric IDs
// do not exist for images that have not been created yet.
type ImageRef struct {
	ID        string
	Src       string
	Thumb     string
	Title     string
	SortOrder int
}

// Clone returns a copy of the image reference, nil-safe.
func (i *ImageRef) Clone() *ImageRef {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// SameImage reports whether two image references point at the same source,
// treating two nils as equal.
func SameImage(a, b *ImageRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Src == b.Src
}

// Variant is one product variant. VariantID 0 denotes a variant created
// client-side and not yet persisted remotely.
type Variant struct {
	VariantID int64
	SKU       string
	IsDefault bool
	SortOrder int
	PriceExcl float64
	Image     *ImageRef
	// Titles maps language code to the variant title in that language.
	// An absent key means the variant has no title for that language.
	Titles map[string]string
}

// Clone returns a deep copy of the variant.
func (v Variant) Clone() Variant {
	out := v
	out.Image = v.Image.Clone()
	out.Titles = make(map[string]string, len(v.Titles))
	for lang, t := range v.Titles {
		out.Titles[lang] = t
	}
	return out
}

// Title returns the variant title for lang, falling back to the shop's
// default language when lang has no title.
func (v Variant) Title(lang, defaultLang string) string {
	if t, ok := v.Titles[lang]; ok && t != "" {
		return t
	}
	return v.Titles[defaultLang]
}

// ProductData is the normalized product view: the same shape whether the
// product was loaded from the source shop or a target shop mirror.
type ProductData struct {
	ProductID  int64
	ShopID     int64
	Visibility string
	Image      *ImageRef
	Content    map[string]ProductContent
	Variants   []Variant
	Images     []ImageRef
}

// DefaultVariant returns the index of the variant flagged default, or -1.
func (p ProductData) DefaultVariant() int {
	for i, v := range p.Variants {
		if v.IsDefault {
			return i
		}
	}
	return -1
}
