package model

// Content field names as they appear in dirty-field keys and translation items.
const (
	FieldTitle       = "title"
	FieldFulltitle   = "fulltitle"
	FieldDescription = "description"
	FieldContent     = "content"
)

// TranslatableFields lists the product content fields that are copied or
// machine-translated per target language, in a stable order.
var TranslatableFields = []string{FieldTitle, FieldFulltitle, FieldDescription, FieldContent}

// ProductContent holds the per-language text of a product. Nil means the
// field has no value, which is distinct from an empty string.
type ProductContent struct {
	URL         *string
	Title       *string
	Fulltitle   *string
	Description *string
	Content     *string
}

// Field returns the named translatable field. ok is false when the field
// is absent (nil).
func (c ProductContent) Field(name string) (value string, ok bool) {
	p := c.fieldPtr(name)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// SetField assigns the named translatable field.
func (c *ProductContent) SetField(name, value string) {
	if p := c.fieldPtr(name); p != nil {
		v := value
		*p = &v
	}
}

// ClearField removes the named translatable field.
func (c *ProductContent) ClearField(name string) {
	if p := c.fieldPtr(name); p != nil {
		*p = nil
	}
}

func (c *ProductContent) fieldPtr(name string) **string {
	switch name {
	case FieldTitle:
		return &c.Title
	case FieldFulltitle:
		return &c.Fulltitle
	case FieldDescription:
		return &c.Description
	case FieldContent:
		return &c.Content
	}
	return nil
}

// Clone returns a deep copy.
func (c ProductContent) Clone() ProductContent {
	out := ProductContent{}
	copyPtr := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	out.URL = copyPtr(c.URL)
	out.Title = copyPtr(c.Title)
	out.Fulltitle = copyPtr(c.Fulltitle)
	out.Description = copyPtr(c.Description)
	out.Content = copyPtr(c.Content)
	return out
}

// CloneContentMap deep-copies a per-language content map.
func CloneContentMap(in map[string]ProductContent) map[string]ProductContent {
	out := make(map[string]ProductContent, len(in))
	for lang, c := range in {
		out[lang] = c.Clone()
	}
	return out
}
