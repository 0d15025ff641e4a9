package model

// Origin classifies where a content field's current value came from.
type Origin string

const (
	OriginCopied     Origin = "copied"     // taken verbatim from the source shop
	OriginTranslated Origin = "translated" // machine-translated from source
	OriginManual     Origin = "manual"     // edited by the operator
	OriginExisting   Origin = "existing"   // untouched value already on the target shop
)

// TranslationItem is one field of source text to translate into one
// target language.
type TranslationItem struct {
	SourceLang string
	TargetLang string
	Field      string
	Text       string
}

// TranslationResult pairs an item with its translation. The translation
// service returns results in the same order and count as the request.
type TranslationResult struct {
	TranslationItem
	TranslatedText string
}
