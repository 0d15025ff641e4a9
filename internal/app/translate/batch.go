package translate

import (
	"context"
	"strings"

	"lightspeed-sync/internal/domain/model"
)

// Service is the external batch translation call. Implemented by the
// deepl adapter; a call either fully succeeds with one result per item in
// input order or fails as a whole.
type Service interface {
	Translate(ctx context.Context, items []model.TranslationItem) ([]model.TranslationResult, error)
}

// Batch is the outcome of PrepareBatch: the items that need a translation
// call plus the target languages that are plain copies of the source.
type Batch struct {
	Items         []model.TranslationItem
	CopyLanguages []string
}

// PrepareBatch walks the target languages and decides copy versus
// translate per language. The shop's own default language is always a
// direct copy and never hits the translation service. Blank source fields
// are never sent for translation.
func PrepareBatch(source model.ProductContent, sourceDefaultLang string, targetLanguages []string) Batch {
	var b Batch
	for _, lang := range targetLanguages {
		if lang == sourceDefaultLang {
			b.CopyLanguages = append(b.CopyLanguages, lang)
			continue
		}
		for _, field := range model.TranslatableFields {
			text, ok := source.Field(field)
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			b.Items = append(b.Items, model.TranslationItem{
				SourceLang: sourceDefaultLang,
				TargetLang: lang,
				Field:      field,
				Text:       text,
			})
		}
	}
	return b
}

// Dedup maps a full item list onto its unique subset. IndexMap[i] is the
// position in UniqueItems that items[i] resolves to.
type Dedup struct {
	UniqueItems []model.TranslationItem
	IndexMap    []int
}

func dedupKey(item model.TranslationItem) string {
	return item.TargetLang + "\x00" + item.Field + "\x00" + item.Text
}

// Deduplicate collapses items sharing (targetLang, field, text) so that
// identical text translated to the same language is requested once.
func Deduplicate(items []model.TranslationItem) Dedup {
	d := Dedup{IndexMap: make([]int, len(items))}
	seen := make(map[string]int, len(items))
	for i, item := range items {
		key := dedupKey(item)
		pos, ok := seen[key]
		if !ok {
			pos = len(d.UniqueItems)
			seen[key] = pos
			d.UniqueItems = append(d.UniqueItems, item)
		}
		d.IndexMap[i] = pos
	}
	return d
}

// ReconstructResults expands the unique subset's results back into a full
// parallel result array matching the original item order and count.
func ReconstructResults(items []model.TranslationItem, d Dedup, unique []model.TranslationResult) []model.TranslationResult {
	out := make([]model.TranslationResult, len(items))
	for i, item := range items {
		pos := d.IndexMap[i]
		out[i] = model.TranslationResult{
			TranslationItem: item,
			TranslatedText:  unique[pos].TranslatedText,
		}
	}
	return out
}

// Applied is one ProductContent plus provenance entry per target language.
type Applied struct {
	ContentByLanguage map[string]model.ProductContent
	TranslationMeta   map[string]map[string]model.Origin
}

// ApplyResults builds the per-language content from a copy or a
// translation lookup. Idempotent: the same inputs always yield the same
// output. An item with no matching result falls back to the untranslated
// source text and is still marked translated, so a failed batch degrades
// to approximate content instead of blocking the flow.
func ApplyResults(source model.ProductContent, sourceDefaultLang string, targetLanguages []string, results []model.TranslationResult) Applied {
	lookup := make(map[string]string, len(results))
	for _, r := range results {
		lookup[dedupKey(r.TranslationItem)] = r.TranslatedText
	}

	applied := Applied{
		ContentByLanguage: make(map[string]model.ProductContent, len(targetLanguages)),
		TranslationMeta:   make(map[string]map[string]model.Origin, len(targetLanguages)),
	}
	for _, lang := range targetLanguages {
		content := model.ProductContent{}
		meta := make(map[string]model.Origin)
		for _, field := range model.TranslatableFields {
			text, ok := source.Field(field)
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			if lang == sourceDefaultLang {
				content.SetField(field, text)
				meta[field] = model.OriginCopied
				continue
			}
			key := dedupKey(model.TranslationItem{TargetLang: lang, Field: field, Text: text})
			if translated, found := lookup[key]; found {
				content.SetField(field, translated)
			} else {
				content.SetField(field, text)
			}
			meta[field] = model.OriginTranslated
		}
		applied.ContentByLanguage[lang] = content
		applied.TranslationMeta[lang] = meta
	}
	return applied
}

// Run is the full batcher pass for one source content against one shop's
// target languages: prepare, deduplicate, call the service for cache
// misses only, and apply. cache may be nil; its absence changes call
// volume, never results. On a failed service call the source text is
// applied as-is (approximate-but-available) and the error is returned for
// shop-level surfacing.
func Run(ctx context.Context, svc Service, cache *Cache, source model.ProductContent, sourceDefaultLang string, targetLanguages []string) (Applied, error) {
	batch := PrepareBatch(source, sourceDefaultLang, targetLanguages)
	dedup := Deduplicate(batch.Items)

	unique := make([]model.TranslationResult, len(dedup.UniqueItems))
	var missing []model.TranslationItem
	var missingPos []int
	for i, item := range dedup.UniqueItems {
		if text, ok := cache.Get(CacheKey(item)); ok {
			unique[i] = model.TranslationResult{TranslationItem: item, TranslatedText: text}
			continue
		}
		missing = append(missing, item)
		missingPos = append(missingPos, i)
	}

	var svcErr error
	if len(missing) > 0 {
		results, err := svc.Translate(ctx, missing)
		if err != nil {
			svcErr = err
			// fall back to source text for every missed item
			for n, item := range missing {
				unique[missingPos[n]] = model.TranslationResult{TranslationItem: item, TranslatedText: item.Text}
			}
		} else {
			for n, r := range results {
				unique[missingPos[n]] = r
				cache.Put(CacheKey(r.TranslationItem), r.TranslatedText)
			}
		}
	}

	full := ReconstructResults(batch.Items, dedup, unique)
	return ApplyResults(source, sourceDefaultLang, targetLanguages, full), svcErr
}
