package editor

import (
	"sort"

	"lightspeed-sync/internal/domain/model"
)

// LoadProduct joins product, content and variant rows keyed by product id
// and language code into the normalized ProductData shape, so everything
// downstream is agnostic of whether data came from the source shop or a
// target shop. Returned variants are sorted default-first, then by
// ascending variant id; variant and image sort orders come out dense.
func LoadProduct(product model.ProductRow, contents []model.ContentRow, variants []model.VariantRow, variantContents []model.VariantContentRow, images []model.ImageRow) model.ProductData {
	data := model.ProductData{
		ProductID:  product.ProductID,
		ShopID:     product.ShopID,
		Visibility: product.Visibility,
		Image:      product.Image.Clone(),
		Content:    make(map[string]model.ProductContent),
	}

	for _, row := range contents {
		if row.ProductID != product.ProductID {
			continue
		}
		data.Content[row.Lang] = model.ProductContent{
			URL:         row.URL,
			Title:       row.Title,
			Fulltitle:   row.Fulltitle,
			Description: row.Description,
			Content:     row.Content,
		}
	}

	titlesByVariant := make(map[int64]map[string]string)
	for _, row := range variantContents {
		if titlesByVariant[row.VariantID] == nil {
			titlesByVariant[row.VariantID] = make(map[string]string)
		}
		titlesByVariant[row.VariantID][row.Lang] = row.Title
	}

	for _, row := range variants {
		if row.ProductID != product.ProductID {
			continue
		}
		titles := titlesByVariant[row.VariantID]
		if titles == nil {
			titles = make(map[string]string)
		}
		data.Variants = append(data.Variants, model.Variant{
			VariantID: row.VariantID,
			SKU:       row.SKU,
			IsDefault: row.IsDefault,
			SortOrder: row.SortOrder,
			PriceExcl: row.PriceExcl,
			Image:     row.Image.Clone(),
			Titles:    titles,
		})
	}

	sort.SliceStable(data.Variants, func(i, j int) bool {
		a, b := data.Variants[i], data.Variants[j]
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		return a.VariantID < b.VariantID
	})
	for i := range data.Variants {
		data.Variants[i].SortOrder = i
	}

	for _, row := range images {
		if row.ProductID != product.ProductID {
			continue
		}
		data.Images = append(data.Images, model.ImageRef{
			ID:        row.ID,
			Src:       row.Src,
			Thumb:     row.Thumb,
			Title:     row.Title,
			SortOrder: row.SortOrder,
		})
	}
	sort.SliceStable(data.Images, func(i, j int) bool {
		return data.Images[i].SortOrder < data.Images[j].SortOrder
	})
	for i := range data.Images {
		data.Images[i].SortOrder = i
	}

	return data
}
