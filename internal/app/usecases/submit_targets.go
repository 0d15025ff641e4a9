package usecases

import (
	"context"
	"fmt"
	"sync"

	"lightspeed-sync/internal/adapters/lightspeed"
	"lightspeed-sync/internal/adapters/lightspeed/dto"
	"lightspeed-sync/internal/adapters/mirror"
	"lightspeed-sync/internal/app/editor"
	"lightspeed-sync/internal/domain/model"
	"lightspeed-sync/internal/logging"
)

// SubmitResult reports one shop's submit outcome. Err is nil on success
// and a Validation/RemoteAPI/MirrorWrite error otherwise; the error never
// concerns any other shop.
type SubmitResult struct {
	ShopTLD   string
	ProductID int64
	Submitted bool
	Err       error
}

type SubmitTargetsService interface {
	Run(ctx context.Context, targets []*editor.EditableTargetData) []SubmitResult
}

type SubmitTargetsClient struct {
	clients map[string]lightspeed.ClientService
	store   mirror.StoreService
	logger  logging.Notifier
}

// NewSubmitTargets builds the submit job. clients is keyed by shop TLD.
func NewSubmitTargets(clients map[string]lightspeed.ClientService, store mirror.StoreService, logger logging.Notifier) SubmitTargetsService {
	return &SubmitTargetsClient{
		clients: clients,
		store:   store,
		logger:  logger,
	}
}

// Run submits every target shop's finalized state. Shops submit
// concurrently and fail independently; results are index-aligned with
// targets.
func (c *SubmitTargetsClient) Run(ctx context.Context, targets []*editor.EditableTargetData) []SubmitResult {
	results := make([]SubmitResult, len(targets))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentShops)
	for i, target := range targets {
		i, target := i, target
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = c.submitShop(ctx, target)
		}()
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			c.logger.LogError(fmt.Sprintf("Submit failed shop=%s", r.ShopTLD), r.Err)
		} else if r.Submitted {
			c.logger.LogSuccess(fmt.Sprintf("Submit completed shop=%s product=%d", r.ShopTLD, r.ProductID))
		}
	}
	return results
}

func (c *SubmitTargetsClient) submitShop(ctx context.Context, e *editor.EditableTargetData) SubmitResult {
	result := SubmitResult{ShopTLD: e.ShopTLD, ProductID: e.ProductID}

	client, ok := c.clients[e.ShopTLD]
	if !ok {
		result.Err = &ValidationError{ShopTLD: e.ShopTLD, Reason: "no api client configured"}
		return result
	}

	// Lock before planning so no edit can slip in between the plan and
	// the calls it describes.
	if !e.LockForSubmit() {
		result.Err = &ValidationError{ShopTLD: e.ShopTLD, Reason: "submit already in progress"}
		return result
	}
	defer e.Unlock()

	plan, err := editor.BuildPlan(e)
	if err != nil {
		result.Err = &ValidationError{ShopTLD: e.ShopTLD, Reason: "submit blocked", Err: err}
		return result
	}
	if plan.IsEmpty() {
		return result
	}

	ids := c.executePlan(ctx, client, e, plan)
	if ids.err != nil {
		result.Err = ids.err
		return result
	}
	result.ProductID = ids.productID
	result.Submitted = true

	rows := buildMirrorRows(e, ids)
	if err := c.store.ReplaceProductState(ctx, e.ShopID, rows); err != nil {
		result.Err = &MirrorWriteError{ShopTLD: e.ShopTLD, Err: err}
	}
	return result
}

// assignedIDs maps the plan's client-side keys to the remote ids the API
// assigned while the plan executed.
type assignedIDs struct {
	productID  int64
	variantIDs map[string]int64
	imageIDs   map[string]int64
	err        error
}

func (c *SubmitTargetsClient) executePlan(ctx context.Context, client lightspeed.ClientService, e *editor.EditableTargetData, plan *editor.Plan) assignedIDs {
	ids := assignedIDs{
		productID:  plan.ProductID,
		variantIDs: make(map[string]int64),
		imageIDs:   make(map[string]int64),
	}
	fail := func(op string, err error) assignedIDs {
		ids.err = &RemoteAPIError{ShopTLD: e.ShopTLD, Op: op, Err: err}
		return ids
	}

	if op := plan.CreateProduct; op != nil {
		in := contentInput(op.Content)
		vis := op.Visibility
		in.Visibility = &vis
		created, err := client.CreateProduct(ctx, op.Lang, in)
		if err != nil {
			return fail("create product", err)
		}
		ids.productID = created.ID
	}

	if op := plan.UpdateProduct; op != nil {
		in := contentInput(op.Content)
		in.Visibility = op.Visibility
		if err := client.UpdateProduct(ctx, op.Lang, ids.productID, in); err != nil {
			return fail("update product", err)
		}
	}

	for _, op := range plan.ContentUpdates {
		if err := client.UpdateProduct(ctx, op.Lang, ids.productID, contentInput(op.Content)); err != nil {
			return fail(fmt.Sprintf("update content lang=%s", op.Lang), err)
		}
	}

	for _, op := range plan.VariantCreates {
		in := dto.VariantInput{
			Product:   &ids.productID,
			IsDefault: boolPtr(op.IsDefault),
			SortOrder: intPtr(op.SortOrder),
			SKU:       strPtr(op.SKU),
			PriceExcl: floatPtr(op.PriceExcl),
			Image:     imageInput(op.Image),
		}
		if title, ok := op.Titles[e.DefaultLang]; ok {
			in.Title = &title
		}
		created, err := client.CreateVariant(ctx, e.DefaultLang, in)
		if err != nil {
			return fail(fmt.Sprintf("create variant sku=%s", op.SKU), err)
		}
		ids.variantIDs[op.TempID] = created.ID
		if err := c.updateVariantTitles(ctx, client, e, created.ID, op.Titles); err != nil {
			return fail(fmt.Sprintf("localize variant sku=%s", op.SKU), err)
		}
	}

	for _, op := range plan.VariantUpdates {
		in := dto.VariantInput{
			IsDefault: op.IsDefault,
			SortOrder: op.SortOrder,
			SKU:       op.SKU,
			PriceExcl: op.PriceExcl,
			Image:     imageInput(op.Image),
		}
		if title, ok := op.Titles[e.DefaultLang]; ok {
			in.Title = &title
		}
		if in != (dto.VariantInput{}) {
			if err := client.UpdateVariant(ctx, e.DefaultLang, op.VariantID, in); err != nil {
				return fail(fmt.Sprintf("update variant id=%d", op.VariantID), err)
			}
		}
		if err := c.updateVariantTitles(ctx, client, e, op.VariantID, op.Titles); err != nil {
			return fail(fmt.Sprintf("localize variant id=%d", op.VariantID), err)
		}
	}

	for _, op := range plan.VariantDeletes {
		if err := client.DeleteVariant(ctx, e.DefaultLang, op.VariantID); err != nil {
			return fail(fmt.Sprintf("delete variant id=%d", op.VariantID), err)
		}
	}

	for _, op := range plan.ImageCreates {
		in := dto.ImageInput{Src: strPtr(op.Src), SortOrder: intPtr(op.SortOrder)}
		if op.Title != "" {
			in.Title = strPtr(op.Title)
		}
		created, err := client.CreateProductImage(ctx, ids.productID, e.DefaultLang, in)
		if err != nil {
			return fail("create product image", err)
		}
		ids.imageIDs[op.Src] = created.ID
	}

	if len(plan.ImageUpdates) > 0 || len(plan.ImageDeletes) > 0 {
		// Existing image ids are not tracked client-side; resolve them
		// from a live listing.
		remote, err := client.GetProductImages(ctx, ids.productID, e.DefaultLang)
		if err != nil {
			return fail("list product images", err)
		}
		bySrc := make(map[string]int64, len(remote))
		for _, img := range remote {
			bySrc[img.Src] = img.ID
		}

		for _, op := range plan.ImageUpdates {
			imageID, ok := bySrc[op.Src]
			if !ok {
				continue
			}
			in := dto.ImageInput{Title: strPtr(op.Title), SortOrder: intPtr(op.SortOrder)}
			if err := client.UpdateProductImage(ctx, ids.productID, imageID, e.DefaultLang, in); err != nil {
				return fail(fmt.Sprintf("update product image id=%d", imageID), err)
			}
			ids.imageIDs[op.Src] = imageID
		}
		for _, op := range plan.ImageDeletes {
			imageID, ok := bySrc[op.Src]
			if !ok {
				continue
			}
			if err := client.DeleteProductImage(ctx, ids.productID, imageID, e.DefaultLang); err != nil {
				return fail(fmt.Sprintf("delete product image id=%d", imageID), err)
			}
		}
	}

	return ids
}

// updateVariantTitles pushes the non-default-language titles of one
// variant, one content-only call per language.
func (c *SubmitTargetsClient) updateVariantTitles(ctx context.Context, client lightspeed.ClientService, e *editor.EditableTargetData, variantID int64, titles map[string]string) error {
	for _, lang := range e.Languages {
		if lang == e.DefaultLang {
			continue
		}
		title, ok := titles[lang]
		if !ok || title == "" {
			continue
		}
		if err := client.UpdateVariant(ctx, lang, variantID, dto.VariantInput{Title: &title}); err != nil {
			return err
		}
	}
	return nil
}

// buildMirrorRows describes the submitted state with its assigned remote
// ids, ready for the transactional mirror write.
func buildMirrorRows(e *editor.EditableTargetData, ids assignedIDs) mirror.ProductRows {
	rows := mirror.ProductRows{
		Product: model.ProductRow{
			ProductID:  ids.productID,
			ShopID:     e.ShopID,
			Visibility: e.Visibility,
			Image:      e.ProductImage.Clone(),
		},
	}

	for _, lang := range e.Languages {
		content := e.Content[lang]
		rows.Contents = append(rows.Contents, model.ContentRow{
			ProductID:   ids.productID,
			Lang:        lang,
			URL:         content.URL,
			Title:       content.Title,
			Fulltitle:   content.Fulltitle,
			Description: content.Description,
			Content:     content.Content,
		})
	}

	for _, v := range e.Variants {
		if v.Removed {
			continue
		}
		variantID := v.VariantID
		if variantID == 0 {
			assigned, ok := ids.variantIDs[v.TempID]
			if !ok {
				continue
			}
			variantID = assigned
		}
		rows.Variants = append(rows.Variants, model.VariantRow{
			VariantID: variantID,
			ProductID: ids.productID,
			SKU:       v.SKU,
			IsDefault: v.IsDefault,
			SortOrder: v.SortOrder,
			PriceExcl: v.PriceExcl,
			Image:     v.Image.Clone(),
		})
		for _, lang := range e.Languages {
			title, ok := v.Titles[lang]
			if !ok || title == "" {
				continue
			}
			rows.VariantContents = append(rows.VariantContents, model.VariantContentRow{
				VariantID: variantID,
				Lang:      lang,
				Title:     title,
			})
		}
	}

	for _, img := range e.Images {
		if e.IsImageRemoved(img.Src) {
			continue
		}
		rows.Images = append(rows.Images, model.ImageRow{
			ID:        img.ID,
			RemoteID:  ids.imageIDs[img.Src],
			ProductID: ids.productID,
			Src:       img.Src,
			Thumb:     img.Thumb,
			Title:     img.Title,
			SortOrder: img.SortOrder,
		})
	}
	return rows
}

func contentInput(c model.ProductContent) dto.ProductInput {
	return dto.ProductInput{
		Title:       c.Title,
		Fulltitle:   c.Fulltitle,
		Description: c.Description,
		Content:     c.Content,
	}
}

func imageInput(ref *model.ImageRef) *dto.Image {
	if ref == nil {
		return nil
	}
	return &dto.Image{Src: ref.Src, Thumb: ref.Thumb, Title: ref.Title}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
