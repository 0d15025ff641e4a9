package usecases

import (
	"context"
	"fmt"

	"lightspeed-sync/internal/app/editor"
	"lightspeed-sync/internal/app/translate"
	"lightspeed-sync/internal/domain/model"
	"lightspeed-sync/internal/logging"
)

// PreparedTarget is one shop's initialized working copy. Warning carries a
// *TranslationError when the initial batch degraded to source text; the
// target is usable either way.
type PreparedTarget struct {
	Target  *editor.EditableTargetData
	Warning error
}

type PrepareTargetsService interface {
	Create(ctx context.Context, source model.ProductData, sourceDefaultLang string, shops []model.Shop) []PreparedTarget
	Edit(source, target model.ProductData, sourceDefaultLang string, shop model.Shop) PreparedTarget
}

type PrepareTargetsClient struct {
	builder *editor.Builder
	logger  logging.Notifier
}

// NewPrepareTargets wires the target-state builder with the translation
// service and the optional session cache. cache may be nil.
func NewPrepareTargets(translator translate.Service, cache *translate.Cache, logger logging.Notifier) PrepareTargetsService {
	return &PrepareTargetsClient{
		builder: editor.NewBuilder(translator, cache),
		logger:  logger,
	}
}

// Create initializes one working copy per target shop. A failed
// translation batch never blocks a shop: the builder has already fallen
// back to source text, so the failure surfaces as a shop-level warning.
func (c *PrepareTargetsClient) Create(ctx context.Context, source model.ProductData, sourceDefaultLang string, shops []model.Shop) []PreparedTarget {
	out := make([]PreparedTarget, 0, len(shops))
	for _, shop := range shops {
		target, err := c.builder.InitCreate(ctx, source, sourceDefaultLang, shop)
		prepared := PreparedTarget{Target: target}
		if err != nil {
			prepared.Warning = &TranslationError{ShopTLD: shop.TLD, Err: err}
			c.logger.LogWarning(fmt.Sprintf("Translation fell back to source text shop=%s: %v", shop.TLD, err))
		}
		out = append(out, prepared)
	}
	return out
}

// Edit seeds a working copy from the target shop's own mirrored state; no
// translation call is involved.
func (c *PrepareTargetsClient) Edit(source, target model.ProductData, sourceDefaultLang string, shop model.Shop) PreparedTarget {
	return PreparedTarget{Target: c.builder.InitEdit(source, target, sourceDefaultLang, shop)}
}
