package editor

import "lightspeed-sync/internal/domain/model"

// Mode distinguishes the create flow (product does not exist on the
// target yet) from the edit flow (reworking the target's existing data).
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Classify resolves the origin of one content field.
//
// Create mode: manual when dirty, otherwise copied for the source default
// language and translated for every other language. Edit mode: the
// persisted origin when present (defaulting to existing), flipping to
// manual on a dirty edit; a manual origin is never downgraded here — only
// an explicit reset or retranslate does that.
func Classify(mode Mode, lang, sourceDefaultLang string, isDirty bool, existing model.Origin) model.Origin {
	if mode == ModeCreate {
		if isDirty {
			return model.OriginManual
		}
		if lang == sourceDefaultLang {
			return model.OriginCopied
		}
		return model.OriginTranslated
	}

	origin := existing
	if origin == "" {
		origin = model.OriginExisting
	}
	if isDirty {
		return model.OriginManual
	}
	return origin
}

// Buttons is the per-field affordance set derived from provenance. The
// engine exposes the policy; callers decide what is actually clickable.
type Buttons struct {
	PickFromSource bool
	Reset          bool
	Retranslate    bool
}

// ButtonPolicy maps mode, language and origin onto the affordances.
func ButtonPolicy(mode Mode, lang, sourceDefaultLang string, origin model.Origin, dirty bool) Buttons {
	if mode == ModeCreate {
		if lang == sourceDefaultLang {
			return Buttons{PickFromSource: dirty}
		}
		return Buttons{Reset: dirty, Retranslate: true}
	}

	switch origin {
	case model.OriginManual:
		return Buttons{PickFromSource: true, Reset: true}
	case model.OriginCopied, model.OriginTranslated:
		return Buttons{Reset: true}
	default: // existing
		return Buttons{PickFromSource: true}
	}
}
