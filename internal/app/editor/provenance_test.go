package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lightspeed-sync/internal/domain/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		lang     string
		dirty    bool
		existing model.Origin
		want     model.Origin
	}{
		{"create same-lang clean", ModeCreate, "nl", false, "", model.OriginCopied},
		{"create other-lang clean", ModeCreate, "de", false, "", model.OriginTranslated},
		{"create dirty", ModeCreate, "de", true, "", model.OriginManual},
		{"edit no meta", ModeEdit, "de", false, "", model.OriginExisting},
		{"edit persisted meta", ModeEdit, "de", false, model.OriginTranslated, model.OriginTranslated},
		{"edit dirty flips manual", ModeEdit, "de", true, model.OriginExisting, model.OriginManual},
		{"edit manual stays manual", ModeEdit, "de", false, model.OriginManual, model.OriginManual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mode, tt.lang, "nl", tt.dirty, tt.existing))
		})
	}
}

func TestButtonPolicy(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		lang   string
		origin model.Origin
		dirty  bool
		want   Buttons
	}{
		{"create same-lang dirty", ModeCreate, "nl", model.OriginManual, true, Buttons{PickFromSource: true}},
		{"create same-lang clean", ModeCreate, "nl", model.OriginCopied, false, Buttons{}},
		{"create other-lang clean", ModeCreate, "de", model.OriginTranslated, false, Buttons{Retranslate: true}},
		{"create other-lang dirty", ModeCreate, "de", model.OriginManual, true, Buttons{Reset: true, Retranslate: true}},
		{"edit existing", ModeEdit, "de", model.OriginExisting, false, Buttons{PickFromSource: true}},
		{"edit copied", ModeEdit, "de", model.OriginCopied, false, Buttons{Reset: true}},
		{"edit translated", ModeEdit, "de", model.OriginTranslated, false, Buttons{Reset: true}},
		{"edit manual", ModeEdit, "de", model.OriginManual, true, Buttons{PickFromSource: true, Reset: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ButtonPolicy(tt.mode, tt.lang, "nl", tt.origin, tt.dirty))
		})
	}
}
