package model

// Language is one configured shop language. Exactly one language per shop
// should carry IsDefault; DefaultLanguage handles the case where none does.
type Language struct {
	Code      string
	IsDefault bool
	IsActive  bool
}

type Shop struct {
	ID        int64
	Name      string
	TLD       string
	Languages []Language
}

// DefaultLanguage returns the code of the language flagged as default.
// When no language carries the flag it falls back to the first configured
// language and reports flagged=false so callers can log the integrity issue.
func (s Shop) DefaultLanguage() (code string, flagged bool) {
	for _, l := range s.Languages {
		if l.IsDefault {
			return l.Code, true
		}
	}
	if len(s.Languages) > 0 {
		return s.Languages[0].Code, false
	}
	return "", false
}

// ActiveLanguages returns the codes of languages enabled for the shop,
// in configuration order.
func (s Shop) ActiveLanguages() []string {
	codes := make([]string, 0, len(s.Languages))
	for _, l := range s.Languages {
		if l.IsActive {
			codes = append(codes, l.Code)
		}
	}
	return codes
}
