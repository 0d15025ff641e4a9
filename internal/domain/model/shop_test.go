package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLanguage(t *testing.T) {
	shop := Shop{Languages: []Language{
		{Code: "nl", IsActive: true},
		{Code: "fr", IsDefault: true, IsActive: true},
	}}

	code, flagged := shop.DefaultLanguage()
	assert.Equal(t, "fr", code)
	assert.True(t, flagged)
}

func TestDefaultLanguageFallsBackToFirstConfigured(t *testing.T) {
	shop := Shop{Languages: []Language{
		{Code: "nl", IsActive: true},
		{Code: "fr", IsActive: true},
	}}

	code, flagged := shop.DefaultLanguage()
	assert.Equal(t, "nl", code)
	assert.False(t, flagged)

	code, flagged = Shop{}.DefaultLanguage()
	assert.Empty(t, code)
	assert.False(t, flagged)
}

func TestActiveLanguagesKeepConfigurationOrder(t *testing.T) {
	shop := Shop{Languages: []Language{
		{Code: "nl", IsActive: true},
		{Code: "en"},
		{Code: "fr", IsActive: true},
	}}

	assert.Equal(t, []string{"nl", "fr"}, shop.ActiveLanguages())
}
