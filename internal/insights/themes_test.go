package insights

import (
	"testing"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyThemes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []models.Theme
	}{
		{
			name:     "Single theme",
			text:     "The flavor is wonderful",
			expected: []models.Theme{models.ThemeTasteQuality},
		},
		{
			name:     "Multiple themes",
			text:     "Great taste but way too expensive for what you get",
			expected: []models.Theme{models.ThemeTasteQuality, models.ThemePriceValue},
		},
		{
			name:     "Case insensitive",
			text:     "TERRIBLE TASTE",
			expected: []models.Theme{models.ThemeTasteQuality},
		},
		{
			name:     "No match falls back to sentinel",
			text:     "meh",
			expected: []models.Theme{models.ThemeGeneralExperience},
		},
		{
			name:     "Battery and service",
			text:     "battery died and customer service ignored me",
			expected: []models.Theme{models.ThemeCustomerService, models.ThemeBatteryLife},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyThemes(tt.text))
		})
	}
}

func TestClassifyThemes_NeverEmpty(t *testing.T) {
	for _, text := range []string{"", "xyzzy", "!!!", "👍"} {
		assert.NotEmpty(t, ClassifyThemes(text))
	}
}
