package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSizeColorGroup() *ItemGroup {
	return &ItemGroup{
		ID:           "group-1",
		InfluencerID: "inf-1",
		Name:         "hoodie",
		ExtraFeatures: map[string][]string{
			"size":  {"S", "M", "L"},
			"color": {"black"},
		},
	}
}

func TestItemGroup_FeatureNames(t *testing.T) {
	g := newSizeColorGroup()
	assert.Equal(t, []string{"color", "size"}, g.FeatureNames())
}

func TestMatchSelections_ExactMatch(t *testing.T) {
	g := newSizeColorGroup()

	m := g.MatchSelections(map[string]string{"size": "S", "color": "black"})

	assert.True(t, m.IsZero())
}

func TestMatchSelections_MissingFeature(t *testing.T) {
	g := newSizeColorGroup()

	m := g.MatchSelections(map[string]string{"size": "S"})

	assert.False(t, m.IsZero())
	assert.Equal(t, []string{"color"}, m.Missing)
	assert.Empty(t, m.Extra)
}

func TestMatchSelections_ExtraFeature(t *testing.T) {
	g := newSizeColorGroup()

	m := g.MatchSelections(map[string]string{"size": "S", "color": "black", "material": "cotton"})

	assert.False(t, m.IsZero())
	assert.Empty(t, m.Missing)
	assert.Equal(t, []string{"material"}, m.Extra)
}

func TestMatchSelections_MissingAndExtra(t *testing.T) {
	g := newSizeColorGroup()

	m := g.MatchSelections(map[string]string{"material": "cotton"})

	assert.Equal(t, []string{"color", "size"}, m.Missing)
	assert.Equal(t, []string{"material"}, m.Extra)
}

func TestHasValue(t *testing.T) {
	g := newSizeColorGroup()

	assert.True(t, g.HasValue("size", "M"))
	assert.False(t, g.HasValue("size", "XL"))
	assert.False(t, g.HasValue("material", "cotton"))
}

func TestRegisterSelections_NewValueAppended(t *testing.T) {
	g := newSizeColorGroup()

	changed := g.RegisterSelections(map[string]string{"size": "XL", "color": "black"})

	assert.True(t, changed)
	assert.Contains(t, g.ExtraFeatures["size"], "XL")
	assert.Equal(t, []string{"black"}, g.ExtraFeatures["color"])
}

func TestRegisterSelections_AllExistingUnchanged(t *testing.T) {
	g := newSizeColorGroup()

	changed := g.RegisterSelections(map[string]string{"size": "S", "color": "black"})

	assert.False(t, changed)
	assert.Equal(t, []string{"S", "M", "L"}, g.ExtraFeatures["size"])
}

func TestRegisterSelections_UndeclaredAxisIgnored(t *testing.T) {
	g := newSizeColorGroup()

	changed := g.RegisterSelections(map[string]string{"material": "cotton"})

	assert.False(t, changed)
	assert.NotContains(t, g.ExtraFeatures, "material")
}
