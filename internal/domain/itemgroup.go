package domain

import (
	"sort"
	"time"
)

// ItemGroup is a product family sharing a named set of variant feature axes
// (e.g. size, color). ExtraFeatures maps each axis name to the values already
// in use by some item in the group.
type ItemGroup struct {
	ID            string              `json:"id"`
	InfluencerID  string              `json:"influencer_id"`
	Name          string              `json:"name"`
	ExtraFeatures map[string][]string `json:"extra_features"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     *time.Time          `json:"deleted_at,omitempty"`
}

// FeatureNames returns the group's declared variant axis names, sorted.
func (g *ItemGroup) FeatureNames() []string {
	names := make([]string, 0, len(g.ExtraFeatures))
	for name := range g.ExtraFeatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeatureMismatch describes how a set of feature selections deviates from the
// group's declared axes.
type FeatureMismatch struct {
	Missing []string
	Extra   []string
}

// IsZero reports whether the selections matched the declared axes exactly.
func (m FeatureMismatch) IsZero() bool {
	return len(m.Missing) == 0 && len(m.Extra) == 0
}

// MatchSelections compares the supplied feature selections against the
// group's declared axes. An item must supply exactly the declared axis set;
// both missing and extra names are mismatches.
func (g *ItemGroup) MatchSelections(selections map[string]string) FeatureMismatch {
	var m FeatureMismatch
	for name := range g.ExtraFeatures {
		if _, ok := selections[name]; !ok {
			m.Missing = append(m.Missing, name)
		}
	}
	for name := range selections {
		if _, ok := g.ExtraFeatures[name]; !ok {
			m.Extra = append(m.Extra, name)
		}
	}
	sort.Strings(m.Missing)
	sort.Strings(m.Extra)
	return m
}

// HasValue reports whether the given value is already registered for the
// named axis.
func (g *ItemGroup) HasValue(name, value string) bool {
	for _, v := range g.ExtraFeatures[name] {
		if v == value {
			return true
		}
	}
	return false
}

// RegisterSelections appends any values not yet present to the per-axis
// value lists and reports whether the group changed.
func (g *ItemGroup) RegisterSelections(selections map[string]string) bool {
	changed := false
	for name, value := range selections {
		if _, declared := g.ExtraFeatures[name]; !declared {
			continue
		}
		if !g.HasValue(name, value) {
			g.ExtraFeatures[name] = append(g.ExtraFeatures[name], value)
			changed = true
		}
	}
	return changed
}
