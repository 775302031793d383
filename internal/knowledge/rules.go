// Package knowledge holds the rule catalog, the category priorities and the
// food catalog loader used by the diet engine.
package knowledge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RuleCatalog maps a category label to its ordered, duplicate-free suggestions
type RuleCatalog map[string][]string

// PriorityTable maps a category label to its ranking priority (higher wins)
type PriorityTable map[string]int

// defaultRules is the built-in knowledge base. Never handed out directly.
var defaultRules = RuleCatalog{
	"Diabetic": {
		"Avoid sugar",
		"Include whole grains",
		"Eat more vegetables",
		"Prefer low-glycemic index foods",
		"Distribute carbs evenly across meals",
	},
	"Underweight": {
		"High protein diet",
		"Frequent meals",
		"Include nuts and seeds",
		"Add calorie-dense healthy fats (olive oil, nut butters)",
	},
	"Overweight": {
		"Low-calorie diet",
		"Exercise regularly",
		"Avoid fried foods",
		"Prefer high-fiber, low-calorie density foods",
		"Limit sugary beverages",
	},
	"Vegetarian": {
		"Avoid meat",
		"Include pulses and legumes",
		"Eat more vegetables",
		"Ensure B12 sources (fortified foods or supplements)",
	},
	"NonVegetarian": {
		"Prefer lean meats (chicken, turkey)",
		"Include fish rich in omega-3",
		"Limit processed meats",
		"Balance plate with vegetables and whole grains",
	},
	"Hypertension": {
		"Low salt diet",
		"Avoid processed food",
		"Include fruits and vegetables",
		"Prefer DASH-style diet",
		"Limit alcohol",
	},
	"Normal": {
		"Balanced diet",
		"Include fruits, vegetables, proteins, and carbs",
		"Stay hydrated",
	},
	"Anemia": {
		"Increase iron-rich foods",
		"Include vitamin C for iron absorption",
		"Consider leafy greens",
		"Prefer heme iron sources if non-vegetarian",
	},
	"HighCholesterol": {
		"Prefer unsaturated fats",
		"Increase soluble fiber",
		"Limit red meat",
		"Avoid trans fats",
		"Include plant sterols/stanols",
	},
	"KidneyFriendly": {
		"Control protein intake",
		"Limit sodium",
		"Monitor potassium and phosphorus",
		"Stay within fluid limits if prescribed",
	},
}

var defaultPriorities = PriorityTable{
	"Diabetic":        100,
	"Hypertension":    95,
	"HighCholesterol": 90,
	"KidneyFriendly":  85,
	"Overweight":      80,
	"Underweight":     80,
	"Anemia":          75,
	"Vegetarian":      60,
	"NonVegetarian":   60,
	"Normal":          50,
}

// DefaultRuleCatalog returns a fresh copy of the built-in rules
func DefaultRuleCatalog() RuleCatalog {
	return defaultRules.Clone()
}

// DefaultPriorityTable returns a fresh copy of the built-in priorities
func DefaultPriorityTable() PriorityTable {
	out := make(PriorityTable, len(defaultPriorities))
	for k, v := range defaultPriorities {
		out[k] = v
	}
	return out
}

// Clone deep-copies the catalog
func (c RuleCatalog) Clone() RuleCatalog {
	out := make(RuleCatalog, len(c))
	for k, v := range c {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Categories returns the catalog keys in sorted order
func (c RuleCatalog) Categories() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Priority returns the priority of a category; unknown categories score 0
func (p PriorityTable) Priority(category string) int {
	return p[category]
}

// MergeOverlay returns a new catalog extended with the overlay entries.
// Keys whose value is not a list of strings are skipped. Each merged category
// becomes the sorted union of existing and new suggestions, so merging the
// same overlay twice is a no-op.
func (c RuleCatalog) MergeOverlay(overlay map[string]any) RuleCatalog {
	out := c.Clone()
	for category, raw := range overlay {
		values, ok := stringList(raw)
		if !ok {
			continue
		}
		out[category] = sortedUnion(out[category], values)
	}
	return out
}

// stringList accepts []string or []any whose elements are all strings
func stringList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func sortedUnion(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, list := range [][]string{existing, added} {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// LoadOverlayFile reads an overlay document from a JSON or YAML file.
// An empty path, a missing file or a malformed document yields a nil overlay;
// problems are logged, never returned.
func LoadOverlayFile(path string, logger *zap.Logger) map[string]any {
	if path == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("rule overlay unreadable", zap.String("path", path), zap.Error(err))
		}
		return nil
	}

	overlay, err := ParseOverlay(data, filepath.Ext(path))
	if err != nil {
		logger.Warn("rule overlay malformed", zap.String("path", path), zap.Error(err))
		return nil
	}
	logger.Info("rule overlay loaded", zap.String("path", path), zap.Int("categories", len(overlay)))
	return overlay
}

// ParseOverlay decodes an overlay document. ext selects YAML for ".yaml" and
// ".yml"; anything else is treated as JSON. A document whose top level is not
// a mapping is an error.
func ParseOverlay(data []byte, ext string) (map[string]any, error) {
	var overlay map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &overlay); err != nil {
			return nil, err
		}
	}
	return overlay, nil
}

// LoadRuleCatalog builds the default catalog extended by the overlay at path
func LoadRuleCatalog(overlayPath string, logger *zap.Logger) RuleCatalog {
	return DefaultRuleCatalog().MergeOverlay(LoadOverlayFile(overlayPath, logger))
}
