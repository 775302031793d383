package knowledge

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleCatalog(t *testing.T) {
	catalog := DefaultRuleCatalog()

	assert.Len(t, catalog, 10)
	assert.Contains(t, catalog["Diabetic"], "Avoid sugar")
	assert.Contains(t, catalog["Overweight"], "Low-calorie diet")
	assert.Contains(t, catalog["Vegetarian"], "Avoid meat")

	t.Run("returns an independent copy", func(t *testing.T) {
		catalog["Diabetic"][0] = "mutated"
		catalog["New"] = []string{"x"}

		fresh := DefaultRuleCatalog()
		assert.Equal(t, "Avoid sugar", fresh["Diabetic"][0])
		assert.NotContains(t, fresh, "New")
	})

	t.Run("suggestions are unique per category", func(t *testing.T) {
		for category, list := range DefaultRuleCatalog() {
			seen := map[string]bool{}
			for _, s := range list {
				assert.False(t, seen[s], "duplicate %q in %s", s, category)
				seen[s] = true
			}
		}
	})
}

func TestDefaultPriorityTable(t *testing.T) {
	priorities := DefaultPriorityTable()

	assert.Equal(t, 100, priorities.Priority("Diabetic"))
	assert.Equal(t, 60, priorities.Priority("Vegetarian"))
	assert.Equal(t, 50, priorities.Priority("Normal"))
	assert.Equal(t, 0, priorities.Priority("Unknown"))

	for category := range DefaultRuleCatalog() {
		_, ok := priorities[category]
		assert.True(t, ok, "category %s has no priority", category)
	}
}

func TestMergeOverlay(t *testing.T) {
	base := DefaultRuleCatalog()

	t.Run("nil overlay leaves catalog unchanged", func(t *testing.T) {
		merged := base.MergeOverlay(nil)
		assert.Equal(t, base, merged)
	})

	t.Run("merges sorted union", func(t *testing.T) {
		merged := base.MergeOverlay(map[string]any{
			"Diabetic": []any{"Walk after meals", "Avoid sugar"},
		})

		list := merged["Diabetic"]
		assert.True(t, sort.StringsAreSorted(list))
		assert.Contains(t, list, "Walk after meals")
		assert.Len(t, list, len(base["Diabetic"])+1)
	})

	t.Run("adds new categories", func(t *testing.T) {
		merged := base.MergeOverlay(map[string]any{
			"Pregnancy": []string{"Folate-rich foods", "Avoid raw fish"},
		})

		assert.Equal(t, []string{"Avoid raw fish", "Folate-rich foods"}, merged["Pregnancy"])
	})

	t.Run("skips malformed keys only", func(t *testing.T) {
		merged := base.MergeOverlay(map[string]any{
			"Diabetic":     "not a list",
			"Hypertension": []any{"Limit pickles", 42},
			"Anemia":       []any{"Eat dates"},
		})

		assert.Equal(t, base["Diabetic"], merged["Diabetic"])
		assert.Equal(t, base["Hypertension"], merged["Hypertension"])
		assert.Contains(t, merged["Anemia"], "Eat dates")
	})

	t.Run("is idempotent and monotonic", func(t *testing.T) {
		overlay := map[string]any{
			"Normal":     []any{"Sleep well", "Stay hydrated"},
			"Vegetarian": []any{"Add tofu"},
		}

		once := base.MergeOverlay(overlay)
		twice := once.MergeOverlay(overlay)
		assert.Equal(t, once, twice)

		for category, list := range base {
			assert.Subset(t, once[category], list)
		}
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		before := base.Clone()
		base.MergeOverlay(map[string]any{"Diabetic": []any{"Zzz"}})
		assert.Equal(t, before, base)
	})
}

func TestParseOverlay(t *testing.T) {
	t.Run("json document", func(t *testing.T) {
		overlay, err := ParseOverlay([]byte(`{"Diabetic": ["Check glucose"]}`), ".json")
		require.NoError(t, err)
		assert.Equal(t, []any{"Check glucose"}, overlay["Diabetic"])
	})

	t.Run("yaml document", func(t *testing.T) {
		doc := "Diabetic:\n  - Check glucose\nNormal: oops\n"
		overlay, err := ParseOverlay([]byte(doc), ".YAML")
		require.NoError(t, err)

		merged := DefaultRuleCatalog().MergeOverlay(overlay)
		assert.Contains(t, merged["Diabetic"], "Check glucose")
		assert.Equal(t, DefaultRuleCatalog()["Normal"], merged["Normal"])
	})

	t.Run("top level list is rejected", func(t *testing.T) {
		_, err := ParseOverlay([]byte(`["a", "b"]`), ".json")
		assert.Error(t, err)
	})
}

func TestLoadOverlayFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty path", func(t *testing.T) {
		assert.Nil(t, LoadOverlayFile("", nil))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Nil(t, LoadOverlayFile(filepath.Join(dir, "missing.json"), nil))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		assert.Nil(t, LoadOverlayFile(path, nil))
	})

	t.Run("valid file feeds LoadRuleCatalog", func(t *testing.T) {
		path := filepath.Join(dir, "extra.yml")
		require.NoError(t, os.WriteFile(path, []byte("Overweight: [Take the stairs]\n"), 0o644))

		catalog := LoadRuleCatalog(path, nil)
		assert.Contains(t, catalog["Overweight"], "Take the stairs")
	})
}
