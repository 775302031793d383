// Package report writes diet plans to JSON files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smartdiet/backend/internal/domain"
)

const timestampLayout = "20060102_150405"

// Document is the on-disk report layout
type Document struct {
	Profile           domain.UserAttributes `json:"profile"`
	RankedSuggestions []Entry               `json:"ranked_suggestions"`
	RecommendedFoods  []string              `json:"recommended_foods"`
}

// Entry is one ranked suggestion with its categories
type Entry struct {
	Suggestion string   `json:"suggestion"`
	Categories []string `json:"categories"`
}

var _ domain.PlanWriter = (*Writer)(nil)

// Writer writes reports into a directory, creating it on demand
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer for dir
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "reports"
	}
	return &Writer{dir: dir, now: time.Now}
}

// FileName returns diet_report_<name>_<timestamp>.json for a profile name
func FileName(name string, at time.Time) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		name = "user"
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("diet_report_%s_%s.json", name, at.Format(timestampLayout))
}

// NewDocument flattens a plan into the report layout
func NewDocument(plan *domain.DietPlan) Document {
	entries := make([]Entry, 0, len(plan.RankedSuggestions))
	for _, rs := range plan.RankedSuggestions {
		categories := rs.Categories
		if categories == nil {
			categories = []string{}
		}
		entries = append(entries, Entry{Suggestion: rs.Suggestion, Categories: categories})
	}
	foods := plan.RecommendedFoods
	if foods == nil {
		foods = []string{}
	}
	return Document{
		Profile:           plan.Profile,
		RankedSuggestions: entries,
		RecommendedFoods:  foods,
	}
}

// Write implements domain.PlanWriter
func (w *Writer) Write(plan *domain.DietPlan) (string, error) {
	if plan == nil {
		return "", domain.ErrInvalidRequest
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(NewDocument(plan), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(w.dir, FileName(plan.Profile.Name, w.now()))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
