package knowledge

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/smartdiet/backend/internal/domain"
	"go.uber.org/zap"
)

// Catalog column names, matched case-insensitively
const (
	colName                 = "name"
	colVegetarian           = "vegetarian"
	colDiabeticFriendly     = "diabetic_friendly"
	colHypertensionFriendly = "hypertension_friendly"
	colWeightGoal           = "weight_goal"
)

// FoodColumns is the header written and expected for catalog files
var FoodColumns = []string{colName, colVegetarian, colDiabeticFriendly, colHypertensionFriendly, colWeightGoal}

var truthyValues = map[string]bool{"1": true, "true": true, "yes": true, "y": true}

// ParseBool reports whether a catalog cell holds a truthy value
func ParseBool(val string) bool {
	return truthyValues[strings.ToLower(strings.TrimSpace(val))]
}

// ParseFoods reads a CSV food catalog. A header row is required. Malformed
// rows are skipped; an I/O failure yields an empty catalog.
func ParseFoods(r io.Reader) []domain.FoodRecord {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return []domain.FoodRecord{}
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	foods := []domain.FoodRecord{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return []domain.FoodRecord{}
		}
		if isBlankRow(row) {
			continue
		}
		foods = append(foods, domain.FoodRecord{
			Name:                 strings.TrimSpace(cell(row, colName)),
			Vegetarian:           ParseBool(cell(row, colVegetarian)),
			DiabeticFriendly:     ParseBool(cell(row, colDiabeticFriendly)),
			HypertensionFriendly: ParseBool(cell(row, colHypertensionFriendly)),
			WeightGoal:           strings.ToLower(strings.TrimSpace(cell(row, colWeightGoal))),
		})
	}
	return foods
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// LoadFoodsCSV loads the catalog at path. Missing or unreadable files yield
// an empty catalog.
func LoadFoodsCSV(path string) []domain.FoodRecord {
	if path == "" {
		return []domain.FoodRecord{}
	}
	f, err := os.Open(path)
	if err != nil {
		return []domain.FoodRecord{}
	}
	defer f.Close()
	return ParseFoods(f)
}

var _ domain.FoodCatalogSource = (*CSVFoodSource)(nil)

// CSVFoodSource is a domain.FoodCatalogSource backed by a CSV file
type CSVFoodSource struct {
	path   string
	logger *zap.Logger
}

// NewCSVFoodSource creates a catalog source for the file at path
func NewCSVFoodSource(path string, logger *zap.Logger) *CSVFoodSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVFoodSource{path: path, logger: logger}
}

// LoadFoods implements domain.FoodCatalogSource
func (s *CSVFoodSource) LoadFoods() []domain.FoodRecord {
	foods := LoadFoodsCSV(s.path)
	if len(foods) == 0 {
		s.logger.Warn("food catalog empty or missing", zap.String("path", s.path))
	} else {
		s.logger.Info("food catalog loaded", zap.String("path", s.path), zap.Int("foods", len(foods)))
	}
	return foods
}

// WriteFoods writes records as a catalog CSV with the standard header
func WriteFoods(w io.Writer, foods []domain.FoodRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(FoodColumns); err != nil {
		return err
	}
	for _, f := range foods {
		row := []string{
			f.Name,
			formatBool(f.Vegetarian),
			formatBool(f.DiabeticFriendly),
			formatBool(f.HypertensionFriendly),
			f.WeightGoal,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
