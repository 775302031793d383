// Command smartdiet prints ranked diet suggestions and food picks for one
// profile, optionally exporting a JSON report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/smartdiet/backend/config"
	"github.com/smartdiet/backend/internal/domain"
	"github.com/smartdiet/backend/internal/infrastructure/report"
	"github.com/smartdiet/backend/internal/knowledge"
	"github.com/smartdiet/backend/internal/logger"
	"github.com/smartdiet/backend/internal/usecase"
)

// defaultLimit caps the ranked list when neither flag nor config sets one
const defaultLimit = 6

type options struct {
	name            string
	age             int
	weightStatus    string
	healthCondition string
	dietPreference  string
	weightKg        float64
	heightCm        float64
	limit           int
	maxFoods        int
	foodsPath       string
	rulesPath       string
	export          bool
	reportDir       string
	logLevel        string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "smartdiet: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	zl, err := logger.New(opts.logLevel, cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	service := usecase.NewDietService(
		knowledge.NewCSVFoodSource(opts.foodsPath, zl),
		nil,
		zl,
		usecase.DietServiceConfig{
			Rules:          knowledge.LoadRuleCatalog(opts.rulesPath, zl),
			Priorities:     knowledge.DefaultPriorityTable(),
			StapleKeywords: cfg.Recommend.StapleKeywords,
			MaxFoods:       cfg.Recommend.MaxItems,
		},
	)

	attrs := opts.attributes()
	plan, err := service.Recommend(context.Background(), attrs, usecase.RecommendOptions{
		Limit:    opts.limit,
		MaxFoods: opts.maxFoods,
	})
	if err != nil {
		return err
	}

	printPlan(out, plan)

	if opts.export {
		path, err := report.NewWriter(opts.reportDir).Write(plan)
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		zl.Debug("report exported", zap.String("path", path))
		fmt.Fprintf(out, "\nReport saved to %s\n", path)
	}
	return nil
}

func parseFlags(args []string, cfg *config.Config) (*options, error) {
	opts := &options{}
	limit := cfg.Recommend.SuggestionLimit
	if limit == 0 {
		limit = defaultLimit
	}
	fs := pflag.NewFlagSet("smartdiet", pflag.ContinueOnError)
	fs.StringVar(&opts.name, "name", "John", "user name")
	fs.IntVar(&opts.age, "age", 30, "user age")
	fs.StringVar(&opts.weightStatus, "weight-status", "", "one of "+strings.Join(domain.WeightStatusOptions, ", ")+"; inferred from weight and height when empty")
	fs.StringVar(&opts.healthCondition, "health-condition", domain.ConditionDiabetic, "one of "+strings.Join(domain.HealthConditionOptions, ", "))
	fs.StringVar(&opts.dietPreference, "diet-preference", domain.DietVegetarian, "one of "+strings.Join(domain.DietPreferenceOptions, ", "))
	fs.Float64Var(&opts.weightKg, "weight-kg", 0, "weight in kilograms")
	fs.Float64Var(&opts.heightCm, "height-cm", 0, "height in centimetres")
	fs.IntVarP(&opts.limit, "limit", "n", limit, "maximum ranked suggestions, 0 for all")
	fs.IntVar(&opts.maxFoods, "foods-max", cfg.Recommend.MaxItems, "maximum recommended foods")
	fs.StringVar(&opts.foodsPath, "foods", cfg.Catalog.FoodsPath, "food catalog CSV")
	fs.StringVar(&opts.rulesPath, "rules", cfg.Catalog.RulesOverlayPath, "rule overlay file (JSON or YAML)")
	fs.BoolVar(&opts.export, "export", false, "write a JSON report")
	fs.StringVar(&opts.reportDir, "report-dir", cfg.Report.Dir, "directory for exported reports")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) validate() error {
	if err := checkChoice("health-condition", o.healthCondition, domain.HealthConditionOptions); err != nil {
		return err
	}
	if o.weightStatus != "" {
		if err := checkChoice("weight-status", o.weightStatus, domain.WeightStatusOptions); err != nil {
			return err
		}
	}
	if err := checkChoice("diet-preference", o.dietPreference, domain.DietPreferenceOptions); err != nil {
		return err
	}
	if o.age < 0 {
		return fmt.Errorf("age must not be negative")
	}
	if o.weightKg < 0 || o.heightCm < 0 {
		return fmt.Errorf("weight and height must not be negative")
	}
	return nil
}

func checkChoice(flag, value string, choices []string) error {
	if slices.Contains(choices, value) {
		return nil
	}
	return fmt.Errorf("invalid --%s %q (choose from %s)", flag, value, strings.Join(choices, ", "))
}

func (o *options) attributes() *domain.UserAttributes {
	attrs := &domain.UserAttributes{
		Name:            o.name,
		Age:             o.age,
		HealthCondition: o.healthCondition,
		WeightStatus:    o.weightStatus,
		DietPreference:  o.dietPreference,
	}
	if o.weightKg > 0 {
		attrs.WeightKg = domain.Float(o.weightKg)
	}
	if o.heightCm > 0 {
		attrs.HeightCm = domain.Float(o.heightCm)
	}
	return attrs
}

func printPlan(out io.Writer, plan *domain.DietPlan) {
	fmt.Fprintf(out, "Ranked diet suggestions for %s:\n", plan.Profile.Name)
	if len(plan.RankedSuggestions) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for i, s := range plan.RankedSuggestions {
		fmt.Fprintf(out, "%2d. %s  [%s]\n", i+1, s.Suggestion, strings.Join(s.Categories, ", "))
	}

	if plan.Profile.BMI != nil {
		fmt.Fprintf(out, "\nInferred BMI: %.1f (%s)\n", *plan.Profile.BMI, plan.Profile.WeightStatus)
	}

	fmt.Fprintln(out, "\nRecommended foods:")
	if len(plan.RecommendedFoods) == 0 {
		fmt.Fprintln(out, "  (no food catalog available)")
	}
	for _, food := range plan.RecommendedFoods {
		fmt.Fprintf(out, "  - %s\n", food)
	}
}
