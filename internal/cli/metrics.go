package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type metricsOptions struct {
	height   float64
	weight   float64
	age      int
	gender   string
	activity string
	goal     string
	json     bool
}

func newMetricsCmd() *cobra.Command {
	opts := &metricsOptions{}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute BMI, BMR, TDEE and recommended calories",
		Example: "  nutricalc metrics --height 175 --weight 70 --age 30 --gender male " +
			"--activity moderately_active --goal lose_weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.profile()
			if err != nil {
				return err
			}

			metrics := analytics.ComputeBodyMetrics(profile)
			if opts.json {
				return printJSON(cmd.OutOrStdout(), metrics)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BMI:                  %s (%s)\n", formatOptional(metrics.BMI, ""), metrics.BMICategory)
			fmt.Fprintf(out, "BMR:                  %s\n", formatOptional(metrics.BMR, " kcal"))
			fmt.Fprintf(out, "TDEE:                 %s\n", formatOptional(metrics.TDEE, " kcal"))
			fmt.Fprintf(out, "Recommended calories: %s\n", formatOptional(metrics.RecommendedCalories, " kcal"))
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.height, "height", 0, "Height in centimetres")
	cmd.Flags().Float64Var(&opts.weight, "weight", 0, "Weight in kilograms")
	cmd.Flags().IntVar(&opts.age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&opts.gender, "gender", "", "male, female or other")
	cmd.Flags().StringVar(&opts.activity, "activity", "", "sedentary, lightly_active, moderately_active, very_active or extremely_active")
	cmd.Flags().StringVar(&opts.goal, "goal", "", "lose_weight, maintain_weight or gain_weight")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output JSON")
	return cmd
}

// profile builds a profile from the flags; unset flags stay nil so the
// calculator reports the dependent metrics as unavailable.
func (o *metricsOptions) profile() (*domain.UserProfile, error) {
	p := domain.NewUserProfile("local")
	if o.height != 0 {
		p.HeightCm = &o.height
	}
	if o.weight != 0 {
		p.WeightKg = &o.weight
	}
	if o.age != 0 {
		p.Age = &o.age
	}
	if o.gender != "" {
		g, err := domain.ParseGender(o.gender)
		if err != nil {
			return nil, err
		}
		p.Gender = &g
	}
	if o.activity != "" {
		a, err := domain.ParseActivityLevel(o.activity)
		if err != nil {
			return nil, err
		}
		p.ActivityLevel = &a
	}
	if o.goal != "" {
		f, err := domain.ParseFitnessGoal(o.goal)
		if err != nil {
			return nil, err
		}
		p.FitnessGoal = &f
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
