package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

func indexOf(recs []string, substr string) int {
	for i, r := range recs {
		if strings.Contains(r, substr) {
			return i
		}
	}
	return -1
}

func TestGenerateRecommendations(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultAnalyticsConfig()
	goals := fullGoals(2000, 100, 50, 200)

	t.Run("No goals asks to complete the profile", func(t *testing.T) {
		days := series(domain.GoalSet{}, []float64{2000, 100, 50, 200})
		trend := AnalyzeTrends(days, domain.GoalSet{}, cfg)

		recs := GenerateRecommendations(days[0], trend, domain.GoalSet{}, cfg)

		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "complete your profile to get personalized recommendations")
	})

	t.Run("No data asks to start logging", func(t *testing.T) {
		days := series(goals, nil, nil)
		trend := AnalyzeTrends(days, goals, cfg)

		recs := GenerateRecommendations(days[1], trend, goals, cfg)

		assert.Equal(t, []string{MsgStartLogging}, recs)
	})

	t.Run("Over limit comes first", func(t *testing.T) {
		days := series(goals,
			[]float64{2000, 100, 50, 200},
			[]float64{2600, 100, 50, 200},
		)
		trend := AnalyzeTrends(days, goals, cfg)

		recs := GenerateRecommendations(days[1], trend, goals, cfg)

		require.NotEmpty(t, recs)
		assert.True(t, strings.HasPrefix(recs[0], "Reduce your calories intake"))
		assert.Equal(t, -1, indexOf(recs, MsgKeepGoing))
	})

	t.Run("Under goal suggests foods", func(t *testing.T) {
		days := series(goals, []float64{1900, 40, 48, 190})
		trend := AnalyzeTrends(days, goals, cfg)

		recs := GenerateRecommendations(days[0], trend, goals, cfg)

		i := indexOf(recs, "Increase your protein intake")
		require.GreaterOrEqual(t, i, 0)
		assert.Contains(t, recs[i], "legumes")
		assert.Equal(t, -1, indexOf(recs, "Increase your calories"))
	})

	t.Run("Inconsistent and declining nutrients are named", func(t *testing.T) {
		days := series(goals,
			[]float64{2000, 100, 50, 200},
			[]float64{2000, 100, 50, 200},
			[]float64{2000, 100, 10, 200},
			[]float64{2000, 100, 5, 200},
		)
		trend := AnalyzeTrends(days, goals, cfg)

		recs := GenerateRecommendations(days[3], trend, goals, cfg)

		under := indexOf(recs, "Increase your fat intake")
		consistency := indexOf(recs, "consistency of your fat intake")
		declining := indexOf(recs, "Your fat trend is declining")
		require.GreaterOrEqual(t, under, 0)
		require.Greater(t, consistency, under)
		require.Greater(t, declining, consistency)
	})

	t.Run("Declining nutrient without a goal is still named", func(t *testing.T) {
		caloriesOnly := domain.GoalSet{Calories: domain.NewGoal(2000)}
		days := series(caloriesOnly,
			[]float64{2000, 100, 50, 200},
			[]float64{2000, 100, 50, 100},
		)
		trend := AnalyzeTrends(days, caloriesOnly, cfg)
		require.Equal(t, domain.TrendDeclining, trend.TrendDirection[domain.NutrientCarbs])
		require.Equal(t, domain.StatusExcellent, days[1].OverallStatus)

		recs := GenerateRecommendations(days[1], trend, caloriesOnly, cfg)

		declining := indexOf(recs, "Your carbohydrates trend is declining")
		require.GreaterOrEqual(t, declining, 0)
		assert.Greater(t, indexOf(recs, MsgKeepGoing), declining)
	})

	t.Run("All goals met while improving is praise only", func(t *testing.T) {
		days := series(goals,
			[]float64{1400, 40, 20, 80},
			[]float64{1500, 50, 25, 100},
			[]float64{1950, 98, 49, 198},
			[]float64{2000, 100, 50, 200},
		)
		trend := AnalyzeTrends(days, goals, cfg)
		require.True(t, trend.IsImproving)

		recs := GenerateRecommendations(days[3], trend, goals, cfg)

		require.Len(t, recs, 2)
		assert.Equal(t, MsgAllGoalsMet, recs[0])
		assert.Equal(t, -1, indexOf(recs, "Reduce"))
		assert.Equal(t, -1, indexOf(recs, "Increase"))
	})

	t.Run("Summary mentions goals met and adherence", func(t *testing.T) {
		days := series(goals, []float64{2000, 100, 50, 200}, []float64{1500, 60, 30, 150})
		trend := AnalyzeTrends(days, goals, cfg)

		recs := GenerateRecommendations(days[1], trend, goals, cfg)

		last := recs[len(recs)-1]
		assert.Contains(t, last, "individual goals met")
		assert.Contains(t, last, "goal adherence")
	})

	t.Run("Empty current day falls back to window averages", func(t *testing.T) {
		days := series(goals,
			[]float64{2600, 100, 50, 200},
			[]float64{2600, 100, 50, 200},
			nil,
		)
		trend := AnalyzeTrends(days, goals, cfg)

		recs := GenerateRecommendations(days[2], trend, goals, cfg)

		assert.True(t, strings.HasPrefix(recs[0], "Reduce your calories intake"))
	})
}
