package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidFoodLog   = errors.New("invalid food log data")
	ErrInvalidMealType  = errors.New("invalid meal type (must be breakfast, lunch, dinner or snack)")
	ErrInvalidWeight    = errors.New("weight must be greater than zero")
	ErrMissingSource    = errors.New("food log needs a product, a recipe or custom nutrients")
	ErrAmbiguousSource  = errors.New("food log cannot reference both a product and a recipe")
	ErrConsumedAtNeeded = errors.New("consumed_at is required")
)

type MealType int

const (
	MealBreakfast MealType = iota
	MealLunch
	MealDinner
	MealSnack
)

// AllMealTypes is ordered by declaration; ties in meal frequency resolve
// to the earliest entry.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

var mealTypeLabels = map[MealType]string{
	MealBreakfast: "Breakfast",
	MealLunch:     "Lunch",
	MealDinner:    "Dinner",
	MealSnack:     "Snack",
}

func (m MealType) String() string {
	if label, ok := mealTypeLabels[m]; ok {
		return label
	}
	return fmt.Sprintf("MealType(%d)", int(m))
}

func (m MealType) Valid() bool {
	_, ok := mealTypeLabels[m]
	return ok
}

func ParseMealType(s string) (MealType, error) {
	s = strings.TrimSpace(s)
	for k, v := range mealTypeLabels {
		if strings.EqualFold(v, s) {
			return k, nil
		}
	}
	return 0, ErrInvalidMealType
}

func (m MealType) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, ErrInvalidMealType
	}
	return []byte(m.String()), nil
}

func (m *MealType) UnmarshalText(text []byte) error {
	parsed, err := ParseMealType(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type FoodLogEntry struct {
	ID        string  `json:"id" db:"id"`
	UserID    string  `json:"userId" db:"user_id"`
	ProductID *string `json:"productId,omitempty" db:"product_id"`
	RecipeID  *string `json:"recipeId,omitempty" db:"recipe_id"`

	// CustomNutrients overrides whatever the product or recipe would resolve to.
	CustomNutrients *NutrientProfile `json:"customNutrients,omitempty" db:"-"`

	WeightGrams float64   `json:"weightGrams" db:"weight_grams"`
	MealType    MealType  `json:"mealType" db:"meal_type"`
	ConsumedAt  time.Time `json:"consumedAt" db:"consumed_at"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewFoodLogEntry(userID string, weightGrams float64, meal MealType, consumedAt time.Time) *FoodLogEntry {
	now := time.Now().UTC()

	return &FoodLogEntry{
		UserID:      userID,
		WeightGrams: weightGrams,
		MealType:    meal,
		ConsumedAt:  consumedAt.UTC(),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *FoodLogEntry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidFoodLog)
	}
	if e.WeightGrams <= 0 {
		return ErrInvalidWeight
	}
	if !e.MealType.Valid() {
		return ErrInvalidMealType
	}
	if e.ConsumedAt.IsZero() {
		return ErrConsumedAtNeeded
	}

	hasProduct := e.ProductID != nil && strings.TrimSpace(*e.ProductID) != ""
	hasRecipe := e.RecipeID != nil && strings.TrimSpace(*e.RecipeID) != ""
	if hasProduct && hasRecipe {
		return ErrAmbiguousSource
	}
	if !hasProduct && !hasRecipe && e.CustomNutrients == nil {
		return ErrMissingSource
	}
	if e.CustomNutrients != nil {
		if err := e.CustomNutrients.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Date is the UTC calendar day the entry belongs to.
func (e *FoodLogEntry) Date() time.Time {
	return DateOf(e.ConsumedAt)
}

// ResolvedFoodLogEntry pairs an entry with the nutrient profile it resolved to.
// Unresolved entries carry a zero profile and still count towards entryCount.
type ResolvedFoodLogEntry struct {
	Entry    FoodLogEntry
	Profile  NutrientProfile
	Resolved bool
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const DateLayout = "2006-01-02"
