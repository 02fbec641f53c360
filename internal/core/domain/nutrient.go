package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidNutrients = errors.New("nutrient values cannot be negative")
)

type Nutrient int

const (
	NutrientCalories Nutrient = iota
	NutrientProtein
	NutrientFat
	NutrientCarbs
)

// AllNutrients lists the tracked nutrients in declaration order.
var AllNutrients = []Nutrient{NutrientCalories, NutrientProtein, NutrientFat, NutrientCarbs}

var nutrientLabels = map[Nutrient]string{
	NutrientCalories: "calories",
	NutrientProtein:  "protein",
	NutrientFat:      "fat",
	NutrientCarbs:    "carbs",
}

var nutrientDisplayNames = map[Nutrient]string{
	NutrientCalories: "Calories",
	NutrientProtein:  "Protein",
	NutrientFat:      "Fat",
	NutrientCarbs:    "Carbohydrates",
}

func (n Nutrient) String() string {
	if label, ok := nutrientLabels[n]; ok {
		return label
	}
	return fmt.Sprintf("nutrient(%d)", int(n))
}

func (n Nutrient) DisplayName() string {
	if name, ok := nutrientDisplayNames[n]; ok {
		return name
	}
	return n.String()
}

func (n Nutrient) MarshalText() ([]byte, error) {
	label, ok := nutrientLabels[n]
	if !ok {
		return nil, fmt.Errorf("unknown nutrient %d", int(n))
	}
	return []byte(label), nil
}

func (n *Nutrient) UnmarshalText(text []byte) error {
	for k, v := range nutrientLabels {
		if v == string(text) {
			*n = k
			return nil
		}
	}
	return fmt.Errorf("unknown nutrient %q", string(text))
}

// NutrientProfile holds nutrient density per 100 grams of a product.
type NutrientProfile struct {
	CaloriesPer100g float64 `json:"caloriesPer100g" db:"calories_per_100g"`
	ProteinPer100g  float64 `json:"proteinPer100g" db:"protein_per_100g"`
	FatPer100g      float64 `json:"fatPer100g" db:"fat_per_100g"`
	CarbsPer100g    float64 `json:"carbsPer100g" db:"carbs_per_100g"`
}

func (p NutrientProfile) Per100g(n Nutrient) float64 {
	switch n {
	case NutrientCalories:
		return p.CaloriesPer100g
	case NutrientProtein:
		return p.ProteinPer100g
	case NutrientFat:
		return p.FatPer100g
	case NutrientCarbs:
		return p.CarbsPer100g
	}
	return 0
}

func (p NutrientProfile) Validate() error {
	if p.CaloriesPer100g < 0 || p.ProteinPer100g < 0 || p.FatPer100g < 0 || p.CarbsPer100g < 0 {
		return ErrInvalidNutrients
	}
	return nil
}
