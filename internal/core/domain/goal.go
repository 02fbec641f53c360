package domain

import (
	"bytes"
	"encoding/json"
)

// Goal is either NotSet (the zero value) or a positive target value.
// Callers must go through Value to read the target so the NotSet branch
// is always handled.
type Goal struct {
	target float64
	set    bool
}

// NotSet is the absent goal.
var NotSet = Goal{}

// NewGoal returns a target for positive values and NotSet otherwise.
func NewGoal(v float64) Goal {
	if v <= 0 {
		return NotSet
	}
	return Goal{target: v, set: true}
}

// GoalFromPtr maps a nullable storage column to a Goal.
func GoalFromPtr(v *float64) Goal {
	if v == nil {
		return NotSet
	}
	return NewGoal(*v)
}

func (g Goal) Value() (float64, bool) {
	return g.target, g.set
}

func (g Goal) IsSet() bool {
	return g.set
}

// Ptr is the inverse of GoalFromPtr.
func (g Goal) Ptr() *float64 {
	if !g.set {
		return nil
	}
	v := g.target
	return &v
}

func (g Goal) MarshalJSON() ([]byte, error) {
	if !g.set {
		return []byte("null"), nil
	}
	return json.Marshal(g.target)
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = NotSet
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*g = NewGoal(v)
	return nil
}

type GoalSet struct {
	Calories Goal `json:"calorieGoal"`
	Protein  Goal `json:"proteinGoal"`
	Fat      Goal `json:"fatGoal"`
	Carbs    Goal `json:"carbGoal"`
}

func (gs GoalSet) Get(n Nutrient) Goal {
	switch n {
	case NutrientCalories:
		return gs.Calories
	case NutrientProtein:
		return gs.Protein
	case NutrientFat:
		return gs.Fat
	case NutrientCarbs:
		return gs.Carbs
	}
	return NotSet
}

func (gs *GoalSet) set(n Nutrient, g Goal) {
	switch n {
	case NutrientCalories:
		gs.Calories = g
	case NutrientProtein:
		gs.Protein = g
	case NutrientFat:
		gs.Fat = g
	case NutrientCarbs:
		gs.Carbs = g
	}
}

// With returns a copy of the set with the goal for n replaced.
func (gs GoalSet) With(n Nutrient, g Goal) GoalSet {
	gs.set(n, g)
	return gs
}

func (gs GoalSet) AnySet() bool {
	for _, n := range AllNutrients {
		if gs.Get(n).IsSet() {
			return true
		}
	}
	return false
}

func (gs GoalSet) AllSet() bool {
	for _, n := range AllNutrients {
		if !gs.Get(n).IsSet() {
			return false
		}
	}
	return true
}
