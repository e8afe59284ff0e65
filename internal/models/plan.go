package models

// Meal is one meal of a daily plan. Macros are in grams.
type Meal struct {
	Name     string   `json:"name"`
	Items    []string `json:"items"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fats     float64  `json:"fats"`
}

type Exercise struct {
	Name  string `json:"name"`
	Sets  int    `json:"sets"`
	Reps  string `json:"reps"`
	Notes string `json:"notes,omitempty"`
}

type DailyPlan struct {
	Day           int        `json:"day"`
	WorkoutFocus  string     `json:"workoutFocus"`
	DurationMin   int        `json:"durationMin"`
	Exercises     []Exercise `json:"exercises"`
	Meals         []Meal     `json:"meals"`
	TotalCalories float64    `json:"totalCalories"`
}

type WeeklySummary struct {
	Week    int    `json:"week"`
	Summary string `json:"summary"`
}

type SearchSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Plan is a generated diet and workout program. At most one plan per user is active.
type Plan struct {
	ID              string          `json:"id"`
	Goal            string          `json:"goal"`
	Goals           []string        `json:"goals"`
	DurationDays    int             `json:"durationDays"`
	Summary         string          `json:"summary"`
	WeeklySummaries []WeeklySummary `json:"weeklySummaries,omitempty"`
	DailyPlans      []DailyPlan     `json:"dailyPlans"`
	SearchSources   []SearchSource  `json:"searchSources,omitempty"`
}

// Day returns the daily plan with the given day number.
func (p *Plan) Day(n int) (*DailyPlan, bool) {
	for i := range p.DailyPlans {
		if p.DailyPlans[i].Day == n {
			return &p.DailyPlans[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so edits never alias the original slices.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Goals = append([]string(nil), p.Goals...)
	c.WeeklySummaries = append([]WeeklySummary(nil), p.WeeklySummaries...)
	c.SearchSources = append([]SearchSource(nil), p.SearchSources...)
	c.DailyPlans = make([]DailyPlan, len(p.DailyPlans))
	for i, d := range p.DailyPlans {
		d.Exercises = append([]Exercise(nil), d.Exercises...)
		meals := make([]Meal, len(d.Meals))
		for j, m := range d.Meals {
			m.Items = append([]string(nil), m.Items...)
			meals[j] = m
		}
		d.Meals = meals
		c.DailyPlans[i] = d
	}
	return &c
}
