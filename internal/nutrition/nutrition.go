// Package nutrition computes calorie targets with the Harris-Benedict equations.
package nutrition

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

const defaultBirthYear = 1990

var multipliers = map[string]float64{
	models.ActivitySedentary: 1.2,
	models.ActivityLight:     1.375,
	models.ActivityModerate:  1.55,
	models.ActivityActive:    1.725,
	models.ActivityAthlete:   1.9,
}

// Targets holds the computed daily energy figures in kcal.
type Targets struct {
	Age     int
	BMR     float64
	TDEE    int
	Target  int
	Cutting bool
}

// ActivityMultiplier returns the TDEE multiplier for level, 1.2 when unknown.
func ActivityMultiplier(level string) float64 {
	if m, ok := multipliers[level]; ok {
		return m
	}
	return 1.2
}

// Age returns now's year minus the year of a dd/mm/yyyy birth date.
func Age(birthDate string, now time.Time) int {
	year := defaultBirthYear
	parts := strings.Split(birthDate, "/")
	if len(parts) == 3 {
		if y, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			year = y
		}
	}
	return now.Year() - year
}

// BMR returns the basal metabolic rate. Anything but "male" uses the female equation.
func BMR(gender string, weightKg, heightCm float64, age int) float64 {
	a := float64(age)
	if gender == models.GenderMale {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*a
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*a
}

// Compute derives the calorie targets for a profile and an estimated body fat percentage.
// Above 20% body fat the target is a 500 kcal deficit, otherwise a 300 kcal surplus.
func Compute(p models.Profile, bodyFat float64, now time.Time) Targets {
	age := Age(p.BirthDate, now)
	bmr := BMR(p.Gender, p.Weight, p.Height, age)
	tdee := int(math.Round(bmr * ActivityMultiplier(p.ActivityLevel)))

	t := Targets{Age: age, BMR: bmr, TDEE: tdee, Cutting: bodyFat > 20}
	if t.Cutting {
		t.Target = tdee - 500
	} else {
		t.Target = tdee + 300
	}
	return t
}
