package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

func printAnalysis(w io.Writer, a *models.Analysis) {
	fmt.Fprintf(w, "Body type: %s\n", a.BodyType)
	fmt.Fprintf(w, "Estimated body fat: %.1f%%\n", a.EstimatedBodyFat)
	if a.PostureNotes != "" {
		fmt.Fprintf(w, "Posture: %s\n", a.PostureNotes)
	}
	if len(a.FocusAreas) > 0 {
		fmt.Fprintf(w, "Focus areas: %s\n", strings.Join(a.FocusAreas, ", "))
	}
	if a.RecommendationSummary != "" {
		fmt.Fprintln(w, a.RecommendationSummary)
	}
}

func printPlanSummary(w io.Writer, p *models.Plan) {
	fmt.Fprintf(w, "%s: %d days\n", p.Goal, p.DurationDays)
	if p.Summary != "" {
		fmt.Fprintln(w, p.Summary)
	}
	for _, s := range p.WeeklySummaries {
		fmt.Fprintf(w, "  Week %d: %s\n", s.Week, s.Summary)
	}
	for _, d := range p.DailyPlans {
		fmt.Fprintf(w, "  Day %d: %s, %d min, %.0f kcal\n", d.Day, d.WorkoutFocus, d.DurationMin, d.TotalCalories)
	}
	for _, s := range p.SearchSources {
		fmt.Fprintf(w, "  Source: %s (%s)\n", s.Title, s.URI)
	}
	fmt.Fprintln(w, "Show a day with: day <n>")
}

func printDay(w io.Writer, d *models.DailyPlan) {
	fmt.Fprintf(w, "Day %d: %s (%d min, %.0f kcal)\n", d.Day, d.WorkoutFocus, d.DurationMin, d.TotalCalories)
	fmt.Fprintln(w, "Exercises:")
	for i, e := range d.Exercises {
		fmt.Fprintf(w, "  %d. %s %dx%s", i+1, e.Name, e.Sets, e.Reps)
		if e.Notes != "" {
			fmt.Fprintf(w, " (%s)", e.Notes)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Meals:")
	for i, m := range d.Meals {
		printMeal(w, fmt.Sprintf("  %d. ", i+1), m)
	}
}

func printMeal(w io.Writer, prefix string, m models.Meal) {
	fmt.Fprintf(w, "%s%s: %.0f kcal, P %.0fg C %.0fg F %.0fg\n", prefix, m.Name, m.Calories, m.Protein, m.Carbs, m.Fats)
	if len(m.Items) > 0 {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", len(prefix)+3), strings.Join(m.Items, ", "))
	}
}

func printProgress(w io.Writer, st session.State) {
	if len(st.Measurements) == 0 && len(st.Workouts) == 0 {
		fmt.Fprintln(w, "No history yet. Try: weight <kg> or log <day>")
		return
	}

	if n := len(st.Measurements); n > 0 {
		fmt.Fprintln(w, "Weight:")
		for _, m := range st.Measurements {
			fmt.Fprintf(w, "  %s  %.1f kg\n", shortDate(m.Date), m.Weight)
		}
		if n > 1 {
			fmt.Fprintf(w, "Change: %+.1f kg\n", st.Measurements[n-1].Weight-st.Measurements[0].Weight)
		}
	}

	if len(st.Workouts) > 0 {
		total := 0.0
		fmt.Fprintln(w, "Workouts:")
		for _, e := range st.Workouts {
			fmt.Fprintf(w, "  %s  day %d, %d min, %.0f kcal\n", shortDate(e.Date), e.DayNumber, e.DurationMinutes, e.CaloriesBurned)
			total += e.CaloriesBurned
		}
		fmt.Fprintf(w, "%d workouts, %.0f kcal burned\n", len(st.Workouts), total)
	}
}

// shortDate trims an RFC 3339 timestamp to its date.
func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
