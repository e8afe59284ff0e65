package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/nutrition"
)

// Weight records a weight reading in kg.
func (a *App) Weight(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("weight <kg>")
	}
	kg, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
	if err != nil {
		return usage("weight <kg> (e.g. weight 72.5)")
	}
	return a.report(a.pipe.LogMeasurement(ctx, kg), "Weight saved!")
}

// Log records a completed plan day. Duration and calories default to the plan's values.
func (a *App) Log(ctx context.Context, args []string) error {
	const u = "log <day> [minutes] [kcal]"
	n, err := atoi(args, 0, "day", u)
	if err != nil {
		return err
	}

	minutes, kcal := 0, 0.0
	if plan := a.sess.Get().Plan; plan != nil {
		if day, ok := plan.Day(n); ok {
			minutes, kcal = day.DurationMin, day.TotalCalories
		}
	}
	if len(args) > 1 {
		if minutes, err = atoi(args, 1, "minutes", u); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if kcal, err = strconv.ParseFloat(args[2], 64); err != nil || kcal < 0 {
			return usage(u + " (kcal must be a number)")
		}
	}
	if minutes == 0 {
		return fmt.Errorf("%w: day %d is not in the plan, give minutes and kcal", common.ErrorValidation, n)
	}
	return a.report(a.pipe.LogWorkout(ctx, n, minutes, kcal), "Workout saved!")
}

// Progress shows weight history, its delta and the workout log.
func (a *App) Progress(ctx context.Context, _ []string) error {
	a.pipe.Navigate(ctx, session.StepProgress)
	printProgress(a.out, a.sess.Get())
	return nil
}

// Status shows who is signed in, the current step and calorie targets.
func (a *App) Status(_ context.Context, _ []string) error {
	st := a.sess.Get()
	fmt.Fprintf(a.out, "Step: %s  Mode: %s\n", st.Step, a.Mode())
	switch {
	case st.Guest:
		fmt.Fprintln(a.out, "Guest mode (data stays on this device)")
	case st.Identity != nil:
		fmt.Fprintf(a.out, "Logged in as %s\n", st.Identity.Email)
	default:
		fmt.Fprintln(a.out, "Not logged in")
	}
	if st.PendingPlanSync {
		fmt.Fprintln(a.out, "Plan not yet synced with the server; it will be retried on next start.")
	}
	if st.Profile == nil {
		return nil
	}

	p := st.Profile
	fmt.Fprintf(a.out, "%s, %.0f cm, %.1f kg, %s, paid: %t\n", p.Name, p.Height, p.Weight, p.ActivityLevel, p.HasPaid)
	if st.Analysis != nil {
		t := nutrition.Compute(*p, st.Analysis.EstimatedBodyFat, time.Now())
		goal := "lean bulk"
		if t.Cutting {
			goal = "cut"
		}
		fmt.Fprintf(a.out, "BMR %.0f kcal, TDEE %d kcal, target %d kcal (%s)\n", t.BMR, t.TDEE, t.Target, goal)
	}
	if st.Plan != nil {
		fmt.Fprintf(a.out, "Active plan: %s (%d days)\n", st.Plan.Goal, st.Plan.DurationDays)
	}
	return nil
}
