package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophfit/internal/client/pipeline"
	"github.com/dmitrijs2005/gophfit/internal/client/planner"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/filex"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

// readMedia is a test seam for loading photos and videos from disk.
var readMedia = filex.ReadMedia

func (a *App) ai() (planner.Generator, error) {
	if a.generator == nil {
		return nil, errNoAI
	}
	return a.generator, nil
}

// planContext returns the generator and a state that has a profile and a plan.
func (a *App) planContext() (planner.Generator, session.State, error) {
	gen, err := a.ai()
	if err != nil {
		return nil, session.State{}, err
	}
	st := a.sess.Get()
	if st.Profile == nil {
		return nil, st, pipeline.ErrNoProfile
	}
	if st.Plan == nil {
		return nil, st, pipeline.ErrNoPlan
	}
	return gen, st, nil
}

func atoi(args []string, i int, name, u string) (int, error) {
	if len(args) <= i {
		return 0, usage(u)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n <= 0 {
		return 0, usage(fmt.Sprintf("%s (%s must be a positive number)", u, name))
	}
	return n, nil
}

// Analyze sends a body photo to the AI and shows the assessment.
func (a *App) Analyze(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("analyze <photo>")
	}
	gen, err := a.ai()
	if err != nil {
		return err
	}
	st := a.sess.Get()
	if st.Profile == nil {
		return pipeline.ErrNoProfile
	}
	if !st.Paid() {
		return errNotPaid
	}

	data, mime, err := readMedia(args[0])
	if err != nil {
		return err
	}

	ticket := a.sess.Ticket()
	fmt.Fprintln(a.out, "Analyzing biometrics...")
	analysis, err := gen.AnalyzeImage(ctx, data, mime)
	if err != nil {
		return err
	}

	if err := a.report(a.pipe.RecordAnalysis(ctx, ticket, *analysis, &pipeline.Photo{Data: data, ContentType: mime}), "Analysis ready."); err != nil {
		return err
	}
	printAnalysis(a.out, analysis)
	fmt.Fprintln(a.out, "Next: plan")
	return nil
}

// Plan generates and activates a new plan from the latest analysis.
func (a *App) Plan(ctx context.Context, _ []string) error {
	gen, err := a.ai()
	if err != nil {
		return err
	}
	st := a.sess.Get()
	if st.Profile == nil {
		return pipeline.ErrNoProfile
	}
	if st.Analysis == nil {
		return pipeline.ErrNoAnalysis
	}

	ticket := a.sess.Ticket()
	fmt.Fprintln(a.out, "Calculating macros and building your plan...")
	plan, err := gen.GeneratePlan(ctx, *st.Analysis, *st.Profile)
	if err != nil {
		return err
	}

	if err := a.report(a.pipe.ActivatePlan(ctx, ticket, plan), "Plan activated."); err != nil {
		return err
	}
	printPlanSummary(a.out, plan)
	return nil
}

// Day prints one day of the active plan.
func (a *App) Day(_ context.Context, args []string) error {
	n, err := atoi(args, 0, "day", "day <n>")
	if err != nil {
		return err
	}
	st := a.sess.Get()
	if st.Plan == nil {
		return pipeline.ErrNoPlan
	}
	day, ok := st.Plan.Day(n)
	if !ok {
		return usage(fmt.Sprintf("day <n> (the plan has %d days)", len(st.Plan.DailyPlans)))
	}
	printDay(a.out, day)
	return nil
}

// editDay loads the active plan, applies edit to a copy of day n and stores
// the result through the pipeline.
func (a *App) editDay(ctx context.Context, n int, msg string, edit func(gen planner.Generator, profile models.Profile, day *models.DailyPlan) error) error {
	gen, st, err := a.planContext()
	if err != nil {
		return err
	}
	ticket := a.sess.Ticket()

	plan := st.Plan.Clone()
	day, ok := plan.Day(n)
	if !ok {
		return usage(fmt.Sprintf("the plan has no day %d", n))
	}
	if err := edit(gen, *st.Profile, day); err != nil {
		return err
	}
	if err := a.report(a.pipe.UpdatePlan(ctx, ticket, plan), msg); err != nil {
		return err
	}
	printDay(a.out, day)
	return nil
}

// Swap replaces one exercise of a day with an alternative.
func (a *App) Swap(ctx context.Context, args []string) error {
	const u = "swap <day> <exercise#>"
	n, err := atoi(args, 0, "day", u)
	if err != nil {
		return err
	}
	i, err := atoi(args, 1, "exercise#", u)
	if err != nil {
		return err
	}
	return a.editDay(ctx, n, "Exercise swapped.", func(gen planner.Generator, p models.Profile, day *models.DailyPlan) error {
		if i > len(day.Exercises) {
			return usage(fmt.Sprintf("%s (day %d has %d exercises)", u, n, len(day.Exercises)))
		}
		ex, err := gen.RegenerateExercise(ctx, day.Exercises[i-1], p, day.WorkoutFocus)
		if err != nil {
			return err
		}
		day.Exercises[i-1] = *ex
		return nil
	})
}

// Meal regenerates one meal of a day with similar calories.
func (a *App) Meal(ctx context.Context, args []string) error {
	const u = "meal <day> <meal#>"
	n, err := atoi(args, 0, "day", u)
	if err != nil {
		return err
	}
	i, err := atoi(args, 1, "meal#", u)
	if err != nil {
		return err
	}
	return a.editDay(ctx, n, "Meal replaced.", func(gen planner.Generator, p models.Profile, day *models.DailyPlan) error {
		if i > len(day.Meals) {
			return usage(fmt.Sprintf("%s (day %d has %d meals)", u, n, len(day.Meals)))
		}
		meal, err := gen.RegenerateMeal(ctx, day.Meals[i-1], p)
		if err != nil {
			return err
		}
		day.Meals[i-1] = *meal
		return nil
	})
}

// Workout regenerates the whole workout of a day.
func (a *App) Workout(ctx context.Context, args []string) error {
	n, err := atoi(args, 0, "day", "workout <day>")
	if err != nil {
		return err
	}
	return a.editDay(ctx, n, "Workout regenerated.", func(gen planner.Generator, p models.Profile, day *models.DailyPlan) error {
		rev, err := gen.RegenerateWorkout(ctx, day.Day, day.WorkoutFocus, p)
		if err != nil {
			return err
		}
		if strings.TrimSpace(rev.WorkoutFocus) != "" {
			day.WorkoutFocus = rev.WorkoutFocus
		}
		day.Exercises = rev.Exercises
		day.TotalCalories = rev.TotalCalories
		return nil
	})
}
