package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/client/normalize"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

var (
	genders        = []string{models.GenderMale, models.GenderFemale, models.GenderOther}
	activityLevels = []string{models.ActivitySedentary, models.ActivityLight, models.ActivityModerate, models.ActivityActive, models.ActivityAthlete}
)

// Onboard asks for the profile and stores it with the first weight reading.
func (a *App) Onboard(ctx context.Context, _ []string) error {
	st := a.sess.Get()
	if st.Identity == nil && !st.Guest {
		return errNotSignedIn
	}

	// Re-onboarding edits the current record, so fields this client
	// does not ask about survive the write.
	p, _ := normalize.Profile([]byte("{}"))
	if st.Profile != nil {
		p = *st.Profile
		p.Extra = maps.Clone(st.Profile.Extra)
	}
	if st.Identity != nil {
		p.Email = st.Identity.Email
	}

	var err error
	if p.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if p.BirthDate, err = getSimpleText(a.reader, "Birth date (dd/mm/yyyy)", a.out); err != nil {
		return err
	}
	if _, err := time.Parse(common.DateLayout, p.BirthDate); err != nil {
		return fmt.Errorf("%w: birth date must look like 31/12/1990", common.ErrorValidation)
	}
	if p.Gender, err = a.choose("Gender", genders); err != nil {
		return err
	}
	if p.Height, err = getNumber(a.reader, "Height (cm)", a.out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if p.Weight, err = getNumber(a.reader, "Weight (kg)", a.out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if p.ActivityLevel, err = a.choose("Activity level", activityLevels); err != nil {
		return err
	}
	if p.MedicalConditions, err = getSimpleText(a.reader, "Medical conditions (empty for none)", a.out); err != nil {
		return err
	}
	if p.DietaryRestrictions, err = getSimpleText(a.reader, "Dietary restrictions (empty for none)", a.out); err != nil {
		return err
	}
	if p.State, err = getSimpleText(a.reader, "State / region", a.out); err != nil {
		return err
	}

	return a.report(a.pipe.CompleteOnboarding(ctx, p), "Profile saved. Next: pay to unlock your plan.")
}

func (a *App) choose(prompt string, options []string) (string, error) {
	s, err := getSimpleText(a.reader, fmt.Sprintf("%s (%s)", prompt, strings.Join(options, "/")), a.out)
	if err != nil {
		return "", err
	}
	s = strings.ToLower(s)
	if !slices.Contains(options, s) {
		return "", fmt.Errorf("%w: %s must be one of %s", common.ErrorValidation, strings.ToLower(prompt), strings.Join(options, ", "))
	}
	return s, nil
}

// Pay starts a checkout for signed-in users and unlocks guests right away.
func (a *App) Pay(ctx context.Context, _ []string) error {
	st := a.sess.Get()
	if st.Profile == nil {
		return a.report(a.pipe.ConfirmPayment(ctx), "")
	}
	if st.Paid() {
		fmt.Fprintln(a.out, "Already unlocked.")
		return nil
	}

	checkout, ok := a.store.(remote.Checkout)
	if st.Guest || st.Identity == nil || !ok {
		return a.report(a.pipe.ConfirmPayment(ctx), "Payment approved! Next: analyze <photo>.")
	}

	url, err := checkout.CreateCheckout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Open this link to pay:\n  %s\nWhen the browser returns, run: resume <return url>\n", url)
	return nil
}

// Resume re-runs startup reconciliation with the URL the payment provider redirected to.
func (a *App) Resume(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("resume <url>")
	}
	res := a.start(ctx, args[0])
	if res.CleanURL != args[0] {
		a.logger.Debug(ctx, "payment marker consumed", "url", res.CleanURL)
	}
	fmt.Fprintf(a.out, "Continue at %s.\n", res.Step)
	return nil
}
