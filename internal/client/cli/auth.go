package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophfit/internal/client/pipeline"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/common"
)

// getSimpleText, getNumber, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getNumber     = GetNumber
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func (a *App) isLoggedIn() bool {
	st := a.sess.Get()
	return st.Identity != nil || st.Guest
}

// report prints msg for an applied outcome and returns the error of a rejected one.
func (a *App) report(out pipeline.Outcome, msg string) error {
	switch out.Kind {
	case pipeline.Rejected:
		return out.Err
	case pipeline.AppliedWithSyncWarning:
		fmt.Fprintf(a.out, "%s (saved on this device only: %s)\n", msg, friendlyError(out.Err))
	default:
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

func (a *App) authenticator() (remote.Authenticator, error) {
	auth, ok := a.store.(remote.Authenticator)
	if !ok {
		return nil, remote.ErrNotConfigured
	}
	return auth, nil
}

type signFunc func(ctx context.Context, email, password string) (*remote.User, error)

// Register prompts for an e-mail and password, creates the account and
// starts a session for it.
func (a *App) Register(ctx context.Context, _ []string) error {
	auth, err := a.authenticator()
	if err != nil {
		return err
	}
	return a.authenticate(ctx, auth.SignUp, "Account created.")
}

// Login prompts for credentials, signs in and pulls the account's data.
func (a *App) Login(ctx context.Context, _ []string) error {
	auth, err := a.authenticator()
	if err != nil {
		return err
	}
	return a.authenticate(ctx, auth.SignIn, "Login successful.")
}

func (a *App) authenticate(ctx context.Context, sign signFunc, msg string) error {
	if a.sess.Get().Guest {
		return fmt.Errorf("%w: leave guest mode first (logout)", common.ErrorValidation)
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := sign(ctx, email, string(password))
	if err != nil {
		return err
	}
	if err := a.report(a.pipe.SignedIn(ctx, user), msg); err != nil {
		return err
	}
	a.setMode(ModeOnline)

	res := a.start(ctx, "")
	fmt.Fprintf(a.out, "Continue at %s.\n", res.Step)
	return nil
}

// Guest continues without an account. Everything stays on this device.
func (a *App) Guest(ctx context.Context, _ []string) error {
	if st := a.sess.Get(); st.Identity != nil {
		return fmt.Errorf("%w: already logged in as %s", common.ErrorValidation, st.Identity.Email)
	}
	if err := a.report(a.pipe.EnterGuest(ctx), "Guest mode: data stays on this device."); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Continue at %s.\n", a.sess.Get().Step)
	return nil
}

// Logout signs out, forgets the session and wipes the local copy.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.chat = nil
	return a.report(a.pipe.Logout(ctx), "Logged out.")
}
