package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/docuchat/internal/client/api"
	"github.com/dmitrijs2005/docuchat/internal/common"
)

// getSimpleText, getPassword, and getPasswordConfirmed are indirections
// used to facilitate testing. They point to interactive input helpers and
// can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getPasswordConfirmed = GetPasswordConfirmed

// Register prompts for the profile fields and a confirmed password, then
// creates the account. On success the user is logged in immediately.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPasswordConfirmed(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, password, firstName, lastName); err != nil {
		fmt.Printf("Registration unsuccessful: %s\n", err.Error())
		return err
	}

	fmt.Println("Welcome,", firstName+"!")
	return nil
}

// Login prompts for credentials and authenticates against the backend.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			fmt.Println("Server unavailable, try again later")
		} else {
			fmt.Printf("Login unsuccessful: %s\n", err.Error())
		}
		return err
	}

	fmt.Println("Login successful")
	if err := a.chatService.LoadSessions(ctx); err != nil {
		a.log.Warn(ctx, "failed to load sessions", "error", err)
	}
	return nil
}

// Logout signs the user out. Local sign-out always succeeds even when the
// server cannot be notified.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// Whoami prints the cached profile and the access token expiry.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.authService.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("%s %s <%s>\n", snap.User.FirstName, snap.User.LastName, snap.User.Email)
	if exp, err := a.authService.TokenExpiresAt(ctx); err == nil {
		fmt.Printf("Access token expires %s\n", exp.Format(time.RFC3339))
	}
	return nil
}
