package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/client/client"
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details, creates the account and logs in.
func (a *App) Register(ctx context.Context) error {
	var in models.RegisterInput
	var err error

	if in.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	// Only the terminal buffer is wiped; the string copy sent to the server
	// lives until it is collected.
	defer common.WipeByteArray(password)
	in.Password = string(password)

	if in.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if in.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}
	if in.Phone, err = getSimpleText(a.reader, "Enter phone", a.out); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	u, err := a.api.Register(ctx, in)
	if err != nil {
		return err
	}
	if err := a.saveSession(ctx, u.Username); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Username)
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	// Wipes the terminal buffer only, not the string copy below.
	defer common.WipeByteArray(password)

	in := models.LoginInput{Username: userName, Password: string(password)}
	if err := in.Validate(); err != nil {
		return err
	}

	if err := a.api.Login(ctx, in); err != nil {
		return err
	}
	if err := a.saveSession(ctx, userName); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the session and the user's cached inbox.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	if err := a.repos.Inbox.Clear(ctx, a.userName); err != nil {
		return err
	}
	if err := a.dropSession(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
