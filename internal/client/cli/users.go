package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/messagely/internal/client/client"
)

const timeLayout = "2006-01-02 15:04"

// Users prints the directory.
func (a *App) Users(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.apiError(ctx, err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s %s\n", u.Username, u.FirstName, u.LastName)
	}
	return tw.Flush()
}

// Me prints the caller's profile.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	u, err := a.api.GetUser(ctx, a.userName)
	if err != nil {
		return a.apiError(ctx, err)
	}

	fmt.Fprintf(a.out, "Username:   %s\n", u.Username)
	fmt.Fprintf(a.out, "Name:       %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(a.out, "Phone:      %s\n", u.Phone)
	fmt.Fprintf(a.out, "Joined:     %s\n", u.JoinAt.Local().Format(timeLayout))
	if u.LastLoginAt != nil {
		fmt.Fprintf(a.out, "Last login: %s\n", u.LastLoginAt.Local().Format(timeLayout))
	}
	return nil
}
