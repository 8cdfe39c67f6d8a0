package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/messagely/internal/client/client"
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func readMark(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return " "
}

// Send prompts for a recipient and body and sends the message.
func (a *App) Send(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	var in models.SendMessageInput
	var err error
	if in.ToUsername, err = getSimpleText(a.reader, "To", a.out); err != nil {
		return err
	}
	if in.Body, err = getSimpleText(a.reader, "Message", a.out); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	m, err := a.api.Send(ctx, in)
	if err != nil {
		return a.apiError(ctx, err)
	}

	fmt.Fprintf(a.out, "Sent message #%d to %s\n", m.ID, m.ToUsername)
	return nil
}

// Inbox prints received messages and refreshes the local cache. When the
// server is unreachable the cached copy is shown instead.
func (a *App) Inbox(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	msgs, err := a.api.ListTo(ctx, a.userName)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		msgs, err = a.repos.Inbox.List(ctx, a.userName)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Server unavailable, showing cached messages")
	case err != nil:
		return a.apiError(ctx, err)
	default:
		for _, m := range msgs {
			if err := a.repos.Inbox.Upsert(ctx, a.userName, m); err != nil {
				return err
			}
		}
	}

	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tFROM\tSENT\tBODY")
	for _, m := range msgs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", readMark(m.ReadAt), m.ID, m.FromUser.Username, m.SentAt.Local().Format(timeLayout), m.Body)
	}
	return tw.Flush()
}

// Outbox prints sent messages.
func (a *App) Outbox(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	msgs, err := a.api.ListFrom(ctx, a.userName)
	if err != nil {
		return a.apiError(ctx, err)
	}

	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tTO\tSENT\tBODY")
	for _, m := range msgs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", readMark(m.ReadAt), m.ID, m.ToUser.Username, m.SentAt.Local().Format(timeLayout), m.Body)
	}
	return tw.Flush()
}

// Show prints one message.
func (a *App) Show(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	m, err := a.api.GetMessage(ctx, id)
	if err != nil {
		return a.apiError(ctx, err)
	}

	fmt.Fprintf(a.out, "Message #%d\n", m.ID)
	fmt.Fprintf(a.out, "From: %s (%s %s)\n", m.FromUser.Username, m.FromUser.FirstName, m.FromUser.LastName)
	fmt.Fprintf(a.out, "To:   %s (%s %s)\n", m.ToUser.Username, m.ToUser.FirstName, m.ToUser.LastName)
	fmt.Fprintf(a.out, "Sent: %s\n", m.SentAt.Local().Format(timeLayout))
	if m.ReadAt != nil {
		fmt.Fprintf(a.out, "Read: %s\n", m.ReadAt.Local().Format(timeLayout))
	} else {
		fmt.Fprintln(a.out, "Read: no")
	}
	fmt.Fprintf(a.out, "\n%s\n", m.Body)
	return nil
}

// Read marks a received message read.
func (a *App) Read(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	r, err := a.api.MarkRead(ctx, id)
	if err != nil {
		return a.apiError(ctx, err)
	}

	fmt.Fprintf(a.out, "Message #%d read at %s\n", r.ID, r.ReadAt.Local().Format(timeLayout))
	return nil
}
