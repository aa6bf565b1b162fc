package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/client/api"
	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
)

const timeLayout = "2006-01-02 15:04"

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatString(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func userStatus(u rpc.User, now time.Time) string {
	switch {
	case u.LockedUntil != nil && u.LockedUntil.After(now):
		return "locked"
	case u.Legacy:
		return "legacy"
	default:
		return "active"
	}
}

func writeUsers(w io.Writer, users []rpc.User, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tROLE\tEMAIL\tSTATUS\tFAILED\tLAST LOGIN")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			u.Username, u.Role, formatString(u.Email), userStatus(u, now), u.FailedAttempts, formatTime(u.LastLogin))
	}
	_ = tw.Flush()
}

func writeUser(w io.Writer, u *rpc.User, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Email:\t%s\n", formatString(u.Email))
	fmt.Fprintf(tw, "Status:\t%s\n", userStatus(*u, now))
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(u.CreatedAt))
	fmt.Fprintf(tw, "Last login:\t%s\n", formatTime(u.LastLogin))
	fmt.Fprintf(tw, "Failed attempts:\t%d\n", u.FailedAttempts)
	if u.LockedUntil != nil && u.LockedUntil.After(now) {
		fmt.Fprintf(tw, "Locked until:\t%s\n", formatTime(u.LockedUntil))
	}
	_ = tw.Flush()
}

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := a.accounts.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}
	writeUsers(a.out, users, time.Now())
	return nil
}

// Show prints one account; without an argument it shows the operator.
func (a *App) Show(ctx context.Context, args []string) error {
	var username string
	switch len(args) {
	case 0:
		session := a.accounts.Session()
		if session == nil {
			return api.ErrNotLoggedIn
		}
		username = session.Username
	case 1:
		username = args[0]
	default:
		return errUsage
	}

	u, err := a.accounts.GetUser(ctx, username)
	if err != nil {
		return err
	}
	writeUser(a.out, u, time.Now())
	return nil
}

func (a *App) Create(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Role [user]", a.out)
	if err != nil {
		return err
	}
	if role == "" {
		role = "user"
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.accounts.CreateUser(ctx, &rpc.CreateUserRequest{
		Username: username,
		Password: string(password),
		Email:    email,
		Role:     role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Reset(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.accounts.ResetPassword(ctx, args[0], string(password))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Role(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	role := args[1]

	if _, err := a.accounts.UpdateUser(ctx, args[0], nil, &role); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Role for %s updated to %s\n", args[0], role)
	return nil
}

func (a *App) Email(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	email := args[1]

	msg, err := a.accounts.UpdateUser(ctx, args[0], &email, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete user %s?", args[0]), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	msg, err := a.accounts.DeleteUser(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Migrate(ctx context.Context, _ []string) error {
	msg, err := a.accounts.MigrateLegacy(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

const defaultAuditLimit = 20

func (a *App) Audit(ctx context.Context, args []string) error {
	var (
		username string
		limit    = defaultAuditLimit
	)
	switch len(args) {
	case 0:
	case 1:
		username = args[0]
	case 2:
		username = args[0]
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return errUsage
		}
		limit = n
	default:
		return errUsage
	}

	events, err := a.accounts.ListAudit(ctx, username, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEVENT\tUSER\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.OccurredAt.Local().Format(timeLayout), e.Type, e.Username, e.Detail)
	}
	return tw.Flush()
}
