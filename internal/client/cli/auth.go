package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/salarygate/internal/common"
)

// getSimpleText, getPassword and confirm are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Login asks for credentials; a username may be passed as the argument.
func (a *App) Login(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.accounts.Login(ctx, username, string(password))
	if err != nil {
		a.logger.Info(ctx, "login failed", "username", username, "error", err)
		return err
	}

	fmt.Fprintln(a.out, msg)
	if !a.isAdmin() {
		fmt.Fprintln(a.out, "Signed in without admin rights; only passwd and show are available.")
	}
	return nil
}

func (a *App) Logout(_ context.Context, _ []string) error {
	a.accounts.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ChangePassword changes the signed-in operator's own password.
func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	msg, err := a.accounts.ChangePassword(ctx, string(current), string(next))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

var errPasswordsMismatch = errors.New("passwords do not match")

func (a *App) readNewPassword() ([]byte, error) {
	first, err := getPassword("New password", a.out)
	if err != nil {
		return nil, err
	}
	second, err := getPassword("Repeat new password", a.out)
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		common.WipeByteArray(first)
		return nil, errPasswordsMismatch
	}
	return first, nil
}
