package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wellsta/internal/client/models"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for the profile fields and creates the account on the
// remote API. Unlike Login there is no offline fallback.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter email", &reg.Email},
		{"Enter username (empty to use the email name)", &reg.Username},
		{"Enter first name", &reg.FirstName},
		{"Enter last name", &reg.LastName},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	reg.Password = password

	u, err := a.session.Register(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
	return nil
}

// Login prompts for credentials. When the API cannot log the user in, the
// session continues under a local identity and a notice says so.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res := a.session.Login(ctx, email, password)
	if res.Err != nil {
		return res.Err
	}
	if res.Offline {
		fmt.Fprintf(a.out, "[warn] Couldn't sign in online (%v). Continuing on this device only.\n", res.RemoteErr)
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", res.User.DisplayName())
	return nil
}

// Logout waits for pending syncs of the current user, then clears the session.
func (a *App) Logout(ctx context.Context) error {
	a.syncer.Flush()
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if a.session.Current() == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	u, err := a.session.Refresh(ctx)
	if err != nil {
		if u == nil {
			return err
		}
		fmt.Fprintln(a.out, "[warn] Couldn't refresh your profile. Showing what's saved on this device.")
	}

	mode := "online"
	if a.session.IsLocal() {
		mode = "this device only"
	}
	fmt.Fprintf(a.out, "%s (@%s) <%s>, %s\n", u.DisplayName(), u.Username, u.Email, mode)
	fmt.Fprintf(a.out, "  id: %s\n  following: %d  followers: %d\n", u.ID, len(u.FollowingIDs), len(u.FollowerIDs))

	profile, err := a.images.Profile(ctx)
	if err != nil {
		return err
	}
	if profile != "" {
		fmt.Fprintf(a.out, "  avatar: %s\n", shorten(profile, 60))
	}
	return nil
}
