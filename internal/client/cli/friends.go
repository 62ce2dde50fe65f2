package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/services"
)

func (a *App) printUsers(title string, users []models.User) {
	fmt.Fprintf(a.out, "%s (%d)\n", title, len(users))
	for _, u := range users {
		fmt.Fprintf(a.out, "  [%s] %s @%s\n", u.ID, u.DisplayName(), u.Username)
	}
}

// Users lists suggestions, following and followers of the current user.
func (a *App) Users(ctx context.Context) error {
	users, err := a.friends.Users(ctx)
	if err != nil {
		return err
	}
	me := a.session.Current()
	if me == nil {
		return services.ErrNotLoggedIn
	}

	a.printUsers("Suggestions", services.Suggestions(me, users))
	a.printUsers("Following", services.Following(me, users))
	a.printUsers("Followers", services.Followers(me, users))
	return nil
}

func (a *App) Follow(ctx context.Context, id string) error {
	if err := a.friends.Follow(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Following %s\n", id)
	return nil
}

func (a *App) Unfollow(ctx context.Context, id string) error {
	if err := a.friends.Unfollow(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unfollowed %s\n", id)
	return nil
}
