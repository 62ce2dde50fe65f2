package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/services"
)

// shorten cuts s to n runes, marking the cut. Data URLs are long.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func (a *App) printPost(p models.FeedPost, saved bool) {
	d := p.Data()
	origin := "remote"
	if _, ok := p.(*models.LocalPost); ok {
		origin = "local"
	}

	head := fmt.Sprintf("[%s] %s", d.ID, d.CreatedAt.Local().Format(time.DateTime))
	if d.Emoji != "" {
		head += " " + d.Emoji
	}
	if saved {
		head += " (saved)"
	}
	fmt.Fprintf(a.out, "%s  %s\n", head, origin)

	if d.Text != "" {
		fmt.Fprintf(a.out, "  %s\n", strings.ReplaceAll(d.Text, "\n", "\n  "))
	}
	for _, img := range d.ImageRefs {
		fmt.Fprintf(a.out, "  image: %s\n", shorten(models.ImageRef(img).Resolve(a.config.ImageBaseURL), 60))
	}
	if d.VoiceNoteRef != "" {
		fmt.Fprintf(a.out, "  voice note: %s\n", shorten(models.ImageRef(d.VoiceNoteRef).Resolve(a.config.ImageBaseURL), 60))
	}
	if d.Location != nil {
		fmt.Fprintf(a.out, "  at %s\n", d.Location.Name)
	}

	liked := ""
	if d.LikedBy(a.session.CurrentID()) {
		liked = ", you like this"
	}
	fmt.Fprintf(a.out, "  %d likes%s\n", d.LikesCount(), liked)
}

// readUpload loads a file for upload and guesses its content type from the
// extension.
func readUpload(path string) (string, string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", nil, err
	}
	return filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), data, nil
}

type uploadFunc func(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error)

// attach uploads the file at path for a post. A failed upload is reported
// and the post goes ahead without the attachment.
func (a *App) attach(ctx context.Context, what, path string, upload uploadFunc) (string, error) {
	name, ct, data, err := readUpload(path)
	if err != nil {
		return "", err
	}
	ref, err := upload(ctx, name, ct, data)
	if err != nil {
		a.log.Warn(ctx, "attachment upload failed", "kind", what, "file", name, "err", err)
		fmt.Fprintf(a.out, "[warn] Couldn't upload the %s. Posting without it.\n", what)
		return "", nil
	}
	return string(ref), nil
}

func (a *App) Post(ctx context.Context) error {
	text, err := getMultiline(a.reader, "What's on your mind?", a.out)
	if err != nil {
		return err
	}
	imagePath, err := getSimpleText(a.reader, "Image file (empty for none)", a.out)
	if err != nil {
		return err
	}
	voicePath, err := getSimpleText(a.reader, "Voice note file (empty for none)", a.out)
	if err != nil {
		return err
	}
	emoji, err := getSimpleText(a.reader, "Feeling emoji (empty for none)", a.out)
	if err != nil {
		return err
	}

	draft := models.PostDraft{Text: text, Emoji: emoji}
	if imagePath != "" {
		ref, err := a.attach(ctx, "image", imagePath, a.client.UploadImage)
		if err != nil {
			return err
		}
		if ref != "" {
			draft.ImageRefs = []string{ref}
		}
	}
	if voicePath != "" {
		if draft.VoiceNoteRef, err = a.attach(ctx, "voice note", voicePath, a.client.UploadVoiceNote); err != nil {
			return err
		}
	}

	p, err := a.posts.Publish(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Posted %s\n", p.Data().ID)
	return nil
}

func (a *App) Feed(ctx context.Context) error {
	feed, err := a.posts.Feed(ctx)
	if err != nil {
		return err
	}
	if len(feed) == 0 {
		fmt.Fprintln(a.out, "No posts yet. Try 'post'.")
		return nil
	}
	for _, p := range feed {
		saved, err := a.posts.IsSaved(ctx, p.Data().ID)
		if err != nil {
			return err
		}
		a.printPost(p, saved)
	}
	return nil
}

func (a *App) Like(ctx context.Context, id string) error {
	liked, err := a.posts.ToggleLike(ctx, id)
	if err != nil {
		return err
	}
	if liked {
		fmt.Fprintln(a.out, "Liked")
	} else {
		fmt.Fprintln(a.out, "Like removed")
	}
	return nil
}

func (a *App) Save(ctx context.Context, id string) error {
	saved, err := a.posts.ToggleSave(ctx, id)
	if err != nil {
		return err
	}
	if saved {
		fmt.Fprintln(a.out, "Saved")
	} else {
		fmt.Fprintln(a.out, "Removed from saved")
	}
	return nil
}

func (a *App) Saved(ctx context.Context) error {
	posts, err := a.posts.Saved(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "Nothing saved yet.")
		return nil
	}
	for _, p := range posts {
		a.printPost(p, true)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.posts.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) Edit(ctx context.Context, id string) error {
	if _, err := a.posts.Get(ctx, id); err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "New text", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return services.ErrEmptyPost
	}
	if _, err := a.posts.Update(ctx, id, models.PostPatch{Text: &text}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated")
	return nil
}

func (a *App) Comment(ctx context.Context, id string) error {
	if _, err := a.posts.Get(ctx, id); err != nil {
		return err
	}
	text, err := getSimpleText(a.reader, "Your comment", a.out)
	if err != nil {
		return err
	}
	if _, err := a.comments.Add(ctx, id, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Comment added")
	return nil
}

func (a *App) Comments(ctx context.Context, id string) error {
	list, err := a.comments.List(ctx, id)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No comments yet.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%s  %s: %s\n", c.CreatedAt.Local().Format(time.DateTime), c.AuthorID, c.Text)
	}
	return nil
}

// Avatar uploads an image file as the profile picture, or the cover with
// cover set.
func (a *App) Avatar(ctx context.Context, path string, cover bool) error {
	name, ct, data, err := readUpload(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("image file is empty")
	}

	kind := services.ImageProfile
	if cover {
		kind = services.ImageCover
	}
	if _, err := a.images.Upload(ctx, kind, name, ct, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s image\n", kind)
	return nil
}
