package release

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// ErrTagNotFound is returned when the remote doesn't advertise the release tag.
var ErrTagNotFound = errors.New("tag not found")

// ResolveTag returns the commit a tag points at on a remote repository, the
// equivalent of git ls-remote --tags. Annotated tags resolve to the commit
// they peel to rather than to the tag object.
func ResolveTag(ctx context.Context, repository, tag string) (string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repository},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{PeelingOption: git.AppendPeeled})
	if err != nil {
		return "", fmt.Errorf("ls-remote %s: %w", repository, err)
	}

	name := plumbing.NewTagReferenceName(tag)
	peeled := name.String() + "^{}"

	var direct string
	for _, ref := range refs {
		switch ref.Name().String() {
		case peeled:
			return ref.Hash().String(), nil
		case name.String():
			direct = ref.Hash().String()
		}
	}

	if direct == "" {
		return "", fmt.Errorf("%w: %s on %s", ErrTagNotFound, tag, repository)
	}

	return direct, nil
}

// Verify checks that the pinned commit matches what the release tag points at upstream.
func Verify(ctx context.Context, r Release) (string, error) {
	commit, err := ResolveTag(ctx, r.Repository, r.Tag())
	if err != nil {
		return "", err
	}

	if r.Commit != "" && !strings.EqualFold(commit, r.Commit) {
		return commit, fmt.Errorf("tag %s points at %s, expected %s", r.Tag(), commit, r.Commit)
	}

	return commit, nil
}
