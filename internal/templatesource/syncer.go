// Package templatesource keeps the templates root in sync with a git repository.
package templatesource

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/retry"
)

// GitSyncer clones the configured repository into the templates root, or
// pulls it when a checkout is already present.
type GitSyncer struct {
	cfg    config.TemplatesGitConfig
	dir    string
	policy retry.Policy
}

// NewGitSyncer creates a syncer for dir.
func NewGitSyncer(cfg config.TemplatesGitConfig, dir string, policy retry.Policy) *GitSyncer {
	return &GitSyncer{cfg: cfg, dir: dir, policy: policy}
}

// Sync brings dir up to date. Transient failures are retried per the policy.
func (s *GitSyncer) Sync(ctx context.Context) error {
	return s.policy.Do(ctx, "template sync", s.syncOnce)
}

func (s *GitSyncer) syncOnce(ctx context.Context) error {
	auth, err := AuthMethod(s.cfg.Auth)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(filepath.Join(s.dir, ".git")); statErr != nil {
		return s.clone(ctx, auth)
	}
	err = s.pull(ctx, auth)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, git.ErrNonFastForwardUpdate), stderrors.Is(err, git.ErrUnstagedChanges):
		// Local history diverged; the checkout is disposable.
		observability.WarnContext(ctx, "Template checkout diverged from remote, recloning",
			logfields.Path(s.dir), logfields.Error(err))
		return s.clone(ctx, auth)
	default:
		return s.classify(ctx, "pull", err)
	}
}

func (s *GitSyncer) clone(ctx context.Context, auth transport.AuthMethod) error {
	observability.DebugContext(ctx, "Cloning templates", logfields.URL(s.cfg.URL), logfields.Path(s.dir))
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clear templates root").
			WithContext("path", s.dir).Build()
	}
	opts := &git.CloneOptions{URL: s.cfg.URL, Auth: auth, Depth: s.cfg.Depth, Tags: git.NoTags}
	if s.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.cfg.Branch)
		opts.SingleBranch = true
	}
	repo, err := git.PlainCloneContext(ctx, s.dir, false, opts)
	if err != nil {
		return s.classify(ctx, "clone", err)
	}
	s.logHead(ctx, repo, "Templates cloned")
	return nil
}

func (s *GitSyncer) pull(ctx context.Context, auth transport.AuthMethod) error {
	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	opts := &git.PullOptions{RemoteName: "origin", Auth: auth, Depth: s.cfg.Depth}
	if s.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.cfg.Branch)
		opts.SingleBranch = true
	}
	if err := wt.PullContext(ctx, opts); err != nil {
		if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
			observability.DebugContext(ctx, "Templates already up to date", logfields.Path(s.dir))
			return nil
		}
		return err
	}
	s.logHead(ctx, repo, "Templates updated")
	return nil
}

func (s *GitSyncer) logHead(ctx context.Context, repo *git.Repository, msg string) {
	attrs := []slog.Attr{logfields.URL(s.cfg.URL), logfields.Path(s.dir)}
	if ref, err := repo.Head(); err == nil {
		attrs = append(attrs, slog.String("commit", ref.Hash().String()[:8]))
	}
	observability.InfoContext(ctx, msg, attrs...)
}

// classify maps go-git failures onto error categories. Auth and missing
// repositories are permanent; everything else is treated as transient.
func (s *GitSyncer) classify(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.WrapError(ctxErr, errors.CategoryCanceled, "template sync canceled").Build()
	}
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed),
		stderrors.Is(err, transport.ErrInvalidAuthMethod):
		return errors.WrapError(err, errors.CategoryGit, "template repository authentication failed").
			UserAction().WithContext("op", op).WithContext("url", s.cfg.URL).Build()
	case stderrors.Is(err, transport.ErrRepositoryNotFound),
		stderrors.Is(err, transport.ErrEmptyRemoteRepository),
		stderrors.Is(err, plumbing.ErrReferenceNotFound),
		isNoMatchingRefSpec(err):
		return errors.WrapError(err, errors.CategoryGit, "template repository or branch not found").
			WithContext("op", op).WithContext("url", s.cfg.URL).WithContext("branch", s.cfg.Branch).Build()
	default:
		return errors.WrapError(err, errors.CategoryNetwork, "template repository "+op+" failed").
			Retryable().WithContext("op", op).WithContext("url", s.cfg.URL).Build()
	}
}

func isNoMatchingRefSpec(err error) bool {
	var target git.NoMatchingRefSpecError
	return stderrors.As(err, &target)
}
