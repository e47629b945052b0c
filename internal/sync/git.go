package sync

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultCommitMessage is used when GitDestination has no message set.
const DefaultCommitMessage = "mockify: update export"

// GitDestination commits the export to a file in a local clone and pushes it.
type GitDestination struct {
	repo    string // path to an existing local clone
	file    string // path within the repo
	branch  string
	message string
}

// NewGitDestination creates a git destination for an existing local clone.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{repo: repo, file: file, branch: branch, message: DefaultCommitMessage}
}

func (d *GitDestination) Name() string { return "git:" + filepath.Join(d.repo, d.file) + "@" + d.branch }

// Write replaces the file with data, then commits and pushes. Unchanged
// content produces no commit and no push.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	if err := d.sync(ctx); err != nil {
		return err
	}
	if err := d.writeFile(data); err != nil {
		return err
	}

	changed, err := d.stage(ctx)
	if err != nil || !changed {
		return err
	}

	if err := d.git(ctx, "commit", "-m", d.message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	if err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

// sync checks out the branch and fast-forwards it. A pull failure is
// ignored because the remote may not have the branch yet.
func (d *GitDestination) sync(ctx context.Context) error {
	if err := d.git(ctx, "checkout", d.branch); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}
	_ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)
	return nil
}

func (d *GitDestination) writeFile(data []byte) error {
	path := filepath.Join(d.repo, d.file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// stage adds the file and reports whether the index now differs from HEAD.
func (d *GitDestination) stage(ctx context.Context) (bool, error) {
	if err := d.git(ctx, "add", d.file); err != nil {
		return false, fmt.Errorf("git add: %w", err)
	}
	// diff --quiet exits 1 when there are staged changes.
	return d.git(ctx, "diff", "--cached", "--quiet") != nil, nil
}

func (d *GitDestination) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
