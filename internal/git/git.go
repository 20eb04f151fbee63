package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Exposure describes how visible a plaintext file is to git
type Exposure struct {
	Path    string
	IsRepo  bool
	Tracked bool
	Ignored bool
}

// Risky reports whether writing plaintext to the path could end up in a commit
func (e *Exposure) Risky() bool {
	return e.IsRepo && (e.Tracked || !e.Ignored)
}

// Warning returns a user-facing warning, or "" when the path is safe
func (e *Exposure) Warning() string {
	switch {
	case !e.Risky():
		return ""
	case e.Tracked:
		return fmt.Sprintf("warning: %s is tracked by git, decrypted content may be committed", e.Path)
	default:
		return fmt.Sprintf("warning: %s is not in .gitignore, consider adding it", e.Path)
	}
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(ctx context.Context, workDir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(ctx context.Context, workDir, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(ctx context.Context, workDir, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	// git check-ignore returns exit code 0 if file is ignored
	return cmd.Run() == nil
}

// CheckExposure inspects path (relative to workDir). Outside a repository,
// or when git is not installed, the result is never risky.
func CheckExposure(ctx context.Context, workDir, path string) *Exposure {
	e := &Exposure{Path: path}
	if !IsGitRepo(ctx, workDir) {
		return e
	}
	e.IsRepo = true
	e.Tracked = IsTracked(ctx, workDir, path)
	e.Ignored = IsIgnored(ctx, workDir, path)
	return e
}
