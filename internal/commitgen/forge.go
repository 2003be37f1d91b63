package commitgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	historyFile = "commit_history.txt"
	authorName  = "QR Scanner Developer"
	authorEmail = "developer@qrscanner.dev"
)

// Forge creates a run of commits in a working directory: each iteration
// appends a line to a history file, stages it and commits it under a
// generated message.
type Forge struct {
	git   GitRunner
	gen   *Generator
	dir   string
	clock func() time.Time
}

// NewForge creates a Forge for the given directory
func NewForge(git GitRunner, gen *Generator, dir string) *Forge {
	return &Forge{
		git:   git,
		gen:   gen,
		dir:   dir,
		clock: time.Now,
	}
}

// EnsureRepo initializes a git repository and its committer identity if
// the directory is not already one
func (f *Forge) EnsureRepo() error {
	if _, err := os.Stat(filepath.Join(f.dir, ".git")); err == nil {
		slog.Info("Git repository already initialized")
	} else {
		slog.Info("Initializing git repository")
		if _, stderr, err := f.git.Run("init"); err != nil {
			return fmt.Errorf("git init: %s: %w", stderr, err)
		}
	}

	// Identity config is idempotent, set it unconditionally
	if _, stderr, err := f.git.Run("config", "user.name", authorName); err != nil {
		return fmt.Errorf("git config user.name: %s: %w", stderr, err)
	}
	if _, stderr, err := f.git.Run("config", "user.email", authorEmail); err != nil {
		return fmt.Errorf("git config user.email: %s: %w", stderr, err)
	}
	return nil
}

// touchHistory appends a timestamp line to the history file, creating it
// with a header on first use, and returns the file name.
func (f *Forge) touchHistory() (string, error) {
	path := filepath.Join(f.dir, historyFile)
	line := f.clock().Format(time.RFC3339Nano) + "\n"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		content := "Commit History\n" + strings.Repeat("=", 50) + "\n" + line
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return "", fmt.Errorf("creating history file: %w", err)
		}
		return historyFile, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("opening history file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		return "", fmt.Errorf("appending to history file: %w", err)
	}
	return historyFile, nil
}

// commitOnce stages the history file and commits it under message.
// Returns false when git reported nothing to commit.
func (f *Forge) commitOnce(message string) (bool, error) {
	file, err := f.touchHistory()
	if err != nil {
		return false, err
	}

	if _, stderr, err := f.git.Run("add", file); err != nil {
		return false, fmt.Errorf("git add: %s: %w", stderr, err)
	}

	stdout, stderr, err := f.git.Run("commit", "-m", message)
	combined := strings.ToLower(stdout + "\n" + stderr)
	if strings.Contains(combined, "nothing to commit") {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("git commit: %s: %w", stderr, err)
	}
	return true, nil
}

// CreateCommits makes count commits with generated messages. A "nothing
// to commit" answer is retried once after forcing another file change;
// other per-commit failures are logged and skipped. Returns the number
// of commits created.
func (f *Forge) CreateCommits(count int) (int, error) {
	slog.Info("Creating commits", "count", count)

	if err := f.EnsureRepo(); err != nil {
		return 0, err
	}

	created := 0
	for i := 0; i < count; i++ {
		message := f.gen.Message()

		committed, err := f.commitOnce(message)
		if err != nil {
			slog.Error("Failed to create commit", "index", i+1, "error", err)
			continue
		}
		if !committed {
			// Force another change so there is something to commit
			if committed, err = f.commitOnce(message); err != nil || !committed {
				slog.Error("Failed to create commit after retry", "index", i+1, "error", err)
				continue
			}
		}

		created++
		if created%10 == 0 {
			slog.Info("Progress", "commits", created)
		}
	}

	slog.Info("Commits created", "count", created)
	return created, nil
}

// Push points the origin remote at repoURL (adding or updating it) and
// pushes the main branch. Push failures are reported, not fatal; they
// usually mean authentication is not set up.
func (f *Forge) Push(repoURL string) error {
	stdout, _, _ := f.git.Run("remote", "-v")

	if strings.Contains(stdout, "origin") {
		slog.Info("Updating origin remote", "url", repoURL)
		if _, stderr, err := f.git.Run("remote", "set-url", "origin", repoURL); err != nil {
			return fmt.Errorf("git remote set-url: %s: %w", stderr, err)
		}
	} else {
		slog.Info("Adding origin remote", "url", repoURL)
		if _, stderr, err := f.git.Run("remote", "add", "origin", repoURL); err != nil {
			return fmt.Errorf("git remote add: %s: %w", stderr, err)
		}
	}

	slog.Info("Pushing to main branch")
	_, stderr, err := f.git.Run("push", "-u", "origin", "main")
	if err != nil {
		slog.Error("Push failed, authentication may be required", "error", stderr)
		return fmt.Errorf("git push: %s: %w", stderr, err)
	}

	slog.Info("Push complete")
	return nil
}
