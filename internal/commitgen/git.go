package commitgen

import (
	"bytes"
	"fmt"
	"os/exec"
)

// GitRunner executes git commands. The generator composes plain argument
// lists; there is no protocol layer underneath.
type GitRunner interface {
	// Run executes git with the given arguments and returns the
	// trimmed stdout and stderr
	Run(args ...string) (stdout string, stderr string, err error)
}

// CLIGit implements GitRunner by invoking the git binary in a working
// directory.
type CLIGit struct {
	dir string
}

// NewCLIGit creates a GitRunner rooted at dir
func NewCLIGit(dir string) *CLIGit {
	return &CLIGit{dir: dir}
}

// Run executes a git command
func (g *CLIGit) Run(args ...string) (string, string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout := string(bytes.TrimSpace(outBuf.Bytes()))
	stderr := string(bytes.TrimSpace(errBuf.Bytes()))
	if err != nil {
		return stdout, stderr, fmt.Errorf("git %v: %w", args, err)
	}
	return stdout, stderr, nil
}
