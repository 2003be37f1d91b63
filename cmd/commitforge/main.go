package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/codebook/internal/commitgen"
	"github.com/zombor/codebook/internal/logging"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

const defaultRepo = "https://github.com/zombor/codebook.git"

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	godotenv.Load()

	fs := ff.NewFlagSet("commitforge")
	var (
		count       = fs.IntLong("count", 200, "Number of commits to create")
		push        = fs.BoolLong("push", "Push to the remote after creating commits")
		repo        = fs.StringLong("repo", defaultRepo, "Repository URL to push to")
		dir         = fs.StringLong("dir", ".", "Working directory to commit in")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn, error")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("COMMITFORGE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if _, err := logging.Init(*logLevel, ""); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	forge := commitgen.NewForge(
		commitgen.NewCLIGit(*dir),
		commitgen.NewGenerator(),
		*dir,
	)

	created, err := forge.CreateCommits(*count)
	if err != nil {
		slog.Error("Failed to create commits", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nSuccessfully created %d commits!\n", created)

	if *push {
		// The commits already exist; a failed push (usually missing
		// credentials) is guidance, not a failure
		if err := forge.Push(*repo); err != nil {
			fmt.Println("\nPush failed. To push manually, run:")
			fmt.Println("  git push -u origin main")
			return
		}
		fmt.Println("Successfully pushed to remote!")
		return
	}

	fmt.Println("\nTo push, run:")
	fmt.Println("  git push -u origin main")
	fmt.Println("\nOr rerun with --push")
}
