package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/codebook/internal/logging"
	"github.com/zombor/codebook/internal/scanning"
	"github.com/zombor/codebook/internal/session"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Optional .env next to the binary
	godotenv.Load()

	fs := ff.NewFlagSet("codebook")
	var (
		webcam      = fs.BoolLong("webcam", "Scan codes from the webcam")
		imagePath   = fs.StringLong("image", "", "Path to an image file to scan")
		directory   = fs.StringLong("directory", "", "Directory containing images to scan")
		recursive   = fs.BoolLong("recursive", "Recursively scan subdirectories")
		output      = fs.StringLong("output", "", "Output file for results (.json or .txt)")
		duration    = fs.IntLong("duration", 30, "Webcam scan duration in seconds (0 for unbounded)")
		noPreview   = fs.BoolLong("no-preview", "Disable the camera preview window")
		gui         = fs.BoolLong("gui", "Serve the graphical interface")
		port        = fs.IntLong("port", 8080, "GUI server port")
		device      = fs.IntLong("device", 0, "Capture device index")
		dbPath      = fs.StringLong("db", "codebook.db", "Session database file path")
		exportDir   = fs.StringLong("export-dir", ".", "Directory export files are written to")
		logFile     = fs.StringLong("log-file", "codebook.log", "Process log file ('' for console only)")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn, error")
		authUser    = fs.StringLong("auth-user", "", "GUI basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "GUI basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CODEBOOK"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logCloser, err := logging.Init(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	slog.Info("Initializing session database...", "path", *dbPath)
	db, err := session.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := session.NewLocalStorage(*exportDir)
	if err != nil {
		slog.Error("Failed to initialize export storage", "error", err)
		os.Exit(1)
	}

	decoder := scanning.NewZXingDecoder()
	defer decoder.Close()

	service := session.NewService(db, decoder, store)

	// No scan mode selected: serve the graphical interface
	if *gui || (!*webcam && *imagePath == "" && *directory == "") {
		runServer(service, *port, *authUser, *authPass)
		return
	}

	// Cancel the scan (and release the camera) on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var records []session.Record
	switch {
	case *webcam:
		records = service.ScanWebcam(ctx, scanning.WebcamOptions{
			Device:   *device,
			Duration: time.Duration(*duration) * time.Second,
			Preview:  !*noPreview,
		})
		fmt.Printf("\nDetected %d code(s)\n", len(records))
	case *imagePath != "":
		records = service.ScanImage(*imagePath)
		fmt.Printf("\nDetected %d code(s) in %s\n", len(records), *imagePath)
	case *directory != "":
		records = service.ScanDirectory(*directory, *recursive)
		fmt.Printf("\nDetected %d code(s) in directory\n", len(records))
	}

	for i, r := range service.Records() {
		fmt.Printf("\nCode #%d:\n", i+1)
		fmt.Printf("  Data: %s\n", r.Data)
		fmt.Printf("  Type: %s\n", r.Symbology)
		fmt.Printf("  Source: %s\n", r.Source)
	}

	if service.Total() > 0 {
		if _, err := service.SaveSession(); err != nil {
			slog.Warn("Failed to save session", "error", err)
		}
	}

	// --output is honored verbatim (it may point anywhere); the
	// generated fallback name goes through the export directory
	if *output != "" {
		if err := service.ExportFile(*output); err != nil {
			slog.Error("Failed to export results", "error", err)
			os.Exit(1)
		}
	} else if service.Total() > 0 {
		filename := fmt.Sprintf("scan_results_%s.json", time.Now().Format("20060102_150405"))
		if _, err := service.Export(filename); err != nil {
			slog.Error("Failed to export results", "error", err)
			os.Exit(1)
		}
	}
}

func runServer(service *session.Service, port int, authUser, authPass string) {
	server := session.NewServer(service, session.BasicAuth{
		Username: authUser,
		Password: authPass,
	})

	addr := fmt.Sprintf(":%d", port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if authUser != "" || authPass != "" {
		slog.Info("Basic auth enabled", "user", authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
