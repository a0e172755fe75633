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

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"google.golang.org/api/option"

	"github.com/zombor/receipt-scanner/internal/receipt"
	"github.com/zombor/receipt-scanner/internal/scanning"
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

	fs := ff.NewFlagSet("receipt-scanner")
	var (
		port              = fs.IntLong("port", 8080, "HTTP server port")
		dbPath            = fs.StringLong("db", "receipt-scanner.db", "Database file path")
		storagePath       = fs.StringLong("storage", "./receipts", "Storage directory path")
		scannerType       = fs.StringLong("scanner", "vision", "Scanner type: 'vision', 'gemini' or 'ollama'")
		visionKey         = fs.StringLong("vision-key", "", "Google Cloud Vision API key")
		visionCredentials = fs.StringLong("vision-credentials", "", "Google Cloud service account JSON file (defaults to application default credentials)")
		geminiKey         = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel       = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL         = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel       = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
		scanTimeout       = fs.DurationLong("scan-timeout", 0, "Timeout for a single OCR call (0 uses the scanner default)")
		maxUploadMB       = fs.IntLong("max-upload-mb", 10, "Maximum receipt upload size in MiB")
		strict            = fs.BoolLong("strict", "Reject receipts missing a merchant or total instead of saving a draft")
		authUser          = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass          = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel          = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion       = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Initialize database
	slog.Info("Initializing database...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize scanner based on type
	var scanner scanning.Scanner
	switch *scannerType {
	case "vision":
		var opts []option.ClientOption
		switch {
		case *visionKey != "":
			opts = append(opts, option.WithAPIKey(*visionKey))
		case *visionCredentials != "":
			opts = append(opts, option.WithCredentialsFile(*visionCredentials))
		}
		slog.Info("Initializing Vision scanner...")
		scanner, err = scanning.NewVision(context.Background(), *scanTimeout, opts...)
		if err != nil {
			slog.Error("Failed to initialize Vision", "error", err)
			os.Exit(1)
		}
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel, *scanTimeout)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel, *scanTimeout)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "vision, gemini or ollama")
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	receiptService := receipt.NewService(db, scanner, store, receipt.Options{Strict: *strict})

	server := receipt.NewServer(receiptService, receipt.ServerConfig{
		BasicAuth: receipt.BasicAuth{
			Username: *authUser,
			Password: *authPass,
		},
		MaxUploadBytes: int64(*maxUploadMB) << 20,
	})

	addr := fmt.Sprintf(":%d", *port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "scanner", *scannerType, "strict", *strict)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-sigChan:
		slog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Shutdown error", "error", err)
		}
	}
}
