package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/receipt-scanner/internal/expense"
	"github.com/zombor/receipt-scanner/internal/extraction"
)

type output struct {
	OCR        extraction.ReceiptExtraction `json:"ocr"`
	Validation extraction.ValidationResult  `json:"validation"`
	Expense    any                          `json:"expense"`
}

func main() {
	fs := ff.NewFlagSet("receipt-extract")
	var (
		input   = fs.StringLong("input", "-", "File with recognized receipt text, or '-' for stdin")
		resolve = fs.BoolLong("resolve", "Fill a missing amount with zero and a missing date with now")
		indent  = fs.BoolLong("indent", "Indent the JSON output")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_EXTRACT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	text, err := readInput(*input)
	if err != nil {
		slog.Error("Failed to read input", "input", *input, "error", err)
		os.Exit(1)
	}

	x := extraction.Extract(extraction.Document{Text: text})
	out := output{
		OCR:        x,
		Validation: extraction.Validate(x),
	}
	candidate := expense.ToCandidate(x)
	if *resolve {
		out.Expense = expense.Resolve(candidate, time.Now().UTC())
	} else {
		out.Expense = candidate
	}

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		slog.Error("Failed to write output", "error", err)
		os.Exit(1)
	}

	if !out.Validation.IsValid {
		os.Exit(2)
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
