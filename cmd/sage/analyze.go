package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/okaimono/sage/internal/cli"
	"github.com/okaimono/sage/internal/engine"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze receipts and record savings",
		Long: `Analyze one or more receipts. Each file holds pre-extracted receipt
lines, either as JSON or as "name<TAB>price[<TAB>quantity]" text; pass "-"
to read from stdin. With --image the file is a receipt photo sent to the
vision service instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Bool("image", false, "treat inputs as receipt photos for vision analysis")
	cmd.Flags().String("date", "", "purchase date (YYYY-MM-DD) when the input carries none")
	cmd.Flags().String("store", "", "store name when the input carries none")
	cmd.Flags().Bool("json", false, "print raw JSON instead of the styled report")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}

	imageMode, _ := cmd.Flags().GetBool("image")
	dateFlag, _ := cmd.Flags().GetString("date")
	storeFlag, _ := cmd.Flags().GetString("store")
	jsonOut, _ := cmd.Flags().GetBool("json")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	var analyzer engine.VisionAnalyzer
	if imageMode {
		client, visionErr := initVision()
		if visionErr != nil {
			return visionErr
		}
		analyzer = client
	}

	eng, err := initEngine(store, analyzer)
	if err != nil {
		return err
	}

	var bar interface{ Add(int) error }
	if len(args) > 1 {
		bar = cli.NewAnalysisProgressBar(len(args), cmd.ErrOrStderr())
	}

	failures := 0
	for _, path := range args {
		if err := analyzeOne(cmd, eng, userID, path, imageMode, dateFlag, storeFlag, jsonOut); err != nil {
			slog.Error("Analysis failed", "input", path, "error", err)
			failures++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d receipts failed", failures, len(args))
	}
	return nil
}

func analyzeOne(cmd *cobra.Command, eng *engine.AnalysisEngine, userID, path string, imageMode bool, date, store string, jsonOut bool) error {
	ctx := cmd.Context()

	if imageMode {
		image, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		analysis, err := eng.AnalyzeImage(ctx, userID, image)
		if err != nil {
			return err
		}
		return printJSON(cmd, analysis)
	}

	input, err := readReceiptInput(path)
	if err != nil {
		return err
	}
	if input.PurchaseDate == "" {
		input.PurchaseDate = date
	}
	if input.StoreName == "" {
		input.StoreName = store
	}

	result, err := eng.AnalyzeLines(ctx, userID, input)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(cmd, result)
	}
	cmd.Println(cli.RenderAnalysis(result))
	return nil
}

func readReceiptInput(path string) (engine.ReceiptInput, error) {
	if path == "-" {
		return cli.ParseReceiptInput(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return engine.ReceiptInput{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()
	return cli.ParseReceiptInput(f)
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	cmd.Println(string(out))
	return nil
}
