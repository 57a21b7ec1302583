package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/fundihub/fundihub/internal/ai"
	"github.com/fundihub/fundihub/internal/ai/gemini"
	"github.com/fundihub/fundihub/internal/logger"
	"github.com/fundihub/fundihub/internal/marketplace"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <scenario.json>",
	Short: "Run the quote-analysis flow on a job/quotes scenario file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before calling the model")
}

func analyze(cmd *cobra.Command, path string) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	input := &ai.QuoteAnalysisInput{}
	if err := readScenario(path, input); err != nil {
		zlog.Fatal("reading scenario file", zap.String("path", path), zap.Error(err))
	}

	fmt.Printf("Job: %s\n", input.Job.Title)
	for _, quote := range input.Quotes {
		fmt.Printf("  quote %s: %s %.0f from %s (rating %.1f)\n",
			quote.ID, quote.Currency, quote.Amount,
			quote.Provider.BusinessName, quote.Provider.Rating,
		)
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Send %d quote(s) to the model for analysis?", len(input.Quotes)),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if action != PromptYes {
			zlog.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	generator, err := newGenerator(ctx, config.AI, zlog)
	if err != nil {
		zlog.Fatal("building the gemini generator", zap.Error(err))
	}

	analyzer := gemini.NewAnalyzer(generator, zlog, maxLogLength(config.AI))

	analysis, err := analyzer.AnalyzeJobQuotes(ctx, input)
	if err != nil {
		zlog.Fatal("analyzing quotes", zap.Error(err))
	}

	printJSON(analysis)
}

// readScenario loads a JSON scenario file into the given input, tolerating
// loosely typed documents.
func readScenario(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}

	return marketplace.DecodeSnapshot(doc, dst)
}

func printJSON(payload any) {
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("encoding result: %s", err)
	}
	fmt.Println(string(pretty))
}
