package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/fundihub/fundihub/internal/ai"
	"github.com/fundihub/fundihub/internal/ai/gemini"
	"github.com/fundihub/fundihub/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var leadsCmd = &cobra.Command{
	Use:   "leads <scenario.json>",
	Short: "Run the smart-leads flow on a profile/jobs scenario file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		leads(args[0])
	},
}

func init() {
	rootCmd.AddCommand(leadsCmd)
}

func leads(path string) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	input := &ai.SmartLeadsInput{}
	if err := readScenario(path, input); err != nil {
		zlog.Fatal("reading scenario file", zap.String("path", path), zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, zlog)
	if err != nil {
		zlog.Fatal("building the gemini generator", zap.Error(err))
	}

	recommender := gemini.NewRecommender(generator, zlog, maxLogLength(config.AI))

	recommendations, err := recommender.FindSmartLeads(ctx, input)
	if err != nil {
		zlog.Fatal("finding smart leads", zap.Error(err))
	}

	if len(recommendations) == 0 {
		fmt.Println("No leads recommended for this profile right now.")
		return
	}

	printJSON(recommendations)
}
