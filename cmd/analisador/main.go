package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/config"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/llm"
)

var (
	flagInput      string
	flagConfig     string
	flagDiscipline string
	flagBoard      string
	flagYears      []int
	flagSkipPhases []int
)

func main() {
	root := &cobra.Command{
		Use:   "analisador",
		Short: "Analisa um corpus de questões de concurso e gera um relatório verificado",
		RunE:  runAnalysis,
	}

	root.Flags().StringVarP(&flagInput, "input", "i", "", "arquivo JSON com a lista de questões")
	root.Flags().StringVarP(&flagConfig, "config", "c", "config/config.toml", "arquivo de configuração TOML")
	root.Flags().StringVarP(&flagDiscipline, "disciplina", "d", "", "disciplina do corpus")
	root.Flags().StringVarP(&flagBoard, "banca", "b", "", "banca examinadora")
	root.Flags().IntSliceVar(&flagYears, "anos", nil, "anos das provas")
	root.Flags().IntSliceVar(&flagSkipPhases, "pular-fases", nil, "fases a pular (1-4)")
	_ = root.MarkFlagRequired("input")
	_ = root.MarkFlagRequired("disciplina")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("could not load config file, using defaults", zap.Error(err))
		cfg = config.Default()
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	data, err := os.ReadFile(flagInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	tracker := llm.NewUsageTracker(cfg.LLM.Provider)
	llmClient, embedder, err := llm.NewClient(cmd.Context(), cfg.LLM, tracker)
	if err != nil {
		return err
	}

	skip := map[int]bool{}
	for _, phase := range flagSkipPhases {
		skip[phase] = true
	}

	pipeline := core.NewPipeline(llmClient, embedder, cfg, logger)
	result := pipeline.Run(context.Background(), items, flagDiscipline, flagBoard, flagYears, skip)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	usage := tracker.Snapshot()
	logger.Info("llm usage",
		zap.Int64("chamadas_geracao", usage.GenerateCalls),
		zap.Int64("chamadas_embedding", usage.EmbedCalls),
		zap.Int64("falhas", usage.Failures))
	return nil
}
