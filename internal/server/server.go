package server

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/config"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/llm"
)

type Server struct {
	Pipeline *core.Pipeline
	Usage    *llm.UsageTracker
	Logger   *zap.Logger
}

func NewServer(logger *zap.Logger) (*Server, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("could not load config file, using defaults", zap.String("path", cfgPath), zap.Error(err))
		cfg = config.Default()
	}
	applyEnvOverrides(cfg)

	// Default to Ollama when no provider is configured.
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	tracker := llm.NewUsageTracker(cfg.LLM.Provider)
	llmClient, embedder, err := llm.NewClient(context.Background(), cfg.LLM, tracker)
	if err != nil {
		return nil, err
	}

	return &Server{
		Pipeline: core.NewPipeline(llmClient, embedder, cfg, logger),
		Usage:    tracker,
		Logger:   logger,
	}, nil
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.GET("/uso", s.UsageSnapshot)
	r.POST("/analisar", s.Analyze)

	return r
}

type AnalyzeRequest struct {
	Discipline string       `json:"disciplina" binding:"required"`
	Board      string       `json:"banca"`
	Years      []int        `json:"anos"`
	SkipPhases []int        `json:"pular_fases"`
	Items      []model.Item `json:"questoes"`
}

func (s *Server) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	skip := map[int]bool{}
	for _, phase := range req.SkipPhases {
		skip[phase] = true
	}

	result := s.Pipeline.Run(c.Request.Context(), req.Items, req.Discipline, req.Board, req.Years, skip)
	c.JSON(http.StatusOK, result)
}

func (s *Server) UsageSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.Usage.Snapshot())
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
