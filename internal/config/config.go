package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

// PipelineConfig carries the tunables of the four analysis phases.
// Zero values fall back to the defaults in Default().
type PipelineConfig struct {
	ChunkSize            int     `toml:"chunk_size"`
	SynthesisPasses      int     `toml:"synthesis_passes"`
	SynthesisTemperature float32 `toml:"synthesis_temperature"`
	SimilarityThreshold  float64 `toml:"similarity_threshold"`
	MaxSimilarPairs      int     `toml:"max_similar_pairs"`
	MinClusterSize       int     `toml:"min_cluster_size"`
	MinSamples           int     `toml:"min_samples"`
	ReductionTarget      int     `toml:"reduction_target"`
	ClusterEps           float64 `toml:"cluster_eps"`
	MaxClaims            int     `toml:"max_claims"`
	EvidenceSampleSize   int     `toml:"evidence_sample_size"`
}

// Prompts are optional overrides; an empty field keeps the in-code default
// of the component that owns the prompt.
type Prompts struct {
	MapChunk             string `toml:"map_chunk"`
	Synthesis            string `toml:"synthesis"`
	ClaimExtraction      string `toml:"claim_extraction"`
	VerificationQuestion string `toml:"verification_question"`
	EvidenceSearch       string `toml:"evidence_search"`
	ClaimJudgment        string `toml:"claim_judgment"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Prompts  Prompts        `toml:"prompts"`
}

func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ChunkSize:            20,
			SynthesisPasses:      5,
			SynthesisTemperature: 0.8,
			SimilarityThreshold:  0.75,
			MaxSimilarPairs:      20,
			MinClusterSize:       3,
			MinSamples:           2,
			ReductionTarget:      50,
			ClusterEps:           0.35,
			MaxClaims:            15,
			EvidenceSampleSize:   50,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills zeroed pipeline fields with the default values, so a
// partially populated config (or a zero one built in code) stays usable.
func (c *Config) ApplyDefaults() {
	def := Default().Pipeline
	p := &c.Pipeline
	if p.ChunkSize <= 0 {
		p.ChunkSize = def.ChunkSize
	}
	if p.SynthesisPasses <= 0 {
		p.SynthesisPasses = def.SynthesisPasses
	}
	if p.SynthesisTemperature <= 0 {
		p.SynthesisTemperature = def.SynthesisTemperature
	}
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = def.SimilarityThreshold
	}
	if p.MaxSimilarPairs <= 0 {
		p.MaxSimilarPairs = def.MaxSimilarPairs
	}
	if p.MinClusterSize <= 0 {
		p.MinClusterSize = def.MinClusterSize
	}
	if p.MinSamples <= 0 {
		p.MinSamples = def.MinSamples
	}
	if p.ReductionTarget <= 0 {
		p.ReductionTarget = def.ReductionTarget
	}
	if p.ClusterEps <= 0 {
		p.ClusterEps = def.ClusterEps
	}
	if p.MaxClaims <= 0 {
		p.MaxClaims = def.MaxClaims
	}
	if p.EvidenceSampleSize <= 0 {
		p.EvidenceSampleSize = def.EvidenceSampleSize
	}
}
