package model

// VerificationResult records the outcome of checking one claim from the
// synthesized narrative against the source items.
type VerificationResult struct {
	Claim           string   `json:"alegacao"`
	Question        string   `json:"pergunta"`
	EvidenceIDs     []string `json:"evidencias"`
	EvidenceSummary string   `json:"resumo_evidencias"`
	Verified        bool     `json:"verificada"`
	Confidence      string   `json:"confianca"`
	Notes           string   `json:"observacoes,omitempty"`
}

// VerifiedReport is the output of the chain-of-verification phase.
// CleanedReport equals the original narrative exactly when no claim was
// rejected; otherwise it is prefixed with a warning block.
type VerifiedReport struct {
	OriginalClaims int                  `json:"alegacoes_originais"`
	VerifiedClaims int                  `json:"alegacoes_verificadas"`
	RejectedClaims int                  `json:"alegacoes_rejeitadas"`
	Results        []VerificationResult `json:"resultados"`
	CleanedReport  string               `json:"relatorio_limpo"`
}
