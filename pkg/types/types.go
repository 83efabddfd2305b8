package types

// ValidationOutput represents the JSON output for a validated document
type ValidationOutput struct {
	OK        bool        `json:"ok"`
	Source    string      `json:"source,omitempty"`
	UTxOCount int         `json:"utxo_count"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Errors    []ErrorInfo `json:"errors,omitempty"`
}

// AnalysisOutput represents the complete JSON output for an analyzed snapshot
type AnalysisOutput struct {
	OK                     bool           `json:"ok"`
	Source                 string         `json:"source,omitempty"`
	UTxOCount              int            `json:"utxo_count"`
	TotalLovelace          uint64         `json:"total_lovelace"`
	PolicyCount            int            `json:"policy_count"`
	AssetCount             int            `json:"asset_count"`
	ReferenceScriptCount   int            `json:"reference_script_count"`
	ScriptTypeSummary      map[string]int `json:"script_type_summary"`
	AddressEncodingSummary map[string]int `json:"address_encoding_summary"`
	DatumSummary           map[string]int `json:"datum_summary"`
	Warnings               []Warning      `json:"warnings"`
	Error                  *ErrorInfo     `json:"error,omitempty"`
}

// Warning represents a snapshot warning
type Warning struct {
	Code string `json:"code"`
	UTxO string `json:"utxo,omitempty"`
}

// ErrorInfo represents an error response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	UTxO    string `json:"utxo,omitempty"`
}
