// Package analyzer reports statistics and warnings for a snapshot that has
// already passed validation. Nothing here changes whether a document is
// valid.
package analyzer

import (
	"math/bits"

	"utxo-lens/pkg/types"
)

// Analyze builds the analysis report for a validated snapshot
func Analyze(snap *types.UTxOSnapshot) *types.AnalysisOutput {
	report := &types.AnalysisOutput{
		OK:                     true,
		UTxOCount:              snap.Len(),
		ScriptTypeSummary:      ScriptTypeSummary(snap),
		AddressEncodingSummary: make(map[string]int),
		DatumSummary:           DatumSummary(snap),
		Warnings:               GenerateWarnings(snap),
	}

	policies := make(map[string]bool)
	assets := make(map[string]bool)
	for _, e := range snap.Entries() {
		out := e.Out

		sum, carry := bits.Add64(report.TotalLovelace, out.Value.Lovelace, 0)
		if carry != 0 {
			sum = ^uint64(0)
		}
		report.TotalLovelace = sum

		for _, p := range out.Value.Policies {
			policies[p.PolicyID] = true
			for _, a := range p.Assets {
				assets[p.PolicyID+"."+a.Name] = true
			}
		}

		if out.ReferenceScript.IsPresent() {
			report.ReferenceScriptCount++
		}

		enc, _ := ClassifyAddress(out.Address)
		report.AddressEncodingSummary[enc]++
	}

	report.PolicyCount = len(policies)
	report.AssetCount = len(assets)
	return report
}
