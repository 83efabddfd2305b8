package analyzer

import (
	"strings"

	"utxo-lens/pkg/types"
	"utxo-lens/pkg/utils"
)

// DatumHash returns the blake2b-256 hash of a hex-encoded datum
func DatumHash(rawHex string) (string, error) {
	data, err := utils.HexToBytes(rawHex)
	if err != nil {
		return "", err
	}
	return utils.Blake2b256Hex(data), nil
}

// InlineDatumHashMatches reports whether an output's inlineDatumhash is the
// hash of its inlineDatumRaw. Outputs missing either field, or whose raw
// datum is not decodable hex, are reported as matching; the CBOR check
// covers those.
func InlineDatumHashMatches(out types.TxOut) bool {
	raw, ok := out.InlineDatumRaw.Get()
	if !ok {
		return true
	}
	want, ok := out.InlineDatumHash.Get()
	if !ok {
		return true
	}

	got, err := DatumHash(raw)
	if err != nil {
		return true
	}
	return strings.EqualFold(got, want)
}

// DatumSummary counts outputs carrying each kind of datum
func DatumSummary(snap *types.UTxOSnapshot) map[string]int {
	summary := make(map[string]int)
	for _, e := range snap.Entries() {
		if e.Out.DatumHash.IsPresent() {
			summary["datumhash"]++
		}
		if e.Out.InlineDatum.IsPresent() || e.Out.InlineDatumRaw.IsPresent() {
			summary["inline_datum"]++
		}
		if e.Out.Datum.IsPresent() {
			summary["datum"]++
		}
	}
	return summary
}
