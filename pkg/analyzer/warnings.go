package analyzer

import (
	"math/bits"

	"utxo-lens/pkg/types"
)

// Warning codes, in the order they are reported
const (
	WarnLovelaceOverflow        = "LOVELACE_OVERFLOW"
	WarnNegativeQuantity        = "NEGATIVE_QUANTITY"
	WarnUnknownAddressEncoding  = "UNKNOWN_ADDRESS_ENCODING"
	WarnOddLengthHex            = "ODD_LENGTH_HEX"
	WarnScriptCBORMalformed     = "SCRIPT_CBOR_MALFORMED"
	WarnInlineDatumRawMalformed = "INLINE_DATUM_RAW_MALFORMED"
	WarnDatumHashMismatch       = "DATUM_HASH_MISMATCH"
)

var warningOrder = []string{
	WarnLovelaceOverflow,
	WarnNegativeQuantity,
	WarnUnknownAddressEncoding,
	WarnOddLengthHex,
	WarnScriptCBORMalformed,
	WarnInlineDatumRawMalformed,
	WarnDatumHashMismatch,
}

// GenerateWarnings creates warning array based on snapshot analysis.
// Each code is reported once, against the first UTxO that triggers it.
func GenerateWarnings(snap *types.UTxOSnapshot) []types.Warning {
	first := make(map[string]string)
	flag := func(code, ref string) {
		if _, seen := first[code]; !seen {
			first[code] = ref
		}
	}

	var total uint64
	for _, e := range snap.Entries() {
		ref, out := e.Ref, e.Out

		// LOVELACE_OVERFLOW: the set holds more than fits in a uint64
		var carry uint64
		total, carry = bits.Add64(total, out.Value.Lovelace, 0)
		if carry != 0 {
			flag(WarnLovelaceOverflow, ref)
			total = ^uint64(0)
		}

		// NEGATIVE_QUANTITY: holdings below zero are accepted but implausible
		for _, p := range out.Value.Policies {
			for _, a := range p.Assets {
				if a.Quantity < 0 {
					flag(WarnNegativeQuantity, ref)
				}
			}
		}

		if enc, _ := ClassifyAddress(out.Address); enc == EncodingUnknown {
			flag(WarnUnknownAddressEncoding, ref)
		}

		// ODD_LENGTH_HEX: passes the character check but cannot be decoded
		for _, h := range hexPayloads(out) {
			if len(h)%2 != 0 {
				flag(WarnOddLengthHex, ref)
			}
		}

		if script, ok := out.ReferenceScript.Get(); ok {
			if CheckCBOR(script.Script.CborHex) != nil {
				flag(WarnScriptCBORMalformed, ref)
			}
		}

		if raw, ok := out.InlineDatumRaw.Get(); ok {
			if CheckCBOR(raw) != nil {
				flag(WarnInlineDatumRawMalformed, ref)
			}
		}

		if !InlineDatumHashMatches(out) {
			flag(WarnDatumHashMismatch, ref)
		}
	}

	warnings := make([]types.Warning, 0)
	for _, code := range warningOrder {
		if ref, ok := first[code]; ok {
			warnings = append(warnings, types.Warning{Code: code, UTxO: ref})
		}
	}
	return warnings
}

// hexPayloads lists the present hex-encoded fields of an output
func hexPayloads(out types.TxOut) []string {
	var payloads []string
	if script, ok := out.ReferenceScript.Get(); ok {
		payloads = append(payloads, script.Script.CborHex)
	}
	for _, opt := range []types.Optional[string]{out.DatumHash, out.InlineDatumHash, out.Datum} {
		if v, ok := opt.Get(); ok {
			payloads = append(payloads, v)
		}
	}
	return payloads
}
