package analyzer

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/fxamacker/cbor/v2"
)

// Address text encodings
const (
	EncodingBech32  = "bech32"
	EncodingBase58  = "base58"
	EncodingUnknown = "unknown"
)

// cborArrayOf2 is the leading byte of a Byron address payload: [tagged root, crc]
const cborArrayOf2 = 0x82

// ClassifyAddress determines the text encoding of an address.
// Shelley-era addresses are bech32 (no length limit, so DecodeNoLimit);
// Byron-era addresses are base58 over a CBOR array. The human-readable
// prefix is returned for bech32 addresses only.
func ClassifyAddress(addr string) (encoding string, prefix string) {
	if addr == "" {
		return EncodingUnknown, ""
	}

	if hrp, _, err := bech32.DecodeNoLimit(addr); err == nil {
		return EncodingBech32, hrp
	}

	decoded := base58.Decode(addr)
	if len(decoded) > 0 && decoded[0] == cborArrayOf2 && cbor.Wellformed(decoded) == nil {
		return EncodingBase58, ""
	}

	return EncodingUnknown, ""
}
