package analyzer

import (
	"errors"

	"utxo-lens/pkg/types"
	"utxo-lens/pkg/utils"

	"github.com/fxamacker/cbor/v2"
)

// CheckCBOR decodes a hex payload and checks it holds exactly one
// well-formed CBOR data item.
func CheckCBOR(hexStr string) error {
	data, err := utils.HexToBytes(hexStr)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty CBOR payload")
	}
	return cbor.Wellformed(data)
}

// ScriptTypeSummary counts reference scripts by script type
func ScriptTypeSummary(snap *types.UTxOSnapshot) map[string]int {
	summary := make(map[string]int)
	for _, e := range snap.Entries() {
		if script, ok := e.Out.ReferenceScript.Get(); ok {
			summary[string(script.Script.Type)]++
		}
	}
	return summary
}
