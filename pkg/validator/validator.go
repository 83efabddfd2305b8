// Package validator checks an offline initial UTxO document before the node
// trusts it. Validation stops at the first violation unless ValidateAll is
// used, which reports every violation in the same order.
package validator

import (
	"regexp"

	"utxo-lens/pkg/parser"
	"utxo-lens/pkg/types"
	"utxo-lens/pkg/utils"
)

const (
	// PolicyIDLength is the exact hex length of a minting policy ID.
	PolicyIDLength = 56
	// MaxAssetNameLength is the maximum hex length of an asset name.
	MaxAssetNameLength = 64
)

// utxoRefPattern matches <tx hash>#<output index>. Lowercase hex only.
var utxoRefPattern = regexp.MustCompile(`^[0-9a-f]{64}#[0-9]+$`)

// report receives a violation and returns false to stop the walk.
type report func(*ValidationError) bool

// Validate parses document and returns the first violation, or nil.
func Validate(document string) error {
	_, err := Check([]byte(document))
	return err
}

// Check parses and validates data, returning the snapshot when it is valid.
func Check(data []byte) (*types.UTxOSnapshot, error) {
	snap, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateSnapshot(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ValidateSnapshot runs the entry checks on an already parsed snapshot. A nil
// snapshot is treated as empty.
func ValidateSnapshot(snap *types.UTxOSnapshot) error {
	var first *ValidationError
	walkSnapshot(snap, func(e *ValidationError) bool {
		first = e
		return false
	})
	if first != nil {
		return first
	}
	return nil
}

// ValidateAll returns every violation in document, in the order Validate
// would meet them. A document that fails to parse yields a single
// MalformedDocument error. The result is nil for a valid document.
func ValidateAll(document string) []*ValidationError {
	_, errs := CheckAll([]byte(document))
	return errs
}

// CheckAll is the aggregate form of Check. The snapshot is returned only when
// there are no violations.
func CheckAll(data []byte) (*types.UTxOSnapshot, []*ValidationError) {
	snap, err := parse(data)
	if err != nil {
		return nil, []*ValidationError{err}
	}

	var errs []*ValidationError
	walkSnapshot(snap, func(e *ValidationError) bool {
		errs = append(errs, e)
		return true
	})
	if len(errs) > 0 {
		return nil, errs
	}
	return snap, nil
}

func parse(data []byte) (*types.UTxOSnapshot, *ValidationError) {
	snap, err := parser.ParseSnapshot(data)
	if err != nil {
		verr := newError(MalformedDocument, "", "failed to parse UTxO document: %v", err)
		verr.Err = err
		return nil, verr
	}
	return snap, nil
}

func walkSnapshot(snap *types.UTxOSnapshot, emit report) {
	for _, entry := range snap.Entries() {
		if !checkEntry(entry.Ref, entry.Out, emit) {
			return
		}
	}
}

func checkEntry(ref string, out types.TxOut, emit report) bool {
	if !utxoRefPattern.MatchString(ref) {
		if !emit(newError(InvalidReferenceFormat, ref, "invalid UTxO ref: %s", ref)) {
			return false
		}
	}

	if out.Address == "" {
		if !emit(newError(EmptyAddress, ref, "empty address in UTxO: %s", ref)) {
			return false
		}
	}

	if !checkValue(ref, out.Value, emit) {
		return false
	}

	if script, ok := out.ReferenceScript.Get(); ok {
		if !checkScript(ref, script, emit) {
			return false
		}
	}

	hexFields := []struct {
		name  string
		value types.Optional[string]
	}{
		{"datumhash", out.DatumHash},
		{"inlineDatumhash", out.InlineDatumHash},
		{"datum", out.Datum},
	}
	for _, f := range hexFields {
		v, ok := f.value.Get()
		if !ok || utils.IsHex(v) {
			continue
		}
		if !emit(newError(InvalidHexField, ref, "invalid %s format in UTxO: %s", f.name, ref)) {
			return false
		}
	}

	return true
}

func checkValue(ref string, value types.Value, emit report) bool {
	for _, policy := range value.Policies {
		if len(policy.PolicyID) != PolicyIDLength || !utils.IsHex(policy.PolicyID) {
			if !emit(newError(InvalidPolicyID, ref,
				"failed to validate value in UTxO %s: invalid policy ID: %s", ref, policy.PolicyID)) {
				return false
			}
			// The assets of a rejected policy are not inspected.
			continue
		}

		if len(policy.Assets) == 0 {
			if !emit(newError(EmptyAssetMap, ref,
				"failed to validate value in UTxO %s: asset map for policy %s cannot be empty", ref, policy.PolicyID)) {
				return false
			}
			continue
		}

		for _, asset := range policy.Assets {
			if len(asset.Name) > MaxAssetNameLength || !utils.IsHex(asset.Name) {
				if !emit(newError(InvalidAssetName, ref,
					"failed to validate value in UTxO %s: invalid asset name: %s (policy %s)", ref, asset.Name, policy.PolicyID)) {
					return false
				}
			}
		}
	}
	return true
}

func checkScript(ref string, script types.Script, emit report) bool {
	if !utils.IsHex(script.Script.CborHex) {
		if !emit(newError(InvalidScript, ref,
			"failed to validate script in UTxO %s: invalid hex in script", ref)) {
			return false
		}
	}
	if script.ScriptLanguage == "" {
		if !emit(newError(InvalidScript, ref,
			"failed to validate script in UTxO %s: script language cannot be empty", ref)) {
			return false
		}
	}
	return true
}
