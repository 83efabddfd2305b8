package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"utxo-lens/pkg/types"
)

// Field names of a TxOut entry
const (
	fieldAddress         = "address"
	fieldValue           = "value"
	fieldReferenceScript = "referenceScript"
	fieldDatumHash       = "datumhash"
	fieldInlineDatum     = "inlineDatum"
	fieldInlineDatumHash = "inlineDatumhash"
	fieldInlineDatumRaw  = "inlineDatumRaw"
	fieldDatum           = "datum"
)

// ParseSnapshot parses an initial UTxO document into a snapshot. Entries,
// policies and asset names keep the order they have in the document.
func ParseSnapshot(data []byte) (*types.UTxOSnapshot, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("UTxO document is not valid UTF-8")
	}

	dec := newDecoder(data)
	if err := expectDelim(dec, '{', "UTxO set"); err != nil {
		return nil, err
	}

	snap := types.NewUTxOSnapshot()
	for dec.More() {
		ref, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("utxo %s: %w", ref, err)
		}

		out, err := parseTxOut(raw)
		if err != nil {
			return nil, fmt.Errorf("utxo %s: %w", ref, err)
		}

		if !snap.Add(ref, out) {
			return nil, fmt.Errorf("duplicate utxo reference %s", ref)
		}
	}

	if err := closeObject(dec); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return snap, nil
}

func parseTxOut(raw json.RawMessage) (types.TxOut, error) {
	var out types.TxOut

	fields, err := objectFields(raw, "TxOut")
	if err != nil {
		return out, err
	}

	addrRaw, ok := fields[fieldAddress]
	if !ok {
		return out, missingField(fieldAddress)
	}
	if out.Address, err = decodeString(addrRaw, fieldAddress); err != nil {
		return out, err
	}

	valueRaw, ok := fields[fieldValue]
	if !ok {
		return out, missingField(fieldValue)
	}
	if out.Value, err = parseValue(valueRaw); err != nil {
		return out, fmt.Errorf("field %q: %w", fieldValue, err)
	}

	if raw, ok := fields[fieldReferenceScript]; ok {
		if isNull(raw) {
			out.ReferenceScript = types.NullOf[types.Script]()
		} else {
			script, err := parseScript(raw)
			if err != nil {
				return out, fmt.Errorf("field %q: %w", fieldReferenceScript, err)
			}
			out.ReferenceScript = types.Some(script)
		}
	}

	if out.DatumHash, err = optionalString(fields, fieldDatumHash); err != nil {
		return out, err
	}
	if raw, ok := fields[fieldInlineDatum]; ok {
		if isNull(raw) {
			out.InlineDatum = types.NullOf[json.RawMessage]()
		} else {
			var buf bytes.Buffer
			if err := json.Compact(&buf, raw); err != nil {
				return out, fmt.Errorf("field %q: %w", fieldInlineDatum, err)
			}
			out.InlineDatum = types.Some(json.RawMessage(buf.Bytes()))
		}
	}
	if out.InlineDatumHash, err = optionalString(fields, fieldInlineDatumHash); err != nil {
		return out, err
	}
	if out.InlineDatumRaw, err = optionalString(fields, fieldInlineDatumRaw); err != nil {
		return out, err
	}
	if out.Datum, err = optionalString(fields, fieldDatum); err != nil {
		return out, err
	}

	return out, nil
}

func parseValue(raw json.RawMessage) (types.Value, error) {
	var value types.Value

	dec := newDecoder(raw)
	if err := expectDelim(dec, '{', "value"); err != nil {
		return value, err
	}

	seen := make(map[string]bool)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return value, err
		}
		if seen[key] {
			return value, fmt.Errorf("duplicate key %s", key)
		}
		seen[key] = true

		var item json.RawMessage
		if err := dec.Decode(&item); err != nil {
			return value, err
		}

		if key == types.LovelaceKey {
			if value.Lovelace, err = decodeUint64(item, key); err != nil {
				return value, err
			}
			continue
		}

		assets, err := parseAssets(item)
		if err != nil {
			return value, fmt.Errorf("policy %s: %w", key, err)
		}
		value.Policies = append(value.Policies, types.PolicyAssets{PolicyID: key, Assets: assets})
	}

	return value, closeObject(dec)
}

func parseAssets(raw json.RawMessage) ([]types.Asset, error) {
	dec := newDecoder(raw)
	if err := expectDelim(dec, '{', "asset map"); err != nil {
		return nil, err
	}

	assets := make([]types.Asset, 0)
	seen := make(map[string]bool)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate asset name %s", name)
		}
		seen[name] = true

		var item json.RawMessage
		if err := dec.Decode(&item); err != nil {
			return nil, err
		}
		qty, err := decodeInt64(item, name)
		if err != nil {
			return nil, err
		}
		assets = append(assets, types.Asset{Name: name, Quantity: qty})
	}

	return assets, closeObject(dec)
}

func parseScript(raw json.RawMessage) (types.Script, error) {
	var script types.Script

	fields, err := objectFields(raw, "Script")
	if err != nil {
		return script, err
	}
	if script.ScriptLanguage, err = requiredString(fields, "scriptLanguage"); err != nil {
		return script, err
	}

	detailsRaw, ok := fields["script"]
	if !ok {
		return script, missingField("script")
	}
	details, err := objectFields(detailsRaw, "ScriptDetails")
	if err != nil {
		return script, fmt.Errorf("field %q: %w", "script", err)
	}
	if script.Script.CborHex, err = requiredString(details, "cborHex"); err != nil {
		return script, err
	}
	if script.Script.Description, err = requiredString(details, "description"); err != nil {
		return script, err
	}
	scriptType, err := requiredString(details, "type")
	if err != nil {
		return script, err
	}
	script.Script.Type = types.ScriptType(scriptType)
	if !script.Script.Type.Valid() {
		return script, fmt.Errorf("unknown variant %q for field %q, expected one of %s, %s, %s, %s",
			scriptType, "type",
			types.SimpleScript, types.PlutusScriptV1, types.PlutusScriptV2, types.PlutusScriptV3)
	}

	return script, nil
}

// Decoding helpers

func newDecoder(data []byte) *json.Decoder {
	return json.NewDecoder(bytes.NewReader(data))
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", what, io.ErrUnexpectedEOF)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("invalid type for %s: expected a JSON object, found %s", what, describe(tok))
	}
	return nil
}

func closeObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return fmt.Errorf("expected end of object, found %s", describe(tok))
	}
	return nil
}

func expectEOF(dec *json.Decoder) error {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("trailing data after UTxO set: %w", err)
	}
	return fmt.Errorf("trailing data after UTxO set: %s", describe(tok))
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, found %s", describe(tok))
	}
	return key, nil
}

// objectFields splits a JSON object into its fields, rejecting repeated names.
func objectFields(raw json.RawMessage, what string) (map[string]json.RawMessage, error) {
	if kind(raw) != '{' {
		return nil, fmt.Errorf("invalid type for %s: expected a JSON object, found %s", what, kindName(raw))
	}

	dec := newDecoder(raw)
	if err := expectDelim(dec, '{', what); err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if _, ok := fields[name]; ok {
			return nil, fmt.Errorf("duplicate field %q", name)
		}

		var item json.RawMessage
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = item
	}

	return fields, closeObject(dec)
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", missingField(name)
	}
	return decodeString(raw, name)
}

func optionalString(fields map[string]json.RawMessage, name string) (types.Optional[string], error) {
	raw, ok := fields[name]
	if !ok {
		return types.Optional[string]{}, nil
	}
	if isNull(raw) {
		return types.NullOf[string](), nil
	}
	s, err := decodeString(raw, name)
	if err != nil {
		return types.Optional[string]{}, err
	}
	return types.Some(s), nil
}

func decodeString(raw json.RawMessage, name string) (string, error) {
	if kind(raw) != '"' {
		return "", fmt.Errorf("invalid type for field %q: expected a string, found %s", name, kindName(raw))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

func decodeUint64(raw json.RawMessage, name string) (uint64, error) {
	if kind(raw) != '0' {
		return 0, fmt.Errorf("invalid type for %q: expected an unsigned integer, found %s", name, kindName(raw))
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("invalid value for %q: %w", name, err)
	}
	return n, nil
}

func decodeInt64(raw json.RawMessage, name string) (int64, error) {
	if kind(raw) != '0' {
		return 0, fmt.Errorf("invalid type for asset %q: expected an integer, found %s", name, kindName(raw))
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("invalid quantity for asset %q: %w", name, err)
	}
	return n, nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}

func isNull(raw json.RawMessage) bool {
	return kind(raw) == 'n'
}

// kind classifies a raw JSON value by its first byte; all numbers map to '0'.
func kind(raw json.RawMessage) byte {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return 0
	}
	switch c := raw[0]; {
	case c == '-' || (c >= '0' && c <= '9'):
		return '0'
	default:
		return c
	}
}

func kindName(raw json.RawMessage) string {
	switch kind(raw) {
	case '{':
		return "an object"
	case '[':
		return "an array"
	case '"':
		return "a string"
	case '0':
		return "a number"
	case 'n':
		return "null"
	case 't', 'f':
		return "a boolean"
	default:
		return "nothing"
	}
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "an array"
		}
		return fmt.Sprintf("%q", string(v))
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
