package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"utxo-lens/pkg/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	txHash   = strings.Repeat("a", 64)
	ref0     = txHash + "#0"
	ref1     = strings.Repeat("b", 64) + "#1"
	policyID = strings.Repeat("c", 56)
)

// doc builds a single-entry document around the given TxOut body.
func doc(ref, body string) string {
	return fmt.Sprintf(`{%q: %s}`, ref, body)
}

func requireCode(t *testing.T, err error, code ErrorCode) *ValidationError {
	t.Helper()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
	require.Equal(t, code, verr.Code, verr.Error())
	return verr
}

func TestValidate_EndToEndExamples(t *testing.T) {
	t.Run("minimal entry", func(t *testing.T) {
		require.NoError(t, Validate(doc(ref0, `{"address":"addr1","value":{"lovelace":1000000}}`)))
	})

	t.Run("bad key", func(t *testing.T) {
		err := Validate(`{"bad-key": {"address":"addr1","value":{"lovelace":0}}}`)
		verr := requireCode(t, err, InvalidReferenceFormat)
		assert.Contains(t, err.Error(), "bad-key")
		assert.Equal(t, "bad-key", verr.Ref)
	})

	t.Run("empty asset map", func(t *testing.T) {
		err := Validate(doc(ref0, fmt.Sprintf(`{"address":"addr1","value":{"lovelace":5,%q:{}}}`, policyID)))
		requireCode(t, err, EmptyAssetMap)
		assert.Contains(t, err.Error(), policyID)
		assert.Contains(t, err.Error(), ref0)
	})

	t.Run("null datumhash", func(t *testing.T) {
		require.NoError(t, Validate(doc(ref0, `{"address":"addr1","value":{"lovelace":1},"datumhash":null}`)))
	})
}

func TestValidate_FullEntry(t *testing.T) {
	body := fmt.Sprintf(`{
		"address": "addr_test1vz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerspjrlsz",
		"value": {"lovelace": 18446744073709551615, %q: {"": 1, "4d494e54": -5}},
		"referenceScript": {
			"scriptLanguage": "PlutusScriptLanguage PlutusScriptV2",
			"script": {"cborHex": "4E4D01000033222220051200120011", "description": "", "type": "PlutusScriptV2"}
		},
		"datumhash": "ABCDEF0123",
		"inlineDatum": {"constructor": 0, "fields": [{"int": 42}]},
		"inlineDatumhash": "00",
		"inlineDatumRaw": "not hex is fine here",
		"datum": null
	}`, policyID)

	require.NoError(t, Validate(doc(ref0, body)))
}

func TestValidate_Malformed(t *testing.T) {
	inputs := map[string]string{
		"empty":             ``,
		"not json":          `this is not json`,
		"truncated":         `{"` + ref0 + `": {"address":"a"`,
		"array":             `[]`,
		"null":              `null`,
		"trailing":          doc(ref0, `{"address":"a","value":{}}`) + ` {}`,
		"missing address":   doc(ref0, `{"value":{"lovelace":1}}`),
		"missing value":     doc(ref0, `{"address":"a"}`),
		"address not str":   doc(ref0, `{"address":5,"value":{}}`),
		"address null":      doc(ref0, `{"address":null,"value":{}}`),
		"negative lovelace": doc(ref0, `{"address":"a","value":{"lovelace":-1}}`),
		"float lovelace":    doc(ref0, `{"address":"a","value":{"lovelace":1.5}}`),
		"lovelace string":   doc(ref0, `{"address":"a","value":{"lovelace":"1"}}`),
		"quantity float":    doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{"00":1.5}}}`, policyID)),
		"quantity overflow": doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{"00":9223372036854775808}}}`, policyID)),
		"policy not object": doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:5}}`, policyID)),
		"tx out not object": doc(ref0, `"addr1"`),
		"datumhash number":  doc(ref0, `{"address":"a","value":{},"datumhash":12}`),
		"script type":       doc(ref0, `{"address":"a","value":{},"referenceScript":{"scriptLanguage":"x","script":{"cborHex":"00","description":"","type":"PlutusScriptV9"}}}`),
		"script missing":    doc(ref0, `{"address":"a","value":{},"referenceScript":{"scriptLanguage":"x"}}`),
		"duplicate ref":     fmt.Sprintf(`{%q:{"address":"a","value":{}},%q:{"address":"b","value":{}}}`, ref0, ref0),
		"duplicate address": doc(ref0, `{"address":"","address":"x","value":{}}`),
		"dup datumhash":     doc(ref0, `{"address":"a","value":{},"datumhash":"zz","datumhash":null}`),
		"dup value":         doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{}},"value":{}}`, policyID)),
		"invalid utf-8":     doc(ref0, "{\"address\":\"\xff\",\"value\":{}}"),
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			err := Validate(in)
			verr := requireCode(t, err, MalformedDocument)
			assert.Empty(t, verr.Ref)
			assert.NotNil(t, errors.Unwrap(err), "parser diagnostic should be wrapped")
		})
	}
}

func TestValidate_ReferenceFormat(t *testing.T) {
	bad := []string{
		"",
		"#0",
		txHash,
		txHash + "#",
		txHash + "#-1",
		txHash + "#1a",
		strings.Repeat("A", 64) + "#0",
		strings.Repeat("a", 63) + "#0",
		strings.Repeat("a", 65) + "#0",
		" " + ref0,
		ref0 + "\n",
		txHash + ":0",
	}

	for _, key := range bad {
		t.Run(fmt.Sprintf("%q", key), func(t *testing.T) {
			err := Validate(doc(key, `{"address":"a","value":{}}`))
			requireCode(t, err, InvalidReferenceFormat)
			assert.Contains(t, err.Error(), key)
		})
	}

	good := []string{ref0, txHash + "#123456789012345678901234567890", strings.Repeat("0123456789abcdef", 4) + "#7"}
	for _, key := range good {
		require.NoError(t, Validate(doc(key, `{"address":"a","value":{}}`)), key)
	}
}

func TestValidate_EmptyAddress(t *testing.T) {
	err := Validate(doc(ref0, `{"address":"","value":{"lovelace":1}}`))
	verr := requireCode(t, err, EmptyAddress)
	assert.Equal(t, ref0, verr.Ref)
	assert.Contains(t, err.Error(), ref0)
}

func TestValidate_PolicyID(t *testing.T) {
	bad := []string{
		strings.Repeat("c", 55),
		strings.Repeat("c", 57),
		strings.Repeat("c", 55) + "g",
		"",
		"lovelacex",
	}

	for _, pid := range bad {
		t.Run(pid, func(t *testing.T) {
			err := Validate(doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{"00":1}}}`, pid)))
			requireCode(t, err, InvalidPolicyID)
			assert.Contains(t, err.Error(), ref0)
		})
	}

	upper := strings.Repeat("C", 56)
	require.NoError(t, Validate(doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{"00":1}}}`, upper))))
}

func TestValidate_AssetNameBoundary(t *testing.T) {
	body := func(name string) string {
		return fmt.Sprintf(`{"address":"a","value":{%q:{%q:1}}}`, policyID, name)
	}

	require.NoError(t, Validate(doc(ref0, body(strings.Repeat("f", 64)))))
	require.NoError(t, Validate(doc(ref0, body(""))))

	err := Validate(doc(ref0, body(strings.Repeat("f", 65))))
	requireCode(t, err, InvalidAssetName)

	err = Validate(doc(ref0, body("tokenname")))
	verr := requireCode(t, err, InvalidAssetName)
	assert.Contains(t, verr.Message, "tokenname")
	assert.Contains(t, verr.Message, policyID)
}

func TestValidate_Script(t *testing.T) {
	script := func(lang, cbor string) string {
		return fmt.Sprintf(`{"address":"a","value":{},"referenceScript":{"scriptLanguage":%q,"script":{"cborHex":%q,"description":"d","type":"SimpleScript"}}}`, lang, cbor)
	}

	require.NoError(t, Validate(doc(ref0, script("SimpleScriptLanguage", "8200581c"))))

	err := Validate(doc(ref0, script("SimpleScriptLanguage", "xyz")))
	verr := requireCode(t, err, InvalidScript)
	assert.Contains(t, verr.Message, "invalid hex")

	err = Validate(doc(ref0, script("", "00")))
	verr = requireCode(t, err, InvalidScript)
	assert.Contains(t, verr.Message, "language")

	require.NoError(t, Validate(doc(ref0, `{"address":"a","value":{},"referenceScript":null}`)))
}

func TestValidate_HexFields(t *testing.T) {
	for _, field := range []string{"datumhash", "inlineDatumhash", "datum"} {
		t.Run(field, func(t *testing.T) {
			absent := doc(ref0, `{"address":"a","value":{}}`)
			null := doc(ref0, fmt.Sprintf(`{"address":"a","value":{},%q:null}`, field))
			valid := doc(ref0, fmt.Sprintf(`{"address":"a","value":{},%q:"AbCd01"}`, field))
			invalid := doc(ref0, fmt.Sprintf(`{"address":"a","value":{},%q:"zz"}`, field))

			require.NoError(t, Validate(absent))
			require.NoError(t, Validate(null))
			require.NoError(t, Validate(valid))

			err := Validate(invalid)
			verr := requireCode(t, err, InvalidHexField)
			assert.Contains(t, verr.Message, field)
			assert.Contains(t, verr.Message, ref0)
		})
	}
}

func TestValidate_NegativeQuantityAllowed(t *testing.T) {
	require.NoError(t, Validate(doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{"00":-9223372036854775808}}}`, policyID))))
}

func TestValidate_FirstErrorFollowsDocumentOrder(t *testing.T) {
	in := fmt.Sprintf(`{
		%q: {"address":"","value":{}},
		"zzz": {"address":"a","value":{}}
	}`, ref1)

	err := Validate(in)
	requireCode(t, err, EmptyAddress)

	// Within one entry the key is checked before the address.
	err = Validate(doc("nope", `{"address":"","value":{}}`))
	requireCode(t, err, InvalidReferenceFormat)

	// The first bad policy wins.
	err = Validate(doc(ref0, fmt.Sprintf(`{"address":"a","value":{%q:{},"xx":{"00":1}}}`, policyID)))
	requireCode(t, err, EmptyAssetMap)
}

func TestValidateAll(t *testing.T) {
	in := fmt.Sprintf(`{
		"bad": {"address":"","value":{}},
		%q: {"address":"a","value":{%q:{}},"datum":"qq"}
	}`, ref0, policyID)

	errs := ValidateAll(in)
	require.Len(t, errs, 4)

	codes := make([]ErrorCode, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []ErrorCode{InvalidReferenceFormat, EmptyAddress, EmptyAssetMap, InvalidHexField}, codes)

	first := Validate(in)
	require.Error(t, first)
	assert.Equal(t, errs[0].Error(), first.Error())

	assert.Nil(t, ValidateAll(doc(ref0, `{"address":"a","value":{}}`)))

	errs = ValidateAll(`{`)
	require.Len(t, errs, 1)
	assert.Equal(t, MalformedDocument, errs[0].Code)
}

func TestValidate_RoundTrip(t *testing.T) {
	in := fmt.Sprintf(`{
		%q: {
			"address": "addr1",
			"value": {"lovelace": 7, %q: {"ff": 3, "00": 1}},
			"referenceScript": null,
			"datumhash": "AB",
			"inlineDatum": {"b": [1, 2], "a": null},
			"inlineDatumRaw": "d87980"
		},
		%q: {"address": "addr2", "value": {}}
	}`, ref1, policyID, ref0)

	snap, err := Check([]byte(in))
	require.NoError(t, err)

	out, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, Validate(string(out)))

	again, err := parser.ParseSnapshot(out)
	require.NoError(t, err)
	assert.Equal(t, snap, again)

	out2, err := json.Marshal(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(out2))
}

func TestValidate_Concurrent(t *testing.T) {
	valid := doc(ref0, `{"address":"a","value":{"lovelace":1}}`)
	invalid := doc(ref0, `{"address":"","value":{}}`)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.NoError(t, Validate(valid))
			} else {
				assert.Equal(t, EmptyAddress, CodeOf(Validate(invalid)))
			}
		}(i)
	}
	wg.Wait()
}

func TestValidationError(t *testing.T) {
	err := Validate(doc(ref0, `{"address":"","value":{}}`))

	assert.True(t, errors.Is(err, ErrEmptyAddress))
	assert.False(t, errors.Is(err, ErrInvalidPolicyID))
	assert.Equal(t, EmptyAddress, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.True(t, strings.HasPrefix(err.Error(), string(EmptyAddress)+": "))

	var nilErr *ValidationError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestValidateSnapshot_Nil(t *testing.T) {
	assert.NoError(t, ValidateSnapshot(nil))
}

func TestCheckAll(t *testing.T) {
	snap, errs := CheckAll([]byte(doc(ref0, `{"address":"a","value":{"lovelace":1}}`)))
	require.Empty(t, errs)
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Len())

	in := fmt.Sprintf(`{"bad":{"address":"","value":{}},%q:{"address":"a","value":{}}}`, ref1)
	snap, errs = CheckAll([]byte(in))
	assert.Nil(t, snap)
	require.Len(t, errs, 2)
	assert.Equal(t, InvalidReferenceFormat, errs[0].Code)
	assert.Equal(t, EmptyAddress, errs[1].Code)
	assert.Equal(t, Validate(in), error(errs[0]))
}
