package types

import (
	"bytes"
	"encoding/json"
)

// ScriptType is the script kind carried by a reference script
type ScriptType string

const (
	SimpleScript   ScriptType = "SimpleScript"
	PlutusScriptV1 ScriptType = "PlutusScriptV1"
	PlutusScriptV2 ScriptType = "PlutusScriptV2"
	PlutusScriptV3 ScriptType = "PlutusScriptV3"
)

// Valid reports whether t is one of the known script types
func (t ScriptType) Valid() bool {
	switch t {
	case SimpleScript, PlutusScriptV1, PlutusScriptV2, PlutusScriptV3:
		return true
	}
	return false
}

// ScriptDetails holds the encoded script body
type ScriptDetails struct {
	CborHex     string     `json:"cborHex"`
	Description string     `json:"description"`
	Type        ScriptType `json:"type"`
}

// Script represents a reference script attached to an output
type Script struct {
	ScriptLanguage string        `json:"scriptLanguage"`
	Script         ScriptDetails `json:"script"`
}

// TxOut represents one unspent output of the initial UTxO set
type TxOut struct {
	Address         string
	Value           Value
	ReferenceScript Optional[Script]
	DatumHash       Optional[string]
	InlineDatum     Optional[json.RawMessage]
	InlineDatumHash Optional[string]
	InlineDatumRaw  Optional[string]
	Datum           Optional[string]
}

// MarshalJSON writes the output with the document's key names, dropping
// absent optional fields and keeping explicit nulls.
func (o TxOut) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if err := w.field("address", o.Address); err != nil {
		return nil, err
	}
	if err := w.field("value", o.Value); err != nil {
		return nil, err
	}

	optionals := []struct {
		key   string
		state Presence
		value json.Marshaler
	}{
		{"referenceScript", o.ReferenceScript.Presence(), o.ReferenceScript},
		{"datumhash", o.DatumHash.Presence(), o.DatumHash},
		{"inlineDatum", o.InlineDatum.Presence(), o.InlineDatum},
		{"inlineDatumhash", o.InlineDatumHash.Presence(), o.InlineDatumHash},
		{"inlineDatumRaw", o.InlineDatumRaw.Presence(), o.InlineDatumRaw},
		{"datum", o.Datum.Presence(), o.Datum},
	}
	for _, opt := range optionals {
		if opt.state == Absent {
			continue
		}
		if err := w.field(opt.key, opt.value); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

// Entry pairs a UTxO reference with its output
type Entry struct {
	Ref string
	Out TxOut
}

// UTxOSnapshot is the initial UTxO set. Entries keep the order in which
// they were added.
type UTxOSnapshot struct {
	entries []Entry
	index   map[string]int
}

// NewUTxOSnapshot creates an empty snapshot
func NewUTxOSnapshot() *UTxOSnapshot {
	return &UTxOSnapshot{index: make(map[string]int)}
}

// Add appends an entry. It returns false if ref is already present.
func (s *UTxOSnapshot) Add(ref string, out TxOut) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[ref]; exists {
		return false
	}
	s.index[ref] = len(s.entries)
	s.entries = append(s.entries, Entry{Ref: ref, Out: out})
	return true
}

// Get looks up an output by reference
func (s *UTxOSnapshot) Get(ref string) (TxOut, bool) {
	if s == nil {
		return TxOut{}, false
	}
	i, ok := s.index[ref]
	if !ok {
		return TxOut{}, false
	}
	return s.entries[i].Out, true
}

// Len returns the number of entries
func (s *UTxOSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns the entries in insertion order. The slice must not be
// modified.
func (s *UTxOSnapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// MarshalJSON writes the snapshot as a single object keyed by reference
func (s *UTxOSnapshot) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, e := range s.entries {
		if err := w.field(e.Ref, e.Out); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

// objectWriter emits a JSON object with keys in call order
type objectWriter struct {
	buf   bytes.Buffer
	count int
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) field(key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if w.count > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(val)
	w.count++
	return nil
}

func (w *objectWriter) close() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
