package types

// LovelaceKey is the reserved key for the native currency inside a value
const LovelaceKey = "lovelace"

// Asset is a quantity of one named asset under a policy
type Asset struct {
	Name     string
	Quantity int64
}

// PolicyAssets groups the assets minted under one policy ID
type PolicyAssets struct {
	PolicyID string
	Assets   []Asset
}

// Value represents the asset bundle held by an output. Policies and assets
// keep document order.
type Value struct {
	Lovelace uint64
	Policies []PolicyAssets
}

// MarshalJSON flattens the policies next to the lovelace amount
func (v Value) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if err := w.field(LovelaceKey, v.Lovelace); err != nil {
		return nil, err
	}
	for _, p := range v.Policies {
		if err := w.field(p.PolicyID, assetMap(p.Assets)); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

type assetMap []Asset

func (m assetMap) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, a := range m {
		if err := w.field(a.Name, a.Quantity); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}
