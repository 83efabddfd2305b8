// Package runopts reads the chain configuration of a node's run options and
// locates the initial UTxO file used in offline mode.
package runopts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// ErrNotOffline is returned when the chain configuration is not offline
var ErrNotOffline = errors.New("chain config is not offline")

var validate = validator.New()

// OfflineChainConfig runs the node without a layer-1 chain
type OfflineChainConfig struct {
	InitialUTxOFile   string  `json:"initial_utxo_file" validate:"required"`
	LedgerGenesisFile *string `json:"ledger_genesis_file"`
}

// DirectChainConfig connects the node to a cardano-node. Only the fields
// needed to tell the modes apart are decoded.
type DirectChainConfig struct {
	NetworkID  json.RawMessage `json:"network_id"`
	NodeSocket string          `json:"node_socket" validate:"required"`
}

// ChainConfig is an externally tagged union: exactly one of Offline or
// Direct is set.
type ChainConfig struct {
	Offline *OfflineChainConfig `json:"Offline,omitempty" validate:"required_without=Direct,excluded_with=Direct"`
	Direct  *DirectChainConfig  `json:"Direct,omitempty" validate:"required_without=Offline"`
}

// RunOptions is the subset of the node's run options this tool reads
type RunOptions struct {
	ChainConfig ChainConfig `json:"chain_config"`

	// baseDir resolves relative paths; it is the directory of the options file.
	baseDir string
}

// Load reads and validates run options from a JSON file
func Load(path string) (*RunOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run options: %w", err)
	}

	opts, err := Parse(data)
	if err != nil {
		return nil, err
	}
	opts.baseDir = filepath.Dir(path)
	return opts, nil
}

// Parse decodes and validates run options. Relative paths resolve against
// the working directory.
func Parse(data []byte) (*RunOptions, error) {
	var opts RunOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse run options: %w", err)
	}
	if err := validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid run options: %w", err)
	}
	return &opts, nil
}

// IsOffline reports whether the node runs in offline chain mode
func (o *RunOptions) IsOffline() bool {
	return o.ChainConfig.Offline != nil
}

// InitialUTxOFile returns the path of the initial UTxO set
func (o *RunOptions) InitialUTxOFile() (string, error) {
	if !o.IsOffline() {
		return "", ErrNotOffline
	}
	return o.resolve(o.ChainConfig.Offline.InitialUTxOFile), nil
}

// LoadInitialUTxO reads the initial UTxO document named by the options
func (o *RunOptions) LoadInitialUTxO() ([]byte, error) {
	path, err := o.InitialUTxOFile()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial UTxO file: %w", err)
	}
	return data, nil
}

func (o *RunOptions) resolve(path string) string {
	if filepath.IsAbs(path) || o.baseDir == "" {
		return path
	}
	return filepath.Join(o.baseDir, path)
}
