// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"encoding/json"
	"fmt"
)

// Config tunes chain-level limits. It arrives as the VM's JSON config blob;
// zero values fall back to defaults so an empty config is always valid.
type Config struct {
	// MaxMetadataSize bounds collection and item metadata documents, in bytes.
	MaxMetadataSize int `json:"maxMetadataSize"`
	// TaxCeilingPct bounds the combined buy and sell tax a token may declare.
	TaxCeilingPct uint8 `json:"taxCeilingPct"`
	// MempoolSize is the maximum number of pending transactions.
	MempoolSize int `json:"mempoolSize"`
	// MaxBlockTxs is the maximum number of transactions per block.
	MaxBlockTxs int `json:"maxBlockTxs"`
}

func DefaultConfig() Config {
	return Config{
		MaxMetadataSize: 4096,
		TaxCeilingPct:   25,
		MempoolSize:     1024,
		MaxBlockTxs:     256,
	}
}

// ParseConfig overlays [configBytes] on the defaults.
func ParseConfig(configBytes []byte) (Config, error) {
	c := DefaultConfig()
	if len(configBytes) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(configBytes, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse vm config: %w", err)
	}
	if c.MaxMetadataSize <= 0 {
		c.MaxMetadataSize = DefaultConfig().MaxMetadataSize
	}
	if c.TaxCeilingPct == 0 || c.TaxCeilingPct > 100 {
		c.TaxCeilingPct = DefaultConfig().TaxCeilingPct
	}
	if c.MempoolSize <= 0 {
		c.MempoolSize = DefaultConfig().MempoolSize
	}
	if c.MaxBlockTxs <= 0 {
		c.MaxBlockTxs = DefaultConfig().MaxBlockTxs
	}
	return c, nil
}
