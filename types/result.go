// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "github.com/ava-labs/avalanchego/ids"

// Event is emitted by a committed operation.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// TxResult is the outcome of one transaction within a block. Results are
// ephemeral: they are derived deterministically by re-execution and are not
// part of the state commitment.
type TxResult struct {
	TxID      ids.ID    `json:"txID"`
	Op        string    `json:"op"`
	Committed bool      `json:"committed"`
	ErrorCode ErrorCode `json:"errorCode,omitempty"`
	Error     string    `json:"error,omitempty"`
	Events    []Event   `json:"events,omitempty"`
}
