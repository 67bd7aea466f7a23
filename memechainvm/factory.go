// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/vms"
)

var (
	// ID is this VM's unique identifier.
	ID = ids.ID{'m', 'e', 'm', 'e', 'c', 'h', 'a', 'i', 'n'}

	_ vms.Factory = (*Factory)(nil)
)

type Factory struct{}

func (*Factory) New(logging.Logger) (interface{}, error) {
	return &VM{}, nil
}
