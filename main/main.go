// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/vms/rpcchainvm"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/memechainvm"
)

func main() {
	printVersion, err := PrintVersion()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	if printVersion {
		fmt.Printf("%s@%s\n", memechainvm.Name, memechainvm.Version)
		os.Exit(0)
	}

	if err := rpcchainvm.Serve(context.Background(), &memechainvm.VM{}); err != nil {
		fmt.Printf("serve returned an error: %s\n", err)
	}
}
