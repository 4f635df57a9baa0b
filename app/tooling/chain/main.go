// This program drives a proof of work chain from the command line.
package main

import (
	"github.com/ardanlabs/powchain/app/tooling/chain/cmd"
)

func main() {
	cmd.Execute()
}
