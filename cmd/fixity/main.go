// fixity computes and verifies Reed-Solomon error-correction sidecars for
// a tree of files, so they can be repaired byte-for-byte after bit-level
// corruption without an intact backup copy.
package main

import (
	"fixity/internal/cli"
)

const version = "v0.1"

func main() {
	cli.Execute(version)
}
