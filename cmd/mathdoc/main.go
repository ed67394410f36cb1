// Command mathdoc edits, checks and formats question files whose fields
// are rich-text documents with embedded formulas.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
