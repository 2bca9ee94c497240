// Command invcalc projects long-horizon savings plans under several return
// scenarios.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
