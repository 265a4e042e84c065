// Command planview opens an interactive floor plan viewer and manages its
// configuration file.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
