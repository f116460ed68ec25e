// Command couchosd plays media fullscreen with a couch-friendly on-screen overlay. It
// plays local files and URLs, or items from a Jellyfin server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
