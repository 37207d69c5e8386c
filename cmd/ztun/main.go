// Command ztun runs a STUN (RFC 8489) server, or exercises one as a
// minimal client, depending on the subcommand invoked.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
