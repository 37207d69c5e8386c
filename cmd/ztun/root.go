package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ztun",
		Short:         "ztun runs and exercises a STUN (RFC 8489) server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (overridable by ZTUN_* env vars)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newBindCommand())
	root.AddCommand(newDecodeCommand())

	return root
}
