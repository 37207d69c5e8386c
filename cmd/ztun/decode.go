package main

import (
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	stun "github.com/ztun/ztun"
)

func newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex-bytes>",
		Short: "Decode a hex-encoded STUN packet and print its attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0])
		},
	}

	return cmd
}

func runDecode(hexBytes string) error {
	raw, err := hex.DecodeString(hexBytes)
	if err != nil {
		return errors.Wrap(err, "decoding hex input")
	}

	m := new(stun.Message)
	m.Raw = raw
	if err := m.Decode(); err != nil {
		return errors.Wrap(err, "decoding STUN message")
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Printf("%s\n", m.String())

	for _, a := range m.Attributes {
		label := a.Type.String()
		if a.Type.IsComprehensionRequired() && !a.Type.IsRecognized() {
			color.Yellow("  %s (unrecognized, comprehension-required)", label)

			continue
		}
		fmt.Printf("  %s: %x\n", label, a.Value)
	}

	return nil
}
