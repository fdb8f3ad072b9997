package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gosass/sasscmd"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gosass and compiler versions",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	h, err := openHost(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer h.Close()

	pair, err := h.pkg.Command().Dispatch(cmd.Context(), []string{sasscmd.CommandName, "version"})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "gosass %s\n", version)
	fmt.Fprintf(out, "%s %s (%s engine)\n", pair[0], pair[1], h.cfg.Engine)
	return nil
}
