package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"stakemine/logx"
)

var rootCmd = &cobra.Command{
	Use:   "stakemine",
	Short: "Staking and reward engine CLI",
	Long:  "Command line interface for running and managing a staking and reward engine node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
