package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/matrixvault"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mvault",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mvault version %s\n", strings.TrimSpace(matrixvault.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
