// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

var courtsCmd = &cobra.Command{
	Use:   "courts",
	Short: "List the courts accepted by --court",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range types.Courts {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", c.Slug(), c)
		}
	},
}

func init() {
	rootCmd.AddCommand(courtsCmd)
}
