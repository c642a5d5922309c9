package main

import (
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Fetch and print the current login-token verification key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		key, err := client.Keys().LoginTokenKey(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), key)
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
}
