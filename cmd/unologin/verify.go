package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

var forceRefresh bool

var verifyCmd = &cobra.Command{
	Use:   "verify <appLoginToken>",
	Short: "Verify a login token and print the user it identifies",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

type verifyOutput struct {
	User   unologin.UserToken    `json:"user"`
	Cookie *unologin.LoginCookie `json:"renewedCookie,omitempty"`
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&forceRefresh, "refresh", false, "Exchange the token for a renewed one even if not due")
}

func runVerify(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	user, cookie, err := client.VerifyTokenAndRefresh(cmd.Context(), args[0], forceRefresh)
	if err != nil {
		if unologin.IsAuthError(err) {
			zap.L().Info("token rejected", zap.Error(err))
		}
		return err
	}
	return printJSON(cmd.OutOrStdout(), verifyOutput{User: user, Cookie: cookie})
}
