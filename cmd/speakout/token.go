package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/speak-out/internal/config"
	"github.com/jonathan/speak-out/internal/server"
)

var (
	tokenSubject string
	tokenRoles   []string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed token for the admin endpoints",
	Long: `Mint a JWT signed with JWT_SECRET. The token is accepted by the server's
/admin endpoints when it carries the admin role.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runToken(tokenSubject, tokenRoles, cmd.OutOrStdout())
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject, usually an operator name or email (required)")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", []string{server.RoleAdmin}, "Roles granted by the token")

	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(subject string, roles []string, out io.Writer) error {
	cfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(cfg).GenerateToken(subject, roles...)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
