package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrdesk/backend/internal/config"
	"github.com/hrdesk/backend/internal/identity"
)

var tokenFlags struct {
	employeeID string
	email      string
	country    string
	roles      []string
	ttl        time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed bearer token for local development",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenFlags.employeeID, "employee-id", "", "employee id claim (required)")
	f.StringVar(&tokenFlags.email, "email", "", "email claim")
	f.StringVar(&tokenFlags.country, "country", "", "country claim")
	f.StringSliceVar(&tokenFlags.roles, "role", nil, "role to grant, repeatable")
	f.DurationVar(&tokenFlags.ttl, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("employee-id")
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tokens := identity.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	tok, err := tokens.Issue(identity.TokenClaims{
		EmployeeID: tokenFlags.employeeID,
		Email:      tokenFlags.email,
		Country:    tokenFlags.country,
		Roles:      tokenFlags.roles,
	}, tokenFlags.ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
