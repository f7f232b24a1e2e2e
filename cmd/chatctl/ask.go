package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hrdesk/backend/internal/ai"
	"github.com/hrdesk/backend/internal/config"
	"github.com/hrdesk/backend/internal/models"
	"github.com/hrdesk/backend/internal/service"
)

var askFlags struct {
	employeeID string
	country    string
	verbose    bool
}

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Run one message through the configured chat backend",
	Long: `Classifies the message with the backend selected by ENABLE_LIVE_AI and
prints the resulting outcome as JSON. Nothing is audited.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	f := askCmd.Flags()
	f.StringVar(&askFlags.employeeID, "employee-id", "cli", "employee id to answer as")
	f.StringVar(&askFlags.country, "country", "US", "country to answer for")
	f.BoolVarP(&askFlags.verbose, "verbose", "v", false, "log backend calls to stderr")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	if askFlags.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	ctx := cmd.Context()
	backend, err := ai.NewBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ident := models.IdentityContext{
		EmployeeID:    askFlags.employeeID,
		Email:         "unknown@company.com",
		Roles:         []string{},
		Country:       askFlags.country,
		CorrelationID: uuid.NewString(),
	}
	req := models.ChatRequest{Message: strings.Join(args, " ")}

	outcome, err := service.NewOrchestrator(backend, logger, nil).Handle(ctx, req, ident)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
