// Package main - консольный клиент маркетплейса.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/apiclient"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	apiURL string
	userID string
	role   string
	asJSON bool
)

var rootCmd = &cobra.Command{
	Use:           "metonex",
	Short:         "Metonex marketplace CLI",
	Long:          `Command line client for the Metonex construction materials marketplace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		flags := cmd.Flags()
		if !flags.Changed("api") {
			if v := os.Getenv("METONEX_API_URL"); v != "" {
				apiURL = v
			}
		}
		if !flags.Changed("user") {
			userID = os.Getenv("METONEX_USER_ID")
		}
		if !flags.Changed("role") {
			role = os.Getenv("METONEX_ROLE")
		}
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "API base URL (METONEX_API_URL)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "acting user ID (METONEX_USER_ID)")
	rootCmd.PersistentFlags().StringVar(&role, "role", "", "acting role: buyer or supplier (METONEX_ROLE)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON")

	rootCmd.AddCommand(rfqsCmd)
	rootCmd.AddCommand(offersCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusesCmd)
}

// connect создаёт клиент API и сессию от имени настроенного участника.
func connect() (*apiclient.Client, *session.Session, error) {
	party := models.Party{ID: userID, Role: models.Role(role)}
	if party.ID == "" || (party.Role != models.Buyer && party.Role != models.Supplier) {
		return nil, nil, fmt.Errorf("set --user and --role (buyer|supplier) or METONEX_USER_ID and METONEX_ROLE")
	}
	return apiclient.New(apiURL, party), session.New(party), nil
}
