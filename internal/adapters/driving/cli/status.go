package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connection status",
	Long: `Reports whether a Google account is connected and whether the
stored token can be refreshed. Secret material is never printed.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if credentials == nil {
		return errors.New("credential service not configured")
	}

	ctx := context.Background()

	token, err := credentials.Token(ctx)
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		cmd.Println("Not connected. Run 'urms-sync connect' to connect a Google account.")
		return nil
	case err != nil:
		return fmt.Errorf("read credentials: %w", err)
	}

	cmd.Println("Connected.")
	if token.Expiry.IsZero() {
		cmd.Println("  Access token: present (no recorded expiry)")
	} else if token.IsExpired() {
		cmd.Printf("  Access token: expired %s\n", token.Expiry.Format(time.RFC1123))
	} else {
		cmd.Printf("  Access token: valid until %s\n", token.Expiry.Format(time.RFC1123))
	}

	if token.HasRefreshToken() {
		cmd.Println("  Refresh token: present; expired access tokens are renewed automatically")
	} else {
		cmd.Println("  Refresh token: missing; reconnect will be required when the access token expires")
	}

	if _, err := credentials.APIKey(ctx); err == nil {
		cmd.Println("  API key: stored")
	}

	return nil
}
