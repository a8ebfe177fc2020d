package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a Google account",
	Long: `Runs the browser-based OAuth authorization flow and stores the
resulting credentials in the OS keyring.

The client ID and secret identify your OAuth application at Google.
They can be passed as flags, taken from the GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET environment variables, or entered at the prompt.

Examples:
  urms-sync connect
  urms-sync connect --client-id "xxx.apps.googleusercontent.com"`,
	RunE: runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove the stored Google credentials",
	RunE:  runDisconnect,
}

// Flags for connect.
var (
	connectClientID     string
	connectClientSecret string
	connectAPIKey       string
)

func init() {
	connectCmd.Flags().StringVar(
		&connectClientID, "client-id", "", "OAuth client ID")
	connectCmd.Flags().StringVar(
		&connectClientSecret, "client-secret", "", "OAuth client secret")
	connectCmd.Flags().StringVar(
		&connectAPIKey, "api-key", "", "Also store an API key for public calendar access")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}

func runConnect(cmd *cobra.Command, _ []string) error {
	if authorizer == nil || credentials == nil {
		return errors.New("authorization service not configured")
	}

	ctx := context.Background()

	clientID := connectClientID
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if clientID == "" {
		cmd.Print("Enter OAuth client ID: ")
		clientID = readLine()
	}
	if clientID == "" {
		return errors.New("a client ID is required")
	}

	clientSecret := connectClientSecret
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if clientSecret == "" {
		cmd.Print("Enter OAuth client secret: ")
		clientSecret = readSecret()
		cmd.Println()
	}
	if clientSecret == "" {
		return errors.New("a client secret is required")
	}

	cmd.Println("Opening your browser to authorize access...")
	token, err := authorizer.Connect(ctx, domain.ClientCredentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if connectAPIKey != "" {
		if err := credentials.SaveAPIKey(ctx, connectAPIKey); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
	}

	cmd.Println("Account connected.")
	if !token.HasRefreshToken() {
		cmd.Println("Warning: no refresh token was granted; you will need to reconnect when the access token expires.")
	}
	return nil
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	if authorizer == nil {
		return errors.New("authorization service not configured")
	}

	if err := authorizer.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("disconnect failed: %w", err)
	}

	cmd.Println("Stored credentials removed.")
	return nil
}

func readLine() string {
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine()
}
