// Package cli defines the command-line interface. Commands receive
// their services through Wire; a command invoked before wiring reports
// a configuration error instead of panicking.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driving"
	"github.com/infinityjp-maker/urms-sync/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Injected services. Set by Wire before Execute.
var (
	authorizer  driving.Authorizer
	syncEngine  *services.SyncEngine
	credentials *services.CredentialService
	configStore driven.ConfigStore
	runStore    driven.SyncRunStore
	notifier    driven.Notifier
	scheduler   *services.Scheduler
	mailboxDir  string
)

// Dependencies carries everything the commands need.
type Dependencies struct {
	Authorizer  driving.Authorizer
	SyncEngine  *services.SyncEngine
	Credentials *services.CredentialService
	ConfigStore driven.ConfigStore
	RunStore    driven.SyncRunStore
	Notifier    driven.Notifier
	Scheduler   *services.Scheduler
	MailboxDir  string
}

// Wire injects the services used by the commands.
func Wire(deps Dependencies) {
	authorizer = deps.Authorizer
	syncEngine = deps.SyncEngine
	credentials = deps.Credentials
	configStore = deps.ConfigStore
	runStore = deps.RunStore
	notifier = deps.Notifier
	scheduler = deps.Scheduler
	mailboxDir = deps.MailboxDir
}

var rootCmd = &cobra.Command{
	Use:   "urms-sync",
	Short: "Google Calendar synchronisation for URMS",
	Long: `urms-sync keeps the URMS desktop shell supplied with upcoming
Google Calendar events. It owns the OAuth connection to Google, fetches
events on a schedule or on demand, and hands results to the shell
through a shared file mailbox.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
