// Command urms-sync is the calendar synchronisation companion of the
// URMS desktop shell.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	configfile "github.com/infinityjp-maker/urms-sync/internal/adapters/driven/config/file"
	"github.com/infinityjp-maker/urms-sync/internal/adapters/driven/google"
	"github.com/infinityjp-maker/urms-sync/internal/adapters/driven/mailbox"
	"github.com/infinityjp-maker/urms-sync/internal/adapters/driven/oauth"
	"github.com/infinityjp-maker/urms-sync/internal/adapters/driven/secrets"
	"github.com/infinityjp-maker/urms-sync/internal/adapters/driven/storage/sqlite"
	"github.com/infinityjp-maker/urms-sync/internal/adapters/driving/cli"
	loopback "github.com/infinityjp-maker/urms-sync/internal/adapters/driving/oauth"
	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/services"
)

func main() {
	// A .env in the working directory supplies GOOGLE_CLIENT_ID and
	// friends during development; absence is not an error.
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("URMS_SYNC_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	configStore, err := configfile.NewConfigStore(os.Getenv("URMS_SYNC_CONFIG_DIR"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open configuration")
	}

	store, err := sqlite.NewStore(os.Getenv("URMS_SYNC_DATA_DIR"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history database")
	}
	defer store.Close()

	creds := services.NewCredentialService(secrets.NewKeyringStore())
	// Resolved per request, so an oauth_token_url edit reaches a
	// long-running watch process.
	endpoint := oauth.NewResolvingClient(func() string {
		return services.ResolveProviderConfig(configStore).TokenURL
	})
	refresher := services.NewRefreshService(creds, endpoint)
	calendarAPI := google.NewCalendarClient()

	engine := services.NewSyncEngine(creds, calendarAPI, calendarAPI, refresher, store.SyncRunStore())

	mailboxDir := os.Getenv("URMS_SYNC_MAILBOX_DIR")
	notifier := mailbox.NewProducer(mailboxDir)

	scheduler := services.NewScheduler(
		configStore,
		engine.WithTrigger(domain.TriggerScheduled),
		notifier,
	)

	authorizer := services.NewAuthorizeService(
		creds,
		endpoint,
		configStore,
		loopback.NewReceiverFactory(),
		loopback.OpenBrowser,
	)

	cli.Wire(cli.Dependencies{
		Authorizer:  authorizer,
		SyncEngine:  engine,
		Credentials: creds,
		ConfigStore: configStore,
		RunStore:    store.SyncRunStore(),
		Notifier:    notifier,
		Scheduler:   scheduler,
		MailboxDir:  mailboxDir,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
