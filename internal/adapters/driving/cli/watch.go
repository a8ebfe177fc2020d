package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/infinityjp-maker/urms-sync/internal/adapters/driven/mailbox"
	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the background scheduler and mailbox watcher",
	Long: `Runs until interrupted. The scheduler fetches events at the
configured interval (sync_interval_minutes; 0 disables scheduled
syncs) and publishes results to the mailbox. The watcher tails the
mailbox and prints each delivery, standing in for the desktop shell.

Changes to the configured interval take effect on the next cycle
without a restart.`,
	RunE: runWatch,
}

var watchNoConsume bool

func init() {
	watchCmd.Flags().BoolVar(
		&watchNoConsume, "no-consume", false, "Run only the scheduler, leaving the mailbox for another consumer")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 2)

	go func() {
		errCh <- scheduler.Start(ctx)
	}()

	if !watchNoConsume {
		watcher := mailbox.NewWatcher(mailboxDir, &printSink{cmd: cmd}, 0)
		go func() {
			errCh <- watcher.Run(ctx)
		}()
	}

	cmd.Println("Watching for calendar updates. Press Ctrl+C to stop.")

	<-ctx.Done()
	_ = scheduler.Stop()

	err := <-errCh
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("shutting down")
	return nil
}

// printSink prints deliveries to the command output, standing in for
// the desktop shell's event channel.
type printSink struct {
	cmd *cobra.Command
}

func (s *printSink) Deliver(_ context.Context, envelope domain.NotificationEnvelope) error {
	s.cmd.Printf("Received %d events (written %s)\n",
		len(envelope.Events), envelope.WrittenAt.Format("15:04:05"))
	for _, event := range envelope.Events {
		if summary, ok := event["summary"].(string); ok {
			s.cmd.Printf("  - %s\n", summary)
		}
	}
	return nil
}
