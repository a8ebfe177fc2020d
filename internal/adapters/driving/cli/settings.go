package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage synchronisation settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsIntervalCmd = &cobra.Command{
	Use:   "interval [minutes]",
	Short: "Set the scheduled sync interval in minutes (0 disables)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsInterval,
}

var settingsCalendarCmd = &cobra.Command{
	Use:   "calendar [calendar-id]",
	Short: "Set the calendar to sync",
	Long: `Sets the calendar to sync. Use "primary" for the connected
account's main calendar, or a calendar's email-style identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsCalendar,
}

var settingsMaxResultsCmd = &cobra.Command{
	Use:   "max-results [n]",
	Short: "Set the maximum number of events fetched per sync",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsMaxResults,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsIntervalCmd)
	settingsCmd.AddCommand(settingsCalendarCmd)
	settingsCmd.AddCommand(settingsMaxResultsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration store not configured")
	}

	interval := configStore.GetInt(domain.KeySyncIntervalMinutes)
	calendarID := configStore.GetString(domain.KeyCalendarID)
	if calendarID == "" {
		calendarID = domain.DefaultCalendarID
	}
	maxResults := configStore.GetInt(domain.KeyMaxResults)
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[Sync]")
	if interval <= 0 {
		cmd.Println("  Interval: disabled")
	} else {
		cmd.Printf("  Interval: every %d minutes\n", interval)
	}
	cmd.Printf("  Calendar: %s\n", calendarID)
	cmd.Printf("  Max results: %d\n", maxResults)
	cmd.Println()

	provider := services.ResolveProviderConfig(configStore)
	cmd.Println("[OAuth Provider]")
	cmd.Printf("  Auth URL: %s\n", provider.AuthURL)
	cmd.Printf("  Token URL: %s\n", provider.TokenURL)
	cmd.Printf("  Scopes: %v\n", provider.Scopes)

	return nil
}

func runSettingsInterval(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("configuration store not configured")
	}

	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes < 0 {
		return fmt.Errorf("interval must be a non-negative number of minutes: %q", args[0])
	}

	if err := configStore.Set(domain.KeySyncIntervalMinutes, minutes); err != nil {
		return fmt.Errorf("save setting: %w", err)
	}

	if minutes == 0 {
		cmd.Println("Scheduled sync disabled.")
	} else {
		cmd.Printf("Sync interval set to %d minutes. A running scheduler picks this up on its next cycle.\n", minutes)
	}
	return nil
}

func runSettingsCalendar(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("configuration store not configured")
	}

	if args[0] == "" {
		return errors.New("calendar id must not be empty")
	}
	if err := configStore.Set(domain.KeyCalendarID, args[0]); err != nil {
		return fmt.Errorf("save setting: %w", err)
	}

	cmd.Printf("Calendar set to %s.\n", args[0])
	return nil
}

func runSettingsMaxResults(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("configuration store not configured")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("max-results must be a positive number: %q", args[0])
	}

	if err := configStore.Set(domain.KeyMaxResults, n); err != nil {
		return fmt.Errorf("save setting: %w", err)
	}

	cmd.Printf("Max results set to %d.\n", n)
	return nil
}
