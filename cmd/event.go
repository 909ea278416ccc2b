package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/custom-timesheet/internal/core/events"
	"github.com/frahmantamala/custom-timesheet/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish an event",
	Long: `Publish an event to an in-process bus. Timesheet event types build a typed
event from the flags; --notify also runs the notification handler against the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(args[0])
	},
}

var (
	eventData          string
	eventNotify        bool
	eventEnvelopeFlags eventEnvelope
)

func publishEvent(eventType string) error {
	lg := logger.LoggerWrapper()
	ctx := context.Background()

	bus := events.NewEventBus(lg)
	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	var event events.Event
	env := eventEnvelopeFlags
	env.Type = eventType
	if ts, err := env.event(); err == nil {
		event = ts
	} else {
		event = events.BaseEvent{
			ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"message": eventData,
				"source":  "cli-command",
			},
		}
	}

	if eventNotify {
		deps, err := initializeDependencies()
		if err != nil {
			return fmt.Errorf("failed to initialize dependencies: %w", err)
		}
		defer deps.DB.Close()
		deps.EventBus = bus
		buildServices(deps)
	}

	lg.Info("publishing event", "event_type", eventType, "event_id", event.EventID())
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	lg.Info("event published successfully")
	return nil
}

func init() {
	flags := publishEventCmd.Flags()
	flags.StringVar(&eventData, "data", "test message", "message for non-timesheet events")
	flags.BoolVar(&eventNotify, "notify", false, "run the notification handler against the database")
	flags.StringVar(&eventEnvelopeFlags.Timesheet, "timesheet", "", "timesheet name")
	flags.StringVar(&eventEnvelopeFlags.Employee, "employee", "", "employee of the timesheet")
	flags.StringVar(&eventEnvelopeFlags.Owner, "owner", "", "identity that owns the timesheet")
	flags.StringVar(&eventEnvelopeFlags.Actor, "actor", "", "identity that caused the event")
	flags.StringSliceVar(&eventEnvelopeFlags.Approvers, "approvers", nil, "approver identities for submitted events")
	flags.StringVar(&eventEnvelopeFlags.Comments, "comments", "", "decision comments")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
