package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/custom-timesheet/internal/core/events"
	"github.com/frahmantamala/custom-timesheet/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start workers that consume timesheet lifecycle events outside the HTTP server.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Turn timesheet events into ToDo notifications",
	Long: `Subscribe the notification handler to an event bus and feed it newline-delimited
timesheet events read from --input (stdin by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startNotificationWorker(cmd.Context())
	},
}

var (
	workerInput        string
	workerDrainTimeout time.Duration
)

// eventEnvelope is the wire form of a timesheet event fed to the worker.
type eventEnvelope struct {
	Type      string   `json:"type"`
	Timesheet string   `json:"timesheet"`
	Employee  string   `json:"employee"`
	Owner     string   `json:"owner"`
	Approvers []string `json:"approvers"`
	Actor     string   `json:"actor"`
	Comments  string   `json:"comments"`
}

func (e eventEnvelope) event() (*events.TimesheetEvent, error) {
	switch e.Type {
	case events.EventTypeTimesheetSubmitted:
		return events.NewTimesheetSubmittedEvent(e.Timesheet, e.Employee, e.Owner, e.Actor, e.Approvers), nil
	case events.EventTypeTimesheetApproved:
		return events.NewTimesheetApprovedEvent(e.Timesheet, e.Employee, e.Owner, e.Actor, e.Comments), nil
	case events.EventTypeTimesheetRejected:
		return events.NewTimesheetRejectedEvent(e.Timesheet, e.Employee, e.Owner, e.Actor, e.Comments), nil
	}
	return nil, fmt.Errorf("unsupported event type %q", e.Type)
}

func startNotificationWorker(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.DB.Close()

	lg := logger.LoggerWrapper()
	buildServices(deps)

	var in io.Reader = os.Stdin
	if workerInput != "" && workerInput != "-" {
		f, err := os.Open(workerInput)
		if err != nil {
			return fmt.Errorf("open %s: %w", workerInput, err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("notification worker started", "input", workerInput)
	published, err := consumeEvents(ctx, in, deps.EventBus)
	if err != nil {
		lg.Error("event stream stopped", "error", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), workerDrainTimeout)
	defer cancel()
	if err := deps.EventBus.Drain(drainCtx); err != nil {
		lg.Warn("shutdown timeout reached, handlers still running", "error", err)
	}
	lg.Info("notification worker stopped", "published", published)
	return err
}

// consumeEvents publishes every decodable line of in until EOF or ctx ends.
// Malformed lines are logged and skipped.
func consumeEvents(ctx context.Context, in io.Reader, bus *events.EventBus) (int, error) {
	lg := logger.L()
	scanner := bufio.NewScanner(in)
	published := 0
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return published, err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var env eventEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			lg.Warn("skipping malformed event", "line", line, "error", err)
			continue
		}
		event, err := env.event()
		if err != nil {
			lg.Warn("skipping event", "line", line, "error", err)
			continue
		}
		if err := bus.Publish(ctx, event); err != nil {
			return published, err
		}
		published++
	}
	return published, scanner.Err()
}

func init() {
	notificationWorkerCmd.Flags().StringVar(&workerInput, "input", "-", "file of newline-delimited events, - for stdin")
	notificationWorkerCmd.Flags().DurationVar(&workerDrainTimeout, "drain-timeout", 30*time.Second, "how long to wait for handlers on shutdown")

	workerCmd.AddCommand(notificationWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
