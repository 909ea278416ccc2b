package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/custom-timesheet/internal/approval"
	"github.com/frahmantamala/custom-timesheet/internal/attachment"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	docRest "github.com/frahmantamala/custom-timesheet/internal/docservice/rest"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
	"github.com/frahmantamala/custom-timesheet/pkg/logger"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Work with timesheets on a remote server",
	Long: `Command-line front end for timesheet entry, attachments and approvals. Remote
commands talk to the document service configured under docservice.`,
}

var (
	clientURL      string
	clientToken    string
	clientPrivate  bool
	clientYes      bool
	clientComments string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Check timesheet rows the way the form does before saving",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := readEntries(args[0])
		if err != nil {
			return err
		}
		form := timesheet.NewForm(entries...)
		banner := form.Banner()
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", banner.Level, banner.Text)
		return form.BeforeSave()
	},
}

var filesCmd = &cobra.Command{
	Use:   "files <timesheet>",
	Short: "List the files attached to a timesheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := attachment.NewManager(remoteClient(cmd.Context()), docservice.DoctypeTimesheet, args[0], logger.L())
		items, err := manager.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No attachments")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(out, "%s %-36s %-40s %10s\n", item.Icon, item.Name, item.FileName, item.Size)
		}
		return nil
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <timesheet> <path>...",
	Short: "Upload files to a timesheet",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := make([]attachment.File, 0, len(args)-1)
		for _, p := range args[1:] {
			content, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			files = append(files, attachment.File{Name: filepath.Base(p), Content: content})
		}

		manager := attachment.NewManager(remoteClient(cmd.Context()), docservice.DoctypeTimesheet, args[0], logger.L())
		manager.SetPrivate(clientPrivate)

		failed := 0
		for _, n := range manager.Upload(cmd.Context(), files) {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", n.Level, n.Message)
			if n.Level == attachment.NoticeError {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(files))
		}
		return nil
	},
}

var detachCmd = &cobra.Command{
	Use:   "detach <timesheet> <file>",
	Short: "Remove a file from a timesheet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := attachment.NewManager(remoteClient(cmd.Context()), docservice.DoctypeTimesheet, args[0], logger.L())
		removed, err := manager.Remove(cmd.Context(), args[1], promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
		}
		return nil
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions <timesheet>",
	Short: "Show the approval actions available to you",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := remoteClient(ctx)
		rec, err := client.Get(ctx, docservice.DoctypeTimesheet, args[0])
		if err != nil {
			return err
		}
		ts, err := timesheetFromRecord(rec)
		if err != nil {
			return err
		}

		actions, err := approval.NewWorkflow(client, logger.L()).Actions(ctx, ts).Wait(ctx)
		if err != nil {
			return err
		}
		if len(actions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No approval actions")
			return nil
		}
		for _, a := range actions {
			fmt.Fprintln(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

func decisionCmd(action approval.Action) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(string(action)) + " <timesheet>",
		Short: string(action) + " a submitted timesheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialog := approval.NewWorkflow(remoteClient(cmd.Context()), logger.L()).OpenDialog(action, args[0])
			outcome, err := dialog.Submit(cmd.Context(), clientComments)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			return nil
		},
	}
}

func remoteClient(ctx context.Context) docservice.Client {
	cfg, err := loadConfig(configPath)
	var rc docRest.Config
	if err == nil {
		rc = docRest.ConfigFrom(cfg.DocService)
	}
	if clientURL != "" {
		rc.BaseURL = clientURL
	}
	if clientToken != "" {
		rc.Token = clientToken
	}
	return docRest.NewClient(ctx, rc, logger.L())
}

func promptConfirm(in io.Reader, out io.Writer) attachment.Confirm {
	if clientYes {
		return func(string) bool { return true }
	}
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

// readEntries accepts either a bare array of rows or {"time_logs": [...]}.
func readEntries(path string) ([]timesheet.Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entries []timesheet.Entry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}
	var doc timesheet.ValidateTimesheetDTO
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc.TimeLogs, nil
}

func timesheetFromRecord(rec docservice.Record) (*timesheet.Timesheet, error) {
	ts := &timesheet.Timesheet{
		Name:           rec.String("name"),
		Employee:       rec.String("employee"),
		Status:         timesheet.Status(rec.String("status")),
		DocStatus:      int(rec.Int("docstatus")),
		ApprovalStatus: rec.String("approval_status"),
	}
	for _, row := range rec.Records("time_logs") {
		start, err := timesheet.ParseDateTime(row.String("start_date_time"))
		if err != nil {
			return nil, err
		}
		end, err := timesheet.ParseDateTime(row.String("end_date_time"))
		if err != nil {
			return nil, err
		}
		ts.TimeLogs = append(ts.TimeLogs, timesheet.Entry{
			Project:       row.String("project"),
			Task:          row.String("task"),
			StartDateTime: start,
			EndDateTime:   end,
		})
	}
	return ts, nil
}

func init() {
	clientCmd.PersistentFlags().StringVar(&clientURL, "url", "", "server base URL (overrides docservice.url)")
	clientCmd.PersistentFlags().StringVar(&clientToken, "token", "", "bearer token (overrides docservice.token)")
	attachCmd.Flags().BoolVar(&clientPrivate, "private", false, "store the files as private")
	detachCmd.Flags().BoolVarP(&clientYes, "yes", "y", false, "do not ask for confirmation")

	approveCmd := decisionCmd(approval.ActionApprove)
	approveCmd.Flags().StringVar(&clientComments, "comments", "", "approval comments")
	rejectCmd := decisionCmd(approval.ActionReject)
	rejectCmd.Flags().StringVar(&clientComments, "comments", "", "rejection reason (required)")

	clientCmd.AddCommand(validateCmd, filesCmd, attachCmd, detachCmd, actionsCmd, approveCmd, rejectCmd)
	rootCmd.AddCommand(clientCmd)
}
