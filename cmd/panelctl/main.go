// panelctl drives a task editor session against a running task
// service: open a task, edit the draft, save, manage attachments and
// subtasks. One command is one open/act/close editor cycle.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/api"
	"github.com/faha1999/team-to-do-app-sub000/internal/app/editor"
	"github.com/faha1999/team-to-do-app-sub000/internal/config"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
)

var (
	flagServer string
	flagToken  string
	flagLang   string
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadClientConfig()

	root := &cobra.Command{
		Use:           "panelctl",
		Short:         "Task editor client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", cfg.BaseURL, "task service base URL")
	root.PersistentFlags().StringVar(&flagToken, "token", cfg.Token, "bearer token")
	root.PersistentFlags().StringVar(&flagLang, "lang", cfg.Language, "language for error messages")

	root.AddCommand(
		newShowCmd(),
		newEditCmd(),
		newUploadCmd(),
		newRemoveAttachmentCmd(),
		newAddSubtaskCmd(),
	)
	return root
}

func newEditorSession() *editor.Session {
	client := api.NewClient(flagServer, api.WithToken(flagToken), api.WithLanguage(flagLang))
	return editor.NewSession(client, editor.WithLanguage(flagLang))
}

// openTask runs Open and turns a stored session error into the
// command's failure output.
func openTask(cmd *cobra.Command, session *editor.Session, taskID string) error {
	if err := session.Open(cmd.Context(), taskID, nil); err != nil {
		return fmt.Errorf("%s", session.Err())
	}
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Print a task as the editor sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newEditorSession()
			defer session.Close()

			if err := openTask(cmd, session, args[0]); err != nil {
				return err
			}

			bundle, _ := session.Bundle()
			draft, _ := session.Draft()
			printBundle(cmd, bundle, draft)
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	var (
		title       string
		description string
		priority    string
		status      string
		startDate   string
		dueDate     string
		assignees   []string
		labels      []string
		addReminder bool
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit draft fields and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newEditorSession()
			defer session.Close()

			if err := openTask(cmd, session, args[0]); err != nil {
				return err
			}

			patch, err := buildPatch(cmd, title, description, priority, status, startDate, dueDate, assignees, labels)
			if err != nil {
				return err
			}
			if err := session.ApplyPatch(patch); err != nil {
				return err
			}
			if addReminder {
				if err := session.AddReminder(); err != nil {
					return err
				}
			}

			if err := session.Save(cmd.Context()); err != nil {
				return fmt.Errorf("%s", session.Err())
			}

			draft, _ := session.Draft()
			cmd.Printf("saved %s (version %d)\n", draft.TaskID, draft.BaseVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "P1..P4")
	cmd.Flags().StringVar(&status, "status", "", "open|in_progress|blocked|done|cancelled")
	cmd.Flags().StringVar(&startDate, "start", "", "start date (RFC3339, empty string clears)")
	cmd.Flags().StringVar(&dueDate, "due", "", "due date (RFC3339, empty string clears)")
	cmd.Flags().StringSliceVar(&assignees, "assignees", nil, "replace assignee set")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "replace label set")
	cmd.Flags().BoolVar(&addReminder, "add-reminder", false, "append a default reminder")
	return cmd
}

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <task-id> <file>...",
		Short: "Attach files to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newEditorSession()
			defer session.Close()

			if err := openTask(cmd, session, args[0]); err != nil {
				return err
			}

			files := make([]domain.FileUpload, 0, len(args)-1)
			for _, path := range args[1:] {
				content, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				files = append(files, domain.FileUpload{Name: filepath.Base(path), Content: content})
			}

			if err := session.UploadAttachments(cmd.Context(), files); err != nil {
				return fmt.Errorf("%s", session.Err())
			}

			bundle, _ := session.Bundle()
			cmd.Printf("uploaded %d file(s); task now has %d attachment(s)\n", len(files), len(bundle.Task.Attachments))
			return nil
		},
	}
}

func newRemoveAttachmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-attachment <task-id> <attachment-id>",
		Short: "Remove an attachment from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newEditorSession()
			defer session.Close()

			if err := openTask(cmd, session, args[0]); err != nil {
				return err
			}

			if err := session.RemoveAttachment(cmd.Context(), args[1]); err != nil {
				return fmt.Errorf("%s", session.Err())
			}

			cmd.Printf("removed attachment %s\n", args[1])
			return nil
		},
	}
}

func newAddSubtaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-subtask <task-id> <title>",
		Short: "Create a subtask under a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newEditorSession()
			defer session.Close()

			if err := openTask(cmd, session, args[0]); err != nil {
				return err
			}

			if err := session.CreateSubtask(cmd.Context(), args[1]); err != nil {
				return fmt.Errorf("%s", session.Err())
			}

			draft, _ := session.Draft()
			cmd.Printf("created subtask; task now has %d subtask(s)\n", len(draft.Subtasks))
			return nil
		},
	}
}

func buildPatch(cmd *cobra.Command, title, description, priority, status, startDate, dueDate string, assignees, labels []string) (domain.FieldPatch, error) {
	var patch domain.FieldPatch

	if cmd.Flags().Changed("title") {
		patch.Title = &title
	}
	if cmd.Flags().Changed("description") {
		patch.DescriptionSet = true
		if description != "" {
			patch.Description = &description
		}
	}
	if cmd.Flags().Changed("priority") {
		p := domain.Priority(priority)
		if !p.Valid() {
			return domain.FieldPatch{}, fmt.Errorf("invalid priority %q", priority)
		}
		patch.Priority = &p
	}
	if cmd.Flags().Changed("status") {
		s := domain.TaskStatus(status)
		if !s.Valid() {
			return domain.FieldPatch{}, fmt.Errorf("invalid status %q", status)
		}
		patch.Status = &s
	}
	if cmd.Flags().Changed("start") {
		patch.StartDateSet = true
		if startDate != "" {
			parsed, err := time.Parse(time.RFC3339, startDate)
			if err != nil {
				return domain.FieldPatch{}, fmt.Errorf("invalid start date: %w", err)
			}
			patch.StartDate = &parsed
		}
	}
	if cmd.Flags().Changed("due") {
		patch.DueDateSet = true
		if dueDate != "" {
			parsed, err := time.Parse(time.RFC3339, dueDate)
			if err != nil {
				return domain.FieldPatch{}, fmt.Errorf("invalid due date: %w", err)
			}
			patch.DueDate = &parsed
		}
	}
	if cmd.Flags().Changed("assignees") {
		patch.AssigneeIDs = assignees
	}
	if cmd.Flags().Changed("labels") {
		patch.LabelIDs = labels
	}

	return patch, nil
}

func printBundle(cmd *cobra.Command, bundle domain.EditorBundle, draft domain.Draft) {
	task := bundle.Task
	cmd.Printf("%s  [%s/%s]  v%d\n", task.Title, task.Priority, task.Status, task.Version)
	if task.Description != nil {
		cmd.Printf("  %s\n", *task.Description)
	}
	if task.DueDate != nil {
		cmd.Printf("  due: %s\n", task.DueDate.Format(time.RFC3339))
	}
	cmd.Printf("  assignees: %s\n", strings.Join(draft.AssigneeIDs, ", "))
	cmd.Printf("  labels:    %s\n", strings.Join(draft.LabelIDs, ", "))
	cmd.Printf("  reminders: %d, attachments: %d\n", len(draft.Reminders), len(task.Attachments))
	for _, attachment := range task.Attachments {
		cmd.Printf("    [%s] %s\n", attachment.ID, attachment.FileName)
	}
	visible, hidden := draft.VisibleSubtasks(false)
	cmd.Printf("  subtasks (%d):\n", len(visible)+hidden)
	for _, subtask := range visible {
		cmd.Printf("    [%s] %s (%s)\n", subtask.ID, subtask.Title, subtask.Status)
	}
	cmd.Printf("  pickable users: %d, pickable labels: %d\n", len(bundle.AvailableUsers), len(bundle.AvailableLabels))
}
