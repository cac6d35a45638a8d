package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
)

// Seed is the dev fixture: just enough of the team/project graph for
// the editor's option sets to be non-trivial.
type Seed struct {
	Users    []SeedUser    `yaml:"users"`
	Teams    []SeedTeam    `yaml:"teams"`
	Projects []SeedProject `yaml:"projects"`
	Labels   []SeedLabel   `yaml:"labels"`
	Tasks    []SeedTask    `yaml:"tasks"`
}

type SeedUser struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type SeedTeam struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

type SeedProject struct {
	ID      string   `yaml:"id"`
	TeamID  string   `yaml:"team_id"`
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

type SeedLabel struct {
	ID     string  `yaml:"id"`
	TeamID *string `yaml:"team_id"`
	Name   string  `yaml:"name"`
	Color  *string `yaml:"color"`
}

type SeedTask struct {
	ID           string         `yaml:"id"`
	ParentTaskID *string        `yaml:"parent_task_id"`
	ProjectID    *string        `yaml:"project_id"`
	CreatorID    string         `yaml:"creator_id"`
	Title        string         `yaml:"title"`
	Description  *string        `yaml:"description"`
	Priority     string         `yaml:"priority"`
	Status       string         `yaml:"status"`
	DueDate      *string        `yaml:"due_date"`
	Assignees    []string       `yaml:"assignees"`
	Labels       []string       `yaml:"labels"`
	Reminders    []SeedReminder `yaml:"reminders"`
}

type SeedReminder struct {
	ID       string `yaml:"id"`
	RemindAt string `yaml:"remind_at"`
	Channel  string `yaml:"channel"`
}

func LoadSeed(path string) (Seed, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

// Apply inserts the fixture. Rows that already exist are left alone so
// re-running a dev server against a seeded database is harmless.
func (s Seed) Apply(ctx context.Context, db *sqlx.DB) error {
	for _, user := range s.Users {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO users (id, name, email) VALUES (?, ?, ?)",
			user.ID, user.Name, user.Email,
		); err != nil {
			return err
		}
	}

	for _, team := range s.Teams {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO teams (id, name) VALUES (?, ?)", team.ID, team.Name,
		); err != nil {
			return err
		}
		for _, member := range team.Members {
			if _, err := db.ExecContext(ctx,
				"INSERT IGNORE INTO team_members (team_id, user_id) VALUES (?, ?)", team.ID, member,
			); err != nil {
				return err
			}
		}
	}

	for _, project := range s.Projects {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO projects (id, team_id, name) VALUES (?, ?, ?)",
			project.ID, project.TeamID, project.Name,
		); err != nil {
			return err
		}
		for _, member := range project.Members {
			if _, err := db.ExecContext(ctx,
				"INSERT IGNORE INTO project_members (project_id, user_id) VALUES (?, ?)", project.ID, member,
			); err != nil {
				return err
			}
		}
	}

	for _, label := range s.Labels {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO labels (id, team_id, name, color) VALUES (?, ?, ?, ?)",
			label.ID, label.TeamID, label.Name, label.Color,
		); err != nil {
			return err
		}
	}

	for _, task := range s.Tasks {
		var dueDate *time.Time
		if task.DueDate != nil {
			parsed, err := time.Parse(time.RFC3339, *task.DueDate)
			if err != nil {
				return fmt.Errorf("seed task %s: bad due_date: %w", task.ID, err)
			}
			dueDate = &parsed
		}

		if _, err := db.ExecContext(ctx, `
INSERT IGNORE INTO tasks (id, parent_task_id, project_id, creator_id, title, description,
                          priority, status, due_date, version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, NOW(), NOW());`,
			task.ID, task.ParentTaskID, task.ProjectID, task.CreatorID, task.Title,
			task.Description, task.Priority, task.Status, dueDate,
		); err != nil {
			return err
		}

		for _, assignee := range task.Assignees {
			if _, err := db.ExecContext(ctx,
				"INSERT IGNORE INTO task_assignments (task_id, user_id) VALUES (?, ?)", task.ID, assignee,
			); err != nil {
				return err
			}
		}
		for _, label := range task.Labels {
			if _, err := db.ExecContext(ctx,
				"INSERT IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)", task.ID, label,
			); err != nil {
				return err
			}
		}
		for _, reminder := range task.Reminders {
			remindAt, err := time.Parse(time.RFC3339, reminder.RemindAt)
			if err != nil {
				return fmt.Errorf("seed task %s: bad remind_at: %w", task.ID, err)
			}
			if _, err := db.ExecContext(ctx,
				"INSERT IGNORE INTO reminders (id, task_id, remind_at, channel) VALUES (?, ?, ?, ?)",
				reminder.ID, task.ID, remindAt, reminder.Channel,
			); err != nil {
				return err
			}
		}
	}

	return nil
}
