package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const seedFixture = `
users:
  - id: u-1
    name: Amelia
    email: amelia@example.com
  - id: u-2
    name: Bruno
    email: bruno@example.com

teams:
  - id: t-core
    name: Core
    members: [u-1, u-2]

projects:
  - id: p-launch
    team_id: t-core
    name: Launch
    members: [u-1]

labels:
  - id: l-urgent
    team_id: t-core
    name: urgent
    color: "#ff5722"
  - id: l-global
    name: global

tasks:
  - id: task-landing
    project_id: p-launch
    creator_id: u-1
    title: Landing page
    priority: P2
    status: open
    due_date: 2026-09-15T17:00:00Z
    assignees: [u-2]
    labels: [l-urgent]
    reminders:
      - id: rem-1
        remind_at: 2026-09-14T17:00:00Z
        channel: email
  - id: task-landing-hero
    parent_task_id: task-landing
    project_id: p-launch
    creator_id: u-1
    title: Hero section
    priority: P3
    status: open
`

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedFixture), 0644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	require.Len(t, seed.Users, 2)
	require.Equal(t, "amelia@example.com", seed.Users[0].Email)

	require.Len(t, seed.Teams, 1)
	require.Equal(t, []string{"u-1", "u-2"}, seed.Teams[0].Members)

	require.Len(t, seed.Projects, 1)
	require.Equal(t, "t-core", seed.Projects[0].TeamID)

	require.Len(t, seed.Labels, 2)
	require.Equal(t, "t-core", *seed.Labels[0].TeamID)
	require.Equal(t, "#ff5722", *seed.Labels[0].Color)
	require.Nil(t, seed.Labels[1].TeamID)

	require.Len(t, seed.Tasks, 2)
	require.Equal(t, "2026-09-15T17:00:00Z", *seed.Tasks[0].DueDate)
	require.Equal(t, []string{"u-2"}, seed.Tasks[0].Assignees)
	require.Len(t, seed.Tasks[0].Reminders, 1)
	require.Equal(t, "email", seed.Tasks[0].Reminders[0].Channel)
	require.Equal(t, "task-landing", *seed.Tasks[1].ParentTaskID)
	require.Nil(t, seed.Tasks[1].DueDate)
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadSeed_BadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: {not: [valid"), 0644))

	_, err := LoadSeed(path)
	require.Error(t, err)
}
