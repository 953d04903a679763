package main

import (
	"path/filepath"
	"testing"
	"time"

	"netdo/internal/tasks"
	"netdo/internal/testsupport"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			src := setupCLITestEnv(t)
			due := time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC)
			seeded := []tasks.Task{
				{ID: "one", Title: "Buy milk", Category: "errands", Priority: tasks.PriorityHigh, NetworkTrigger: tasks.TriggerHome, DueDate: &due},
				{ID: "two", Title: "Stretch", Description: "ten minutes", Category: "health", Priority: tasks.PriorityLow, Completed: true},
			}
			testsupport.SeedTasks(t, src.cfg, seeded)

			target := filepath.Join(t.TempDir(), "tasks"+ext)
			out := mustRunCLI(t, src, "export", "--output", target)
			requireContains(t, out, "Exported 2 tasks")

			dst := setupCLITestEnv(t)
			out = mustRunCLI(t, dst, "import", target)
			requireContains(t, out, "Imported 2 tasks")

			got := listTasksJSON(t, dst, "--status", "all")
			if len(got) != 2 {
				t.Fatalf("expected 2 tasks, got %+v", got)
			}
			byID := map[string]tasks.Task{}
			for _, task := range got {
				byID[task.ID] = task
			}
			one := byID["one"]
			if one.Title != "Buy milk" || one.NetworkTrigger != tasks.TriggerHome || one.DueDate == nil || !one.DueDate.Equal(due) {
				t.Fatalf("unexpected imported task %+v", one)
			}
			two := byID["two"]
			if two.Description != "ten minutes" || !two.Completed {
				t.Fatalf("unexpected imported task %+v", two)
			}
		})
	}
}

func TestExportToStdoutAsYAML(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedTasks(t, env.cfg, []tasks.Task{
		{ID: "one", Title: "Buy milk", Category: "general", Priority: tasks.PriorityMedium},
	})

	out := mustRunCLI(t, env, "export", "--format", "yaml")
	requireContains(t, out, "title: Buy milk")
	requireContains(t, out, "priority: medium")
}

func TestImportRejectsDuplicateIDs(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(t.TempDir(), "dupes.json")
	content := `[{"id":"x","title":"A","category":"general","priority":"low","completed":false},
{"id":"x","title":"B","category":"general","priority":"low","completed":false}]`
	testsupport.WriteFile(t, path, content)
	if _, _, err := runCLI(t, []string{"import", path}, env.configPath); err == nil {
		t.Fatal("expected duplicate ids to be rejected")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		explicit, path, want string
		wantErr              bool
	}{
		{"", "", formatJSON, false},
		{"", "tasks.yml", formatYAML, false},
		{"", "tasks.YAML", formatYAML, false},
		{"json", "tasks.yaml", formatJSON, false},
		{"yml", "", formatYAML, false},
		{"xml", "", "", true},
	}
	for _, tc := range tests {
		got, err := resolveFormat(tc.explicit, tc.path)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("resolveFormat(%q, %q): expected error", tc.explicit, tc.path)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("resolveFormat(%q, %q) = %q, %v; want %q", tc.explicit, tc.path, got, err, tc.want)
		}
	}
}
