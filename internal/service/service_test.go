package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
)

func testManager(goos string, calls *[]string) *Manager {
	return &Manager{
		goos: goos,
		home: "/home/test",
		bin:  "/usr/local/bin/nudge",
		run: func(name string, args ...string) error {
			*calls = append(*calls, name+" "+strings.Join(args, " "))
			return nil
		},
	}
}

func TestRender_Plist(t *testing.T) {
	m := testManager("darwin", new([]string))
	out, err := m.render("/work")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"<string>com.nudge.bot</string>",
		"<string>/usr/local/bin/nudge</string>",
		"<string>run</string>",
		"<string>/work</string>",
		"/home/test/Library/Logs/nudge.log",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plist missing %q", want)
		}
	}
	if got := m.Path(); got != "/home/test/Library/LaunchAgents/com.nudge.bot.plist" {
		t.Errorf("Path() = %q", got)
	}
}

func TestRender_Unit(t *testing.T) {
	m := testManager("linux", new([]string))
	out, err := m.render("/work")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"ExecStart=/usr/local/bin/nudge run",
		"WorkingDirectory=/work",
		"StandardOutput=append:/home/test/.local/state/nudge/nudge.log",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("unit missing %q", want)
		}
	}
	if got := m.Path(); got != "/home/test/.config/systemd/user/nudge.service" {
		t.Errorf("Path() = %q", got)
	}
}

func TestStartStop_Commands(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"launchctl stop com.nudge.bot", "launchctl start com.nudge.bot"}},
		{"linux", []string{"systemctl --user stop nudge.service", "systemctl --user start nudge.service"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var calls []string
			m := testManager(tt.goos, &calls)
			if err := m.Restart(); err != nil {
				t.Fatalf("Restart: %v", err)
			}
			if strings.Join(calls, "|") != strings.Join(tt.want, "|") {
				t.Errorf("calls = %q, want %q", calls, tt.want)
			}
		})
	}
}

func TestSeedConfig_MergesSources(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	keys := filepath.Join(dir, "keys.env")
	dst := filepath.Join(dir, "nudge", "config")

	if err := os.WriteFile(env, []byte("USER_ID=1\nLOG_LEVEL=debug\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keys, []byte("TELEGRAM_TOKEN=abc\nLOG_LEVEL=warn\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := seedConfig(dst, env, keys, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("seedConfig: %v", err)
	}
	got, err := godotenv.Read(dst)
	if err != nil {
		t.Fatalf("reading seeded config: %v", err)
	}
	if got["USER_ID"] != "1" || got["TELEGRAM_TOKEN"] != "abc" {
		t.Errorf("seeded = %v", got)
	}
	if got["LOG_LEVEL"] != "debug" {
		t.Errorf("LOG_LEVEL = %q, want first source to win", got["LOG_LEVEL"])
	}
}

func TestSeedConfig_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	dst := filepath.Join(dir, "config")
	if err := os.WriteFile(env, []byte("USER_ID=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("USER_ID=2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := seedConfig(dst, env); err != nil {
		t.Fatalf("seedConfig: %v", err)
	}
	got, _ := godotenv.Read(dst)
	if got["USER_ID"] != "2" {
		t.Errorf("existing config overwritten: %v", got)
	}
}
