// Package service installs nudge as a per-user background service: a launchd
// agent on macOS, a systemd user unit elsewhere.
package service

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/joho/godotenv"

	"github.com/chris/nudge/config"
)

const (
	label    = "com.nudge.bot"
	unitName = "nudge.service"
	binName  = "nudge"
)

// Manager drives one service backend.
type Manager struct {
	goos string
	home string
	bin  string
	run  func(name string, args ...string) error
}

func New() *Manager {
	home, _ := os.UserHomeDir()
	return &Manager{goos: runtime.GOOS, home: home, bin: "/usr/local/bin/" + binName, run: runCmd}
}

func (m *Manager) launchd() bool { return m.goos == "darwin" }

// Path of the plist or unit file.
func (m *Manager) Path() string {
	if m.launchd() {
		return filepath.Join(m.home, "Library", "LaunchAgents", label+".plist")
	}
	return filepath.Join(m.home, ".config", "systemd", "user", unitName)
}

func (m *Manager) logPath() string {
	if m.launchd() {
		return filepath.Join(m.home, "Library", "Logs", "nudge.log")
	}
	return filepath.Join(m.home, ".local", "state", "nudge", "nudge.log")
}

// Install copies the binary, seeds the config file from the local env files
// if needed, writes the service definition and loads it.
func (m *Manager) Install() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("resolving symlinks: %w", err)
	}
	input, err := os.ReadFile(exe)
	if err != nil {
		return fmt.Errorf("reading binary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.bin), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(m.bin), err)
	}
	if err := os.WriteFile(m.bin, input, 0755); err != nil {
		return fmt.Errorf("copying binary to %s: %w", m.bin, err)
	}
	fmt.Printf("installed binary to %s\n", m.bin)

	if err := seedConfig(config.File(), ".env", "secrets/keys.env"); err != nil {
		return err
	}

	def, err := m.render(resolveWorkDir())
	if err != nil {
		return fmt.Errorf("generating service definition: %w", err)
	}
	if _, err := os.Stat(m.Path()); err == nil {
		_ = m.unload()
	}
	if err := os.MkdirAll(filepath.Dir(m.Path()), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(m.Path()), err)
	}
	if err := os.MkdirAll(filepath.Dir(m.logPath()), 0755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	if err := os.WriteFile(m.Path(), []byte(def), 0644); err != nil {
		return fmt.Errorf("writing service definition: %w", err)
	}
	fmt.Printf("wrote %s\n", m.Path())

	if err := m.load(); err != nil {
		return fmt.Errorf("loading service: %w", err)
	}
	fmt.Println("service loaded and will start on login")
	return nil
}

// seedConfig merges the given env files into dst unless dst already exists.
// Missing sources are skipped.
func seedConfig(dst string, sources ...string) error {
	if _, err := os.Stat(dst); err == nil {
		fmt.Printf("config already exists at %s\n", dst)
		return nil
	}
	merged := map[string]string{}
	for _, src := range sources {
		vars, err := godotenv.Read(src)
		if err != nil {
			continue
		}
		for k, v := range vars {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := godotenv.Write(merged, dst); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Chmod(dst, 0600); err != nil {
		return fmt.Errorf("restricting config: %w", err)
	}
	fmt.Printf("seeded config -> %s\n", dst)
	return nil
}

// resolveWorkDir keeps relative DATABASE_PATH and COUNTER_FILE values
// pointing where they did when install was run.
func resolveWorkDir() string {
	vars, _ := godotenv.Read(config.File())
	for _, key := range []string{"DATABASE_PATH", "COUNTER_FILE"} {
		if p, ok := vars[key]; ok && !filepath.IsAbs(p) {
			if wd, err := os.Getwd(); err == nil {
				return wd
			}
		}
	}
	return config.Dir()
}

// Uninstall unloads and removes the service definition and the binary.
func (m *Manager) Uninstall() error {
	if _, err := os.Stat(m.Path()); err == nil {
		if err := m.unload(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: unload failed: %v\n", err)
		}
		if err := os.Remove(m.Path()); err != nil {
			return fmt.Errorf("removing service definition: %w", err)
		}
		fmt.Printf("removed %s\n", m.Path())
	} else {
		fmt.Println("service definition not found, skipping")
	}

	if _, err := os.Stat(m.bin); err == nil {
		if err := os.Remove(m.bin); err != nil {
			return fmt.Errorf("removing binary: %w", err)
		}
		fmt.Printf("removed %s\n", m.bin)
	} else {
		fmt.Printf("binary not found at %s, skipping\n", m.bin)
	}

	fmt.Println("uninstalled")
	return nil
}

func (m *Manager) Start() error {
	if m.launchd() {
		return m.run("launchctl", "start", label)
	}
	return m.run("systemctl", "--user", "start", unitName)
}

func (m *Manager) Stop() error {
	if m.launchd() {
		return m.run("launchctl", "stop", label)
	}
	return m.run("systemctl", "--user", "stop", unitName)
}

func (m *Manager) Restart() error {
	_ = m.Stop()
	return m.Start()
}

func (m *Manager) Status() error {
	name, args := "systemctl", []string{"--user", "status", unitName}
	if m.launchd() {
		name, args = "launchctl", []string{"list", label}
	}
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Println("service is not loaded")
	}
	return nil
}

// Logs follows the service log file.
func (m *Manager) Logs() error {
	cmd := exec.Command("tail", "-f", m.logPath())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (m *Manager) load() error {
	if m.launchd() {
		return m.run("launchctl", "load", m.Path())
	}
	if err := m.run("systemctl", "--user", "daemon-reload"); err != nil {
		return err
	}
	return m.run("systemctl", "--user", "enable", "--now", unitName)
}

func (m *Manager) unload() error {
	if m.launchd() {
		return m.run("launchctl", "unload", m.Path())
	}
	return m.run("systemctl", "--user", "disable", "--now", unitName)
}

func runCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %s", name, strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.Log}}</string>
	<key>StandardErrorPath</key>
	<string>{{.Log}}</string>
</dict>
</plist>
`))

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=nudge Telegram reminder bot
After=network-online.target

[Service]
ExecStart={{.BinPath}} run
WorkingDirectory={{.WorkDir}}
Restart=always
RestartSec=5
StandardOutput=append:{{.Log}}
StandardError=append:{{.Log}}

[Install]
WantedBy=default.target
`))

type definition struct {
	Label   string
	BinPath string
	WorkDir string
	Log     string
}

func (m *Manager) render(workDir string) (string, error) {
	tmpl := unitTemplate
	if m.launchd() {
		tmpl = plistTemplate
	}
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, definition{
		Label:   label,
		BinPath: m.bin,
		WorkDir: workDir,
		Log:     m.logPath(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
