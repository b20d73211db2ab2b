package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/tl50ctl/internal/protocol"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "tl50ctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'tl50ctl'", configDir)
	}

	if runtime.GOOS == "linux" && configDir != filepath.Join("/tmp/xdg", "tl50ctl") {
		t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME based path", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	if c.Version != 1 {
		t.Errorf("Version = %d, want 1", c.Version)
	}
	if c.Baud != 19200 {
		t.Errorf("Baud = %d, want 19200", c.Baud)
	}
	if c.SettleDelay() != 90*time.Millisecond {
		t.Errorf("SettleDelay() = %v, want 90ms", c.SettleDelay())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	for _, name := range []string{"off", "ok", "warning", "alarm"} {
		if _, err := c.Preset(name); err != nil {
			t.Errorf("Preset(%q) error = %v", name, err)
		}
	}

	demo, err := c.Sequence("demo")
	if err != nil {
		t.Fatalf("Sequence(demo) error = %v", err)
	}
	if len(demo.Steps) != 7 {
		t.Errorf("demo has %d steps, want 7", len(demo.Steps))
	}
	last, err := c.StepCommand(demo.Steps[len(demo.Steps)-1])
	if err != nil || last != protocol.OffCommand() {
		t.Errorf("demo last step = %v, %v; want off", last, err)
	}

	blink, err := c.Sequence("blink")
	if err != nil || !blink.Loop {
		t.Errorf("Sequence(blink) = %+v, %v; want looping sequence", blink, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		verify  func(t *testing.T, c *Config)
	}{
		{
			name: "full file",
			yaml: `
version: 1
port: /dev/ttyACM0
baud: 9600
write_delay: 150ms
presets:
  deploy:
    animation: chase
    color1: white
    intensity1: high
    color2: sky-blue
    speed: slow
    rotation: clockwise
sequences:
  release:
    loop: true
    steps:
      - preset: deploy
        hold: 3s
      - command: {animation: steady, color1: green}
        hold: 1s
bridge:
  listen: 127.0.0.1:9000
  advertise: true
`,
			verify: func(t *testing.T, c *Config) {
				if c.Port != "/dev/ttyACM0" || c.Baud != 9600 || c.SettleDelay() != 150*time.Millisecond {
					t.Errorf("serial settings = %s %d %v", c.Port, c.Baud, c.SettleDelay())
				}
				deploy, err := c.Preset("deploy")
				if err != nil {
					t.Fatalf("Preset(deploy) error = %v", err)
				}
				want := protocol.ChaseCommand(protocol.ColorWhite, protocol.IntensityHigh,
					protocol.ColorSkyBlue, protocol.IntensityHigh, protocol.SpeedSlow, protocol.RotationClockwise)
				if deploy != want {
					t.Errorf("deploy = %v, want %v", deploy, want)
				}
				seq, err := c.Sequence("release")
				if err != nil {
					t.Fatalf("Sequence(release) error = %v", err)
				}
				if !seq.Loop || len(seq.Steps) != 2 || seq.Steps[0].Hold != 3*time.Second {
					t.Errorf("release = %+v", seq)
				}
				if !c.Bridge.Advertise || c.Bridge.Listen != "127.0.0.1:9000" {
					t.Errorf("bridge = %+v", c.Bridge)
				}
				if _, err := c.Preset("alarm"); err != nil {
					t.Error("built-in presets should still be available")
				}
			},
		},
		{
			name: "minimal file gets defaults",
			yaml: "version: 1\n",
			verify: func(t *testing.T, c *Config) {
				if c.Port != "/dev/ttyUSB0" || c.Baud != 19200 || c.SettleDelay() != 90*time.Millisecond {
					t.Errorf("defaults not applied: %+v", c)
				}
				if c.Bridge == nil || c.Bridge.Listen != DefaultListen {
					t.Errorf("bridge defaults not applied: %+v", c.Bridge)
				}
			},
		},
		{
			name: "zero write delay is kept",
			yaml: "version: 1\nwrite_delay: 0s\n",
			verify: func(t *testing.T, c *Config) {
				if c.SettleDelay() != 0 {
					t.Errorf("SettleDelay() = %v, want 0", c.SettleDelay())
				}
			},
		},
		{
			name: "file overrides built-in preset",
			yaml: "version: 1\npresets:\n  ok: {animation: steady, color1: blue}\n",
			verify: func(t *testing.T, c *Config) {
				ok, _ := c.Preset("ok")
				if ok.Color1 != protocol.ColorBlue {
					t.Errorf("ok.Color1 = %v, want blue", ok.Color1)
				}
			},
		},
		{
			name:    "unsupported version",
			yaml:    "version: 2\n",
			wantErr: "unsupported config version",
		},
		{
			name:    "unknown color name",
			yaml:    "version: 1\npresets:\n  bad: {animation: steady, color1: teal}\n",
			wantErr: "invalid field value",
		},
		{
			name:    "step references missing preset",
			yaml:    "version: 1\nsequences:\n  s:\n    steps:\n      - preset: nope\n",
			wantErr: `unknown preset "nope"`,
		},
		{
			name:    "step with both preset and command",
			yaml:    "version: 1\nsequences:\n  s:\n    steps:\n      - preset: ok\n        command: {animation: off}\n",
			wantErr: "both preset and command",
		},
		{
			name:    "empty sequence",
			yaml:    "version: 1\nsequences:\n  s:\n    steps: []\n",
			wantErr: "has no steps",
		},
		{
			name:    "negative hold",
			yaml:    "version: 1\nsequences:\n  s:\n    steps:\n      - preset: ok\n        hold: -1s\n",
			wantErr: "hold must not be negative",
		},
		{
			name:    "negative write delay",
			yaml:    "version: 1\nwrite_delay: -5ms\n",
			wantErr: "write_delay must not be negative",
		},
		{
			name:    "malformed yaml",
			yaml:    "version: [1\n",
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.verify(t, c)
		})
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := c.Sequence("demo"); err != nil {
		t.Errorf("defaults missing demo sequence: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := Default()
	c.Port = "/dev/ttyS9"
	c.Presets["night"] = protocol.SteadyCommand(protocol.ColorViolet, protocol.IntensityLow)

	if err := c.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# tl50ctl configuration") {
		t.Error("saved file is missing its header comment")
	}
	if !strings.Contains(string(data), "color1: violet") {
		t.Errorf("saved file should spell values by name:\n%s", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Port != "/dev/ttyS9" {
		t.Errorf("Port = %q, want /dev/ttyS9", loaded.Port)
	}
	night, err := loaded.Preset("night")
	if err != nil || night != c.Presets["night"] {
		t.Errorf("Preset(night) = %v, %v", night, err)
	}
	demo, _ := loaded.Sequence("demo")
	if demo.Steps[0].Hold != 2*time.Second {
		t.Errorf("demo hold = %v, want 2s", demo.Steps[0].Hold)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	c := Default()
	c.Presets["broken"] = protocol.Command{Color1: 0x0f}
	if err := c.Save(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Error("Save() error = nil for invalid preset")
	}
}

func TestStepName(t *testing.T) {
	cmd := protocol.ChaseCommand(protocol.ColorRed, protocol.IntensityHigh, protocol.ColorBlue,
		protocol.IntensityHigh, protocol.SpeedFast, protocol.RotationClockwise)
	tests := []struct {
		step Step
		want string
	}{
		{Step{Name: "custom", Preset: "ok"}, "custom"},
		{Step{Preset: "ok"}, "ok"},
		{Step{Command: &cmd}, "chase"},
	}
	for _, tt := range tests {
		if got := tt.step.StepName(); got != tt.want {
			t.Errorf("StepName() = %q, want %q", got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	c := Default()
	names := c.PresetNames()
	want := []string{"alarm", "off", "ok", "warning"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("PresetNames() = %v, want %v", names, want)
	}
	if got := c.SequenceNames(); strings.Join(got, ",") != "blink,demo" {
		t.Errorf("SequenceNames() = %v", got)
	}
}

func TestSaveAndLoad_ZeroWriteDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c := Default()
	zero := time.Duration(0)
	c.WriteDelay = &zero
	if err := c.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SettleDelay() != 0 {
		t.Errorf("SettleDelay() = %v after reload, want 0", loaded.SettleDelay())
	}
}
