package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		build       func() (Frame, error)
		checkFields func(t *testing.T, cmd Command)
	}{
		{
			name:  "off",
			build: Off,
			checkFields: func(t *testing.T, cmd Command) {
				if cmd != (Command{}) {
					t.Errorf("Off() decodes to %v, want all none", cmd)
				}
			},
		},
		{
			name:  "steady",
			build: func() (Frame, error) { return Steady(ColorAmber, IntensityLow) },
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{Color1: ColorAmber, Intensity1: IntensityLow, Animation: AnimationSteady}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
		{
			name:  "flash",
			build: func() (Frame, error) { return Flash(ColorAmber, IntensityHigh, SpeedSlow, PatternStrobe) },
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{Color1: ColorAmber, Animation: AnimationFlash, Speed: SpeedSlow, Pattern: PatternStrobe}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
		{
			name: "two color flash",
			build: func() (Frame, error) {
				return TwoColorFlash(ColorYellow, IntensityHigh, ColorBlue, IntensityMedium, SpeedFast, PatternThreePulse)
			},
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{
					Color1: ColorYellow, Animation: AnimationTwoColorFlash, Speed: SpeedFast,
					Pattern: PatternThreePulse, Color2: ColorBlue, Intensity2: IntensityMedium,
				}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
		{
			name:  "half half",
			build: func() (Frame, error) { return HalfHalf(ColorSpringGreen, IntensityHigh, ColorMagenta, IntensityHigh) },
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{Color1: ColorSpringGreen, Animation: AnimationHalfHalf, Color2: ColorMagenta}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
		{
			name: "half half rotate",
			build: func() (Frame, error) {
				return HalfHalfRotate(ColorRed, IntensityHigh, ColorWhite, IntensityLow, SpeedFast, RotationClockwise)
			},
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{
					Color1: ColorRed, Animation: AnimationHalfHalfRotate, Speed: SpeedFast,
					Color2: ColorWhite, Intensity2: IntensityLow, Rotation: RotationClockwise,
				}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
		{
			name: "chase",
			build: func() (Frame, error) {
				return Chase(ColorSkyBlue, IntensityHigh, ColorRose, IntensityOff, SpeedSlow, RotationCounterClockwise)
			},
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{
					Color1: ColorSkyBlue, Animation: AnimationChase, Speed: SpeedSlow,
					Color2: ColorRose, Intensity2: IntensityOff,
				}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
		{
			name:  "intensity sweep",
			build: func() (Frame, error) { return IntensitySweep(ColorViolet, IntensityMedium, SpeedFast) },
			checkFields: func(t *testing.T, cmd Command) {
				want := Command{Color1: ColorViolet, Intensity1: IntensityMedium, Animation: AnimationIntensitySweep, Speed: SpeedFast}
				if cmd != want {
					t.Errorf("got %v, want %v", cmd, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.build()
			if err != nil {
				t.Fatalf("build error = %v", err)
			}
			cmd, err := f.Decode()
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			tt.checkFields(t, cmd)
		})
	}
}

func TestOff_ClearsPackedBytes(t *testing.T) {
	f, err := Off()
	if err != nil {
		t.Fatalf("Off() error = %v", err)
	}
	for _, i := range []int{5, 6, 7, 35} {
		if f[i] != 0x00 {
			t.Errorf("byte %d = 0x%02x, want 0x00", i, f[i])
		}
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConstructor_RejectsUndefinedValues(t *testing.T) {
	if _, err := Steady(Color(14), IntensityHigh); !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("Steady(14) error = %v, want ErrInvalidFieldValue", err)
	}
	if _, err := Flash(ColorRed, IntensityHigh, Speed(9), PatternNormal); !errors.Is(err, ErrFieldOutOfRange) {
		t.Errorf("Flash(speed 9) error = %v, want ErrFieldOutOfRange", err)
	}
}

func TestLookupMode(t *testing.T) {
	tests := []struct {
		name   string
		want   Animation
		fields int
		ok     bool
	}{
		{"off", AnimationOff, 0, true},
		{"steady", AnimationSteady, 2, true},
		{"flash", AnimationFlash, 4, true},
		{"two-color-flash", AnimationTwoColorFlash, 6, true},
		{"two_color_flash", AnimationTwoColorFlash, 6, true},
		{"Half Half", AnimationHalfHalf, 4, true},
		{"half-half-rotate", AnimationHalfHalfRotate, 6, true},
		{"chase", AnimationChase, 6, true},
		{"intensity-sweep", AnimationIntensitySweep, 3, true},
		{"strobe", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := LookupMode(tt.name)
			if ok != tt.ok {
				t.Fatalf("LookupMode(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if !ok {
				return
			}
			if m.Animation != tt.want {
				t.Errorf("Animation = %v, want %v", m.Animation, tt.want)
			}
			if len(m.Fields) != tt.fields {
				t.Errorf("len(Fields) = %d, want %d", len(m.Fields), tt.fields)
			}
		})
	}
}

func TestModes_Ordered(t *testing.T) {
	modes := Modes()
	if len(modes) != 8 {
		t.Fatalf("len(Modes()) = %d, want 8", len(modes))
	}
	for i, m := range modes {
		if m.Animation != Animation(i) {
			t.Errorf("Modes()[%d] = %s (%v), want animation %d", i, m.Name, m.Animation, i)
		}
	}
}

func TestMode_Command(t *testing.T) {
	chase, _ := LookupMode("chase")

	cmd, err := chase.Command([]string{"spring-green", "high", "Magenta", "low", "slow", "counter_clockwise"})
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	want := ChaseCommand(ColorSpringGreen, IntensityHigh, ColorMagenta, IntensityLow, SpeedSlow, RotationCounterClockwise)
	if cmd != want {
		t.Errorf("Command() = %v, want %v", cmd, want)
	}

	if _, err := chase.Command([]string{"purple", "high", "magenta", "low", "slow", "clockwise"}); !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("Command(purple) error = %v, want ErrInvalidFieldValue", err)
	}

	_, err = chase.Command([]string{"green"})
	if err == nil || !strings.Contains(err.Error(), "takes 6 values") {
		t.Errorf("Command(short) error = %v, want arity error", err)
	}

	if got := chase.Usage(); got != "<color1> <intensity1> <color2> <intensity2> <speed> <rotation>" {
		t.Errorf("Usage() = %q", got)
	}
}

func TestMode_CommandFromFields(t *testing.T) {
	steady, _ := LookupMode("steady")

	tests := []struct {
		name    string
		values  map[string]string
		want    Command
		wantErr string
	}{
		{
			name:   "complete",
			values: map[string]string{"color1": "blue", "intensity1": "high"},
			want:   SteadyCommand(ColorBlue, IntensityHigh),
		},
		{
			name:    "missing field",
			values:  map[string]string{"color1": "blue"},
			wantErr: `requires field "intensity1"`,
		},
		{
			name:    "unused field",
			values:  map[string]string{"color1": "blue", "intensity1": "high", "speed": "fast"},
			wantErr: `does not use field "speed"`,
		},
		{
			name:    "undefined value",
			values:  map[string]string{"color1": "teal", "intensity1": "high"},
			wantErr: "invalid field value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := steady.CommandFromFields(tt.values)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
