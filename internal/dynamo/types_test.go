package dynamo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
		{State{}, 0.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	if a[0] != 1 || b[0] != 4 {
		t.Errorf("arithmetic mutated operands: a=%v b=%v", a, b)
	}
}

func TestState_String(t *testing.T) {
	if got := (State{1, -2.5, 0}).String(); got != "(1, -2.5, 0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
	if cfg.Tolerance.Rel <= 0 || cfg.Tolerance.Abs <= 0 {
		t.Error("DefaultConfig has invalid Tolerance")
	}
	if cfg.MaxStep < cfg.MinStep {
		t.Error("DefaultConfig has MaxStep < MinStep")
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{MaxStep: 0.2}.WithDefaults()
	if cfg.MaxStep != 0.2 {
		t.Errorf("WithDefaults overwrote MaxStep: %v", cfg.MaxStep)
	}
	if cfg.Tolerance != DefaultConfig().Tolerance {
		t.Errorf("WithDefaults did not fill tolerance: %+v", cfg.Tolerance)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"negative tolerance", func(c *Config) { c.Tolerance.Abs = -1 }, "tolerance"},
		{"zero tolerance", func(c *Config) { c.Tolerance = Tolerance{} }, "tolerance"},
		{"zero min step", func(c *Config) { c.MinStep = 0 }, "min_step"},
		{"max below min", func(c *Config) { c.MaxStep = c.MinStep / 2 }, "max_step"},
		{"zero fixed step", func(c *Config) { c.FixedStep = 0 }, "fixed_step"},
		{"zero max steps", func(c *Config) { c.MaxSteps = 0 }, "max_steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestNumericalError(t *testing.T) {
	err := &NumericalError{Index: 2, Initial: State{1, 1, 1}, Step: 150, Time: 1.5, Wrapped: ErrStepTooSmall}

	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("NumericalError does not unwrap to its cause")
	}
	msg := err.Error()
	for _, want := range []string{"trajectory 2", "(1, 1, 1)", "step 150", "t=1.5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestValidationError(t *testing.T) {
	err := Invalid("samples", "must be positive, got %d", 0)
	if err.Error() != "invalid samples: must be positive, got 0" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError does not unwrap to ErrValidation")
	}
}
