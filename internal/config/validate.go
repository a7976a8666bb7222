package config

import "fmt"

// Validate checks configuration correctness after normalization.
// It is declarative and MUST NOT mutate the configuration.
func Validate(cfg *Config) error {
	if cfg.PinCounter < 0 || cfg.PinLatch < 0 || cfg.PinDiagnostic < 0 {
		return fmt.Errorf("pins must be non-negative: counter=%d latch=%d diagnostic=%d",
			cfg.PinCounter, cfg.PinLatch, cfg.PinDiagnostic)
	}
	if cfg.PinCounter == cfg.PinLatch || cfg.PinCounter == cfg.PinDiagnostic ||
		cfg.PinLatch == cfg.PinDiagnostic {
		return fmt.Errorf("pins must be distinct: counter=%d latch=%d diagnostic=%d",
			cfg.PinCounter, cfg.PinLatch, cfg.PinDiagnostic)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}
