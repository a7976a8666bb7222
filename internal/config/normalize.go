package config

// clampInt bounds v to [lo, hi], substituting def when v is zero (unset).
func clampInt(v, lo, hi, def int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize fills unset values with defaults and clamps out-of-range values
// to their bounds. It runs before Validate, so Validate only has to reject
// what clamping cannot fix.
func Normalize(cfg *Config) {
	def := Default()

	cfg.PollMs = clampInt(cfg.PollMs, 5, 1000, def.PollMs)
	cfg.SaveIntervalMs = clampInt(cfg.SaveIntervalMs, 1000, 60000, def.SaveIntervalMs)
	cfg.CounterDebounceMs = clampInt(cfg.CounterDebounceMs, 10, 500, def.CounterDebounceMs)
	cfg.LatchDebounceMs = clampInt(cfg.LatchDebounceMs, 100, 500, def.LatchDebounceMs)
	cfg.DiagnosticDebounceMs = clampInt(cfg.DiagnosticDebounceMs, 50, 500, def.DiagnosticDebounceMs)
	cfg.MaxCount = clampInt(cfg.MaxCount, 100, 99999, def.MaxCount)
	cfg.StatusDurationMs = clampInt(cfg.StatusDurationMs, 1000, 10000, def.StatusDurationMs)

	if cfg.Broker == "" {
		cfg.Broker = def.Broker
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.PinCounter == 0 {
		cfg.PinCounter = def.PinCounter
	}
	if cfg.PinLatch == 0 {
		cfg.PinLatch = def.PinLatch
	}
	if cfg.PinDiagnostic == 0 {
		cfg.PinDiagnostic = def.PinDiagnostic
	}
}
