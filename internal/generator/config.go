package generator

// Config drives the synthetic identity generator.
type Config struct {
	Count          int
	SummaryChance  float64
	ExplicitURLPct float64
	Seed           int64
}

// DefaultConfig returns settings suitable for local load testing.
func DefaultConfig() Config {
	return Config{
		Count:          1000,
		SummaryChance:  0.5,
		ExplicitURLPct: 0.1,
		Seed:           42,
	}
}
