package config

import "time"

type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	// Retention is how long published product events stay in the outbox table. Zero keeps them forever.
	Retention time.Duration `env:"RELAY_RETENTION" envDefault:"168h"`
}
