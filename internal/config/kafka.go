package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"catalog-admin"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"catalog-admin"`

	ProduceTimeout time.Duration `env:"KAFKA_PRODUCE_TIMEOUT" envDefault:"10s"`
	// HandlerAttempts is how many times a product event handler runs before the record is skipped.
	HandlerAttempts int `env:"KAFKA_HANDLER_ATTEMPTS" envDefault:"3"`
}
