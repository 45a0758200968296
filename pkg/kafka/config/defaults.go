package kafka_config

import "time"

const (
	DefaultKafkaTopic = "laptoploan.reservations"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = true
	DefaultPublishTimeout       = 5 * time.Second

	DefaultEnableMiddleware = true
)
