package redis

import "os"

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	Group         string
	ConsumerName  string
}

// NewRedisStreamConfig fills in sensible defaults so a bare worker can run
// against a local Redis: addr falls back to localhost:6379 and the consumer
// name falls back to the hostname, which keeps names unique per replica.
func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, group string, consumerName string) *RedisStreamConfig {
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	if consumerName == "" {
		if host, err := os.Hostname(); err == nil {
			consumerName = host
		} else {
			consumerName = "report-worker"
		}
	}

	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		Group:         group,
		ConsumerName:  consumerName,
	}
}
