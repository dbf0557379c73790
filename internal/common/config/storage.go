package config

const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeDB     = "db"
)

type (
	// StorageConfig selects and configures the indexed store backend
	StorageConfig struct {
		Type     string         `yaml:"type"`     // memory, redis or db
		Redis    RedisConfig    `yaml:"redis"`    // used when type is redis
		Database DatabaseConfig `yaml:"database"` // used when type is db
	}

	// RedisConfig represents the Redis connection used by the redis backend
	RedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"` // key prefix, e.g. "sdctrack:"
	}
)
