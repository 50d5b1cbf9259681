package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress  string
	LogLevel       string
	PostgresConn   string
	MigrationsPath string
	Redis          RedisConfig
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	KeyPrefix     string
	BidStreamKey  string
	CurrentBidTTL time.Duration
}

// Load reads configuration from command-line flags, falling back to
// environment variables with the KISAN_ prefix (flag "server-address"
// becomes KISAN_SERVER_ADDRESS).
func Load() Config {
	// server config
	pflag.String("server-address", "0.0.0.0:8080", "")
	pflag.String("log-level", "info", "")

	// db config
	pflag.String("postgres-conn", "", "")
	pflag.String("migrations-path", "file://migrations", "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 0, "")
	pflag.String("redis-key-prefix", "kisan:", "")
	pflag.String("redis-stream-key-for-bids", "kisan-accepted-bids", "")
	pflag.Duration("redis-current-bid-ttl", time.Minute, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("KISAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return Config{
		ServerAddress:  viper.GetString("server-address"),
		LogLevel:       viper.GetString("log-level"),
		PostgresConn:   viper.GetString("postgres-conn"),
		MigrationsPath: viper.GetString("migrations-path"),
		Redis: RedisConfig{
			Addr:          viper.GetString("redis-addr"),
			Password:      viper.GetString("redis-password"),
			DB:            viper.GetInt("redis-db"),
			KeyPrefix:     viper.GetString("redis-key-prefix"),
			BidStreamKey:  viper.GetString("redis-stream-key-for-bids"),
			CurrentBidTTL: viper.GetDuration("redis-current-bid-ttl"),
		},
	}
}

func (c Config) Validate() bool {
	return c.ServerAddress != "" && c.PostgresConn != ""
}
