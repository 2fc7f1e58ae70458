package config

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress        string
	JWTSecret         string
	DemoPassword      string
	KafkaBrokers      []string
	KafkaTopic        string
	DispatchInterval  time.Duration
	DispatchBatchSize int
}

// New reads flags, then lets environment variables override them. A .env
// file in the working directory is loaded first if present.
func New() *Config {
	return Load(flag.CommandLine, os.Args[1:])
}

func Load(flags *flag.FlagSet, args []string) *Config {
	loadDotEnv(".env")

	cfg := &Config{}
	var brokers string

	flags.StringVar(&cfg.RunAddress, "a", "localhost:8080", "server address and port")
	flags.StringVar(&cfg.JWTSecret, "s", "super-secret-jwt-key", "jwt signing key")
	flags.StringVar(&cfg.DemoPassword, "p", "ecoshop", "password shared by the demo users")
	flags.StringVar(&brokers, "k", "", "comma-separated kafka brokers, empty to log events instead")
	flags.StringVar(&cfg.KafkaTopic, "t", "ecoshop.events", "kafka topic for domain events")
	flags.DurationVar(&cfg.DispatchInterval, "i", 5*time.Second, "event dispatch interval")
	flags.IntVar(&cfg.DispatchBatchSize, "b", 50, "event dispatch batch size")
	_ = flags.Parse(args)

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.DemoPassword = getEnv("DEMO_PASSWORD", cfg.DemoPassword)
	brokers = getEnv("KAFKA_BROKERS", brokers)
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.DispatchInterval = getEnvDuration("DISPATCH_INTERVAL", cfg.DispatchInterval)
	cfg.DispatchBatchSize = getEnvInt("DISPATCH_BATCH_SIZE", cfg.DispatchBatchSize)

	cfg.KafkaBrokers = splitList(brokers)

	return cfg
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring invalid integer", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", value)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
