package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverPGX      = "pgx"
	driverMySQL    = "mysql"
	defaultEnvFile = ".env"
)

var (
	errMissingMessageID    = errors.New("-message is required")
	errUnsupportedDriver   = errors.New("unsupported REACTIONS_DRIVER")
	errUnsupportedLogLevel = errors.New("unsupported REACTIONS_LOG_LEVEL")
	errReplicaNeedsPGX     = errors.New("REACTIONS_REPLICA_DSN is only supported with REACTIONS_DRIVER=pgx")
)

// EnvConfig is the connection and observability configuration read from the environment.
type EnvConfig struct {
	Driver          string        `env:"REACTIONS_DRIVER" envDefault:"sqlite"`
	DSN             string        `env:"REACTIONS_DSN" envDefault:"file:reactions.db?_pragma=busy_timeout(5000)"`
	ReplicaDSN      string        `env:"REACTIONS_REPLICA_DSN"`
	Table           string        `env:"REACTIONS_TABLE" envDefault:"reactions"`
	LogLevel        string        `env:"REACTIONS_LOG_LEVEL" envDefault:"warn"`
	OTLPEndpoint    string        `env:"REACTIONS_OTLP_ENDPOINT"`
	Timeout         time.Duration `env:"REACTIONS_TIMEOUT" envDefault:"10s"`
	ConnectAttempts int           `env:"REACTIONS_CONNECT_ATTEMPTS" envDefault:"5"`
}

// Flags selects what to inspect for one message.
type Flags struct {
	EnvFile      string
	MessageID    string
	StableID     string
	SecondaryID  string
	Emoji        string
	Delete       bool
	ReplicaReads bool
}

// Config holds everything one run needs.
type Config struct {
	Env   EnvConfig
	Flags Flags
}

func parseFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("reactions-inspect", flag.ContinueOnError)

	flags := Flags{}
	fs.StringVar(&flags.EnvFile, "env-file", defaultEnvFile, "Optional dotenv file loaded before reading the environment")
	fs.StringVar(&flags.MessageID, "message", "", "Unique message id to inspect (required)")
	fs.StringVar(&flags.StableID, "reactor-stable-id", "", "Look up the reaction of this stable reactor id")
	fs.StringVar(&flags.SecondaryID, "reactor-secondary-id", "", "Look up the reaction of this secondary reactor id")
	fs.StringVar(&flags.Emoji, "emoji", "", "List the reactors of this emoji")
	fs.BoolVar(&flags.Delete, "delete", false, "Delete all reactions of the message after reporting them")
	fs.BoolVar(&flags.ReplicaReads, "replica-reads", false, "Run the reads on REACTIONS_REPLICA_DSN if it is configured")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	if flags.MessageID == "" {
		return Flags{}, errMissingMessageID
	}

	return flags, nil
}

// loadConfig parses the flags, loads the optional dotenv file and reads the environment.
// A missing default dotenv file is not an error, a missing explicit one is.
func loadConfig(args []string) (Config, error) {
	flags, err := parseFlags(args)
	if err != nil {
		return Config{}, err
	}

	if loadErr := godotenv.Load(flags.EnvFile); loadErr != nil {
		if flags.EnvFile != defaultEnvFile || !errors.Is(loadErr, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", flags.EnvFile, loadErr)
		}
	}

	envCfg, err := env.ParseAs[EnvConfig]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := envCfg.validate(); err != nil {
		return Config{}, err
	}

	return Config{Env: envCfg, Flags: flags}, nil
}

func (c EnvConfig) validate() error {
	switch c.Driver {
	case driverSQLite, driverPostgres, driverPGX, driverMySQL:
	default:
		return fmt.Errorf("%w: %s", errUnsupportedDriver, c.Driver)
	}

	if c.ReplicaDSN != "" && c.Driver != driverPGX {
		return fmt.Errorf("%w: got %s", errReplicaNeedsPGX, c.Driver)
	}

	if c.ConnectAttempts <= 0 {
		return fmt.Errorf("%w: REACTIONS_CONNECT_ATTEMPTS", errInvalidMaxAttempts)
	}

	if _, err := c.slogLevel(); err != nil {
		return err
	}

	return nil
}

func (c EnvConfig) slogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %s", errUnsupportedLogLevel, c.LogLevel)
	}
}
