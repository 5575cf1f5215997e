// Command reactions-inspect prints the reactions of one message as JSON and can delete them.
//
// Connection settings come from the environment (optionally from a dotenv file):
//
//	REACTIONS_DRIVER            sqlite (default), postgres, pgx or mysql
//	REACTIONS_DSN               data source name for the driver
//	REACTIONS_REPLICA_DSN       optional read replica, pgx only, used with -replica-reads
//	REACTIONS_TABLE             reactions table name, default "reactions"
//	REACTIONS_LOG_LEVEL         debug, info, warn (default) or error
//	REACTIONS_OTLP_ENDPOINT     optional OTLP gRPC endpoint for traces and metrics
//	REACTIONS_TIMEOUT           overall timeout, default 10s
//	REACTIONS_CONNECT_ATTEMPTS  connection attempts with exponential backoff, default 5
//
// Usage:
//
//	reactions-inspect -message <id> [-reactor-stable-id <id>] [-reactor-secondary-id <id>] [-emoji <emoji>] [-delete] [-replica-reads]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("reactions-inspect failed: %v", err)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Env.Timeout)
	defer cancel()

	obs, err := newObservability(ctx, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if shutdownErr := obs.shutdown(shutdownCtx); shutdownErr != nil {
			obs.logger.Warn("observability shutdown failed", "error", shutdownErr.Error())
		}
	}()

	var db *database
	err = retryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var openErr error
			db, openErr = openDatabase(ctx, cfg.Env)
			return openErr
		},
		withMaxAttempts(cfg.Env.ConnectAttempts),
		withRetryHook(func(attempt int, delay time.Duration, err error) {
			obs.logger.Warn("retrying database connection", "attempt", attempt, "delay_ms", delay.Milliseconds(), "error", err.Error())
		}),
	)
	if err != nil {
		return err
	}
	defer db.close()

	options := append([]sqlengine.Option{
		sqlengine.WithDialect(db.dialect),
		sqlengine.WithTableName(cfg.Env.Table),
	}, obs.options...)

	query, err := sqlengine.NewReactionQuery(cfg.Flags.MessageID, options...)
	if err != nil {
		return fmt.Errorf("create reaction query: %w", err)
	}

	report, err := inspect(ctx, db.txManager, query, cfg.Flags)
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, report)
}
