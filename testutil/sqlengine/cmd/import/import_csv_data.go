package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/message-reactions-go/testutil/sqlengine/config"
)

const defaultCSVFile = "testutil/sqlengine/fixtures/reactions.csv"

func main() {
	csvPath := defaultCSVFile
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := ImportCSVData(context.Background(), csvPath); err != nil {
		log.Fatalf("Error importing CSV data: %v", err)
	}
}

// ImportCSVData replaces the content of the reactions table with the fixture CSV, streamed with COPY.
func ImportCSVData(ctx context.Context, csvPath string) error {
	startTime := time.Now()

	fmt.Println("🚀 Starting CSV data import")
	fmt.Printf("📄 Source: %s\n", csvPath)
	fmt.Println()

	csvFile, err := os.Open(filepath.Clean(csvPath))
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() {
		_ = csvFile.Close()
	}()

	fmt.Printf("🔗\tConnecting to database...")
	connPool, err := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolSingleConfig())
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer connPool.Close()
	fmt.Println(" ✅")

	if _, err = connPool.Exec(ctx, config.PostgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	tx, err := connPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // ignored if already committed
	}()

	fmt.Printf("🧹\tClearing existing data...")
	if _, err = tx.Exec(ctx, "TRUNCATE TABLE reactions"); err != nil {
		return fmt.Errorf("failed to truncate table: %w", err)
	}
	fmt.Println(" ✅")

	fmt.Printf("📥\tImporting CSV data...")
	copyStart := time.Now()

	reader := csv.NewReader(csvFile)
	if _, err = reader.Read(); err != nil { // header
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	imported, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"reactions"},
		[]string{
			"unique_row_id",
			"unique_message_id",
			"reactor_stable_id",
			"reactor_secondary_id",
			"emoji",
			"sort_id",
			"is_read",
			"reacted_at_ms",
		},
		pgx.CopyFromFunc(func() ([]any, error) {
			record, readErr := reader.Read()
			if errors.Is(readErr, io.EOF) {
				return nil, nil
			}
			if readErr != nil {
				return nil, readErr
			}

			return toCopyRow(record)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to import CSV: %w", err)
	}
	fmt.Printf(" ✅ %v\n", time.Since(copyStart).Round(time.Millisecond))

	fmt.Printf("📊\tUpdating table statistics...")
	if _, err = tx.Exec(ctx, "ANALYZE reactions"); err != nil {
		return fmt.Errorf("failed to analyze table: %w", err)
	}
	fmt.Println(" ✅")

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	fmt.Println()
	fmt.Printf("Import completed! 🎉\n")
	fmt.Printf("Total reactions imported: %d 📊\n", imported)
	fmt.Printf("Total time: %v ⏱️\n", time.Since(startTime).Round(time.Millisecond))

	return nil
}

// toCopyRow converts one CSV record into COPY values. Empty reactor ids become NULL.
func toCopyRow(record []string) ([]any, error) {
	if len(record) != 8 {
		return nil, fmt.Errorf("expected 8 columns, got %d", len(record))
	}

	sortID, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid sort_id %q: %w", record[5], err)
	}

	isRead, err := strconv.ParseBool(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid is_read %q: %w", record[6], err)
	}

	reactedAtMS, err := strconv.ParseInt(record[7], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid reacted_at_ms %q: %w", record[7], err)
	}

	return []any{
		record[0],
		record[1],
		nullable(record[2]),
		nullable(record[3]),
		record[4],
		sortID,
		isRead,
		reactedAtMS,
	}, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}

	return value
}
