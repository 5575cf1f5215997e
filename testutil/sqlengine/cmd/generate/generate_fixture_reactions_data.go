package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	thousand = 1000
	million  = thousand * thousand

	// NumMessages - number of messages that get reactions - adapt as needed.
	NumMessages = 100 * thousand

	// MaxReactionsPerMessage - each message gets between 0 and this many reactions.
	MaxReactionsPerMessage = 40

	// Seed makes the generated data reproducible.
	Seed = 42

	// OutputDir - the directory to put the fixture data into - don't change.
	OutputDir = "testutil/sqlengine/fixtures"

	// OutputCSVFile - the CSV file to put the fixture data into - don't change.
	OutputCSVFile = "reactions.csv"
)

// CSVHeader is the column order of the fixture file, matching the reactions table.
var CSVHeader = []string{
	"unique_row_id",
	"unique_message_id",
	"reactor_stable_id",
	"reactor_secondary_id",
	"emoji",
	"sort_id",
	"is_read",
	"reacted_at_ms",
}

var emojis = []string{"👍", "❤️", "😂", "😮", "😢", "🙏", "🎉", "🔥"}

func main() {
	if err := GenerateFixtureData(); err != nil {
		panic(fmt.Sprintf("Error generating fixture data: %v\n", err))
	}
}

func GenerateFixtureData() error {
	startTime := time.Now()

	fmt.Println("🚀 Starting reaction fixture generation")
	fmt.Printf("📊 Messages: %s, up to %d reactions each\n", formatNumber(NumMessages), MaxReactionsPerMessage)

	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	outputDir := filepath.Join(projectRoot, OutputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	csvPath := filepath.Join(outputDir, OutputCSVFile)
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() {
		_ = csvFile.Close()
	}()

	count, err := writeReactions(csvFile, rand.New(rand.NewPCG(Seed, Seed)), NumMessages, MaxReactionsPerMessage)
	if err != nil {
		return err
	}

	fmt.Printf("Fixture generation completed! 🎉\n")
	fmt.Printf("Total reactions generated: %s 📊\n", formatNumber(count))
	fmt.Printf("Total time: %v ⏱️\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("CSV file: %s\n", csvPath)

	return nil
}

// writeReactions writes a header and then the reactions of numMessages messages.
// Sort ids grow per message, and every row has at least one reactor id.
func writeReactions(w io.Writer, rng *rand.Rand, numMessages, maxPerMessage int) (int, error) {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(CSVHeader); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	fakeClock := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	count := 0

	for message := 0; message < numMessages; message++ {
		messageID := newUUID(rng)
		numReactions := rng.IntN(maxPerMessage + 1)

		for sortID := 1; sortID <= numReactions; sortID++ {
			stableID, secondaryID := randomReactor(rng)
			fakeClock = fakeClock.Add(time.Duration(rng.IntN(60)+1) * time.Second)

			record := []string{
				newUUID(rng),
				messageID,
				stableID,
				secondaryID,
				emojis[rng.IntN(len(emojis))],
				strconv.Itoa(sortID),
				strconv.FormatBool(rng.IntN(4) != 0),
				strconv.FormatInt(fakeClock.UnixMilli(), 10),
			}

			if err := csvWriter.Write(record); err != nil {
				return count, fmt.Errorf("failed to write CSV record: %w", err)
			}

			count++
		}

		if count > 0 && count%million == 0 {
			fmt.Printf("\r  ⏳ %s reactions", formatNumber(count))
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return count, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return count, nil
}

// randomReactor returns a stable id and a secondary id, either of which may be empty but not both.
func randomReactor(rng *rand.Rand) (string, string) {
	user := rng.IntN(50 * thousand)
	stableID := "user-" + strconv.Itoa(user)
	secondaryID := fmt.Sprintf("+49151%08d", user)

	switch roll := rng.IntN(100); {
	case roll < 60:
		return stableID, secondaryID
	case roll < 85:
		return stableID, ""
	default:
		return "", secondaryID
	}
}

func newUUID(rng *rand.Rand) string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}

	id, _ := uuid.FromBytes(b[:]) // 16 bytes never fail

	id[6] = (id[6] & 0x0f) | 0x40 // version 4
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return id.String()
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func formatNumber(n int) string {
	if n >= million {
		return fmt.Sprintf("%.1fM", float64(n)/million)
	} else if n >= 100*thousand {
		return fmt.Sprintf("%.0fK", float64(n)/thousand)
	} else if n >= 10*thousand {
		return fmt.Sprintf("%.1fK", float64(n)/thousand)
	}
	return strconv.Itoa(n)
}
