package main

import (
	"bytes"
	"encoding/csv"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WriteReactions_WritesValidRows(t *testing.T) {
	var out bytes.Buffer

	count, err := writeReactions(&out, rand.New(rand.NewPCG(1, 2)), 50, 10)
	require.NoError(t, err)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, count+1)
	assert.Equal(t, CSVHeader, records[0])

	lastSortID := map[string]int{}
	for _, record := range records[1:] {
		assert.NotEmpty(t, record[0])
		assert.True(t, record[2] != "" || record[3] != "", "a reaction needs a reactor id")

		sortID, convErr := strconv.Atoi(record[5])
		require.NoError(t, convErr)
		assert.Greater(t, sortID, lastSortID[record[1]])
		lastSortID[record[1]] = sortID
	}
}

func Test_WriteReactions_IsReproducibleForTheSameSeed(t *testing.T) {
	var first, second bytes.Buffer

	_, err := writeReactions(&first, rand.New(rand.NewPCG(Seed, Seed)), 20, 5)
	require.NoError(t, err)
	_, err = writeReactions(&second, rand.New(rand.NewPCG(Seed, Seed)), 20, 5)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
}
