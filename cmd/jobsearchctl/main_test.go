package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/matching"
)

func TestScoreCommand(t *testing.T) {
	input := `{
	  "requiredQualifications": [
	    {"id":"r1","name":"Go","isMatched":true},
	    {"id":"r2","name":"SQL","isMatched":true},
	    {"id":"r3","name":"Docker","isMatched":true},
	    {"id":"r4","name":"Linux","isMatched":false}
	  ],
	  "preferredQualifications": [
	    {"id":"p1","name":"AWS","isMatched":true},
	    {"id":"p2","name":"gRPC","isMatched":true},
	    {"id":"p3","name":"Kafka","isMatched":true},
	    {"id":"p4","name":"Rust","isMatched":false}
	  ],
	  "experiences": []
	}`
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"score", "--file", "-"})
	require.NoError(t, cmd.Execute())

	var got matching.MatchAnalysis
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 53, got.RequiredScore)
	assert.Equal(t, 23, got.PreferredScore)
	assert.Equal(t, 76, got.TotalScore)
}

func TestScoreAcceptsIntegerIDs(t *testing.T) {
	input := `{"requiredQualifications":[{"id":1,"name":"Go","isMatched":true},{"id":2,"name":"SQL","isMatched":true},{"id":3,"name":"Docker","isMatched":true},{"id":4,"name":"Linux","isMatched":false}],
	  "preferredQualifications":[{"id":5,"name":"AWS","isMatched":false}],
	  "experiences":[{"id":1,"title":"Backend","duration":24,"similarity":30}]}`
	var out bytes.Buffer
	require.NoError(t, runScore(strings.NewReader(input), &out))

	var got matching.MatchAnalysis
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 53, got.RequiredScore)
	assert.Equal(t, 0, got.PreferredScore)
	assert.Equal(t, matching.ID("4"), got.RequiredQualifications[3].ID)
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	input := `{"requiredQualifications":[{"id":"q1","name":"Go","isMatched":true}],"preferredQualifications":[{"id":"q1","name":"Go","isMatched":false}],"experiences":[]}`
	err := runScore(strings.NewReader(input), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, matching.ErrInvalidInput)
}

func TestScoreRejectsUnknownFields(t *testing.T) {
	err := runScore(strings.NewReader(`{"required":[]}`), &bytes.Buffer{})
	assert.Error(t, err)
}

type recordingIndexer struct{ ids []string }

func (r *recordingIndexer) Index(_ context.Context, p jobs.Posting) error {
	r.ids = append(r.ids, p.ID)
	return nil
}

func TestReindexPagesThroughRepo(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var seed []jobs.Posting
	for i := 0; i < jobs.MaxLimit+3; i++ {
		seed = append(seed, jobs.Posting{
			ID:       fmt.Sprintf("job-%03d", i),
			Title:    "Engineer",
			PostedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	idx := &recordingIndexer{}
	n, err := reindex(context.Background(), jobs.NewMemoryRepo(seed...), idx)
	require.NoError(t, err)
	assert.Equal(t, len(seed), n)
	assert.Len(t, idx.ids, len(seed))
}
