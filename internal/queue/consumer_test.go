package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body := []byte(`{"run_id":"r1","category":"TV-AIRINGS","params":{"startDateTime":"T","lineupId":"L"},"received":3,"persisted":2,"skipped":1,"completed_at":"2026-10-15T10:00:00Z"}`)

	require.NoError(t, handleMessage(dir, body))
	require.NoError(t, handleMessage(dir, body))

	data, err := os.ReadFile(filepath.Join(dir, "ingestion.log"))
	require.NoError(t, err)
	line := "[2026-10-15T10:00:00Z] Ingestion completed | run_id=r1 | category=TV-AIRINGS | received=3 | persisted=2 | skipped=1 | params=[lineupId=L,startDateTime=T]\n"
	require.Equal(t, line+line, string(data))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	err := handleMessage(t.TempDir(), []byte("not json"))
	require.ErrorContains(t, err, "unmarshal")
}
