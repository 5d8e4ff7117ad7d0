package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDeliveryHealthEvent(t *testing.T) {
	body, err := json.Marshal(HealthStatusEvent{
		Previous: "healthy",
		Current:  "failed",
		Reason:   "connection refused",
		At:       "2025-08-01T06:00:00Z",
	})
	require.NoError(t, err)

	line := formatDelivery(HealthQueue, body)
	assert.Equal(t, "2025-08-01T06:00:00Z health healthy -> failed (connection refused)", line)
}

func TestFormatDeliveryAuditEvent(t *testing.T) {
	body, err := json.Marshal(ContentChangeEvent{
		Action:   "hard_delete",
		Table:    "schedules",
		RecordID: "s1",
		Actor:    "admin-1",
		At:       "2025-08-01T06:00:00Z",
	})
	require.NoError(t, err)

	line := formatDelivery(AuditQueue, body)
	assert.Equal(t, "2025-08-01T06:00:00Z hard_delete schedules id=s1 by=admin-1", line)
}

func TestFormatDeliveryUnknownPayloadStaysRaw(t *testing.T) {
	assert.Equal(t, "not json", formatDelivery(HealthQueue, []byte("not json")))
	assert.Equal(t, "{}", formatDelivery("other.queue", []byte("{}")))
}

func TestAppendLineCreatesDirAndAppends(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "audit.log")

	require.NoError(t, appendLine(logFile, "first"))
	require.NoError(t, appendLine(logFile, "second"))

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}
