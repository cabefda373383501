package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wonAt = time.Date(2026, 6, 20, 21, 15, 0, 0, time.UTC)

func TestFormatBingoWon(t *testing.T) {
	body, err := json.Marshal(BingoWonEvent{
		EventID: "ev1", EventTitle: "Anna & Ben", CardID: "c1", GuestID: "g1",
		CompletedItems: []int{0, 1, 2, 3, 4}, WonAt: wonAt,
	})
	require.NoError(t, err)

	line, err := FormatLine(BingoWonQueue, body)

	require.NoError(t, err)
	assert.Equal(t, "[2026-06-20T21:15:00Z] Bingo! | event_id=ev1 | event=\"Anna & Ben\" | card_id=c1 | guest_id=g1 | cells=5\n", line)
}

func TestFormatRejectsGarbage(t *testing.T) {
	_, err := FormatLine(BingoWonQueue, []byte("{"))
	assert.Error(t, err)

	_, err = FormatLine("other.queue", []byte("{}"))
	assert.Error(t, err)
}

func TestHandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notifications.log")
	c := NewConsumer("", path, zerolog.Nop())
	body, err := json.Marshal(EventProvisionedEvent{
		EventID: "ev1", Title: "Sommerfest", EventType: "event", ClientEmail: "Client@Example.com",
		AccessCode: "K7M2QX", GuestURL: "https://x/e/K7M2QX", ProvisionedAt: wonAt,
	})
	require.NoError(t, err)

	require.NoError(t, c.Handle(EventProvisionedQueue, body))
	require.NoError(t, c.Handle(EventProvisionedQueue, body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client=client@example.com | code=K7M2QX")
	assert.Equal(t, 2, countLines(data))
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
