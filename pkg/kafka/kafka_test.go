package kafka

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()
	require.False(t, Config{}.Enabled())
	require.True(t, Config{Addrs: []string{"localhost:9092"}}.Enabled())
}

func TestEventBook_JSON(t *testing.T) {
	t.Parallel()
	data, err := jsoniter.Marshal(EventBook{
		Type:      EventBookDeleted,
		BookID:    7,
		Timestamp: time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"deleted","bookId":7,"timestamp":"2023-10-01T12:00:00Z"}`, string(data))
}
