package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railsight/spm-analyzer/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	generated := time.Date(2024, time.November, 5, 12, 30, 0, 0, time.UTC)
	report := &domain.Report{
		ID:          "spm-1a2b3c4d",
		GeneratedAt: generated,
		Profile:     "medha",
		Rake:        domain.RakeGoods,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("spm-1a2b3c4d"), msg.Key)
	assert.Contains(t, string(msg.Value), `"profile":"medha"`)
	assert.Contains(t, string(msg.Value), `"rake":"GOODS"`)

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "profile", msg.Headers[0].Key)
	assert.Equal(t, []byte("medha"), msg.Headers[0].Value)
	assert.Equal(t, "rake", msg.Headers[1].Key)
	assert.Equal(t, []byte("GOODS"), msg.Headers[1].Value)
	assert.Equal(t, "generated_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(generated.Format(time.RFC3339)), msg.Headers[2].Value)
}
