package analytics_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolworks/fee_billing_app/internal/utils/analytics"
)

func TestNewClient_EmptyKeyDisablesTracking(t *testing.T) {
	client := analytics.NewClient("", slog.Default())

	assert.NotNil(t, client)
	assert.False(t, client.IsEnabled())

	// Every method must be safe on a disabled client.
	client.Enqueue("user-1", "vouchers", map[string]any{"method": "POST"})
	client.Close()
}

func TestNewClient_WithKeyEnablesTracking(t *testing.T) {
	client := analytics.NewClient("phc_test_key", slog.Default())
	defer client.Close()

	assert.True(t, client.IsEnabled())
}
