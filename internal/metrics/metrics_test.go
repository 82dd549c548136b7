package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, InitMetrics)
	assert.NotPanics(t, InitMetrics)
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(WebhookEventsTotal.WithLabelValues("checkout_completed", "processed"))
	WebhookEventsTotal.WithLabelValues("checkout_completed", "processed").Inc()
	after := testutil.ToFloat64(WebhookEventsTotal.WithLabelValues("checkout_completed", "processed"))
	assert.Equal(t, before+1, after)

	CreatorCreditedCents.WithLabelValues("EUR").Add(900)
	assert.GreaterOrEqual(t, testutil.ToFloat64(CreatorCreditedCents.WithLabelValues("EUR")), float64(900))
}
