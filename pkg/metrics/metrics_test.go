package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer("tours", reg)

	m.ReservationCreated("direct")
	m.ReservationCreated("direct")
	m.ReservationCreated("woocommerce")
	m.CapacityRejected("direct")
	m.WebhookEvent("whatsapp", "duplicate")
	m.CacheLookup(true)
	m.CacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservationsCreated.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservationsCreated.WithLabelValues("woocommerce")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.capacityRejected.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("whatsapp", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}
