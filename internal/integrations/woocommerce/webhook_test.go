package woocommerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderJSON = `{
  "id": 100,
  "status": "processing",
  "billing": {"first_name": "Ann", "last_name": "Smith", "email": "ann@example.com", "phone": "+3312"},
  "customer_note": "vegetarian",
  "line_items": [
    {"id": 1, "product_id": 55, "sku": "city-tour", "quantity": 3,
     "meta_data": [{"key": "booking_date", "value": "2024-06-01"}, {"key": "booking_time", "value": "10:00"}]},
    {"id": 2, "product_id": 56, "sku": "", "quantity": 1,
     "meta_data": [{"key": "activity_id", "value": 7}, {"key": "date", "value": "2024-06-02"}, {"key": "_extra", "value": {"a": 1}}]}
  ]
}`

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder([]byte(orderJSON))
	require.NoError(t, err)

	assert.Equal(t, int64(100), order.ID)
	assert.Equal(t, "Ann Smith", order.Billing.FullName())
	require.Len(t, order.LineItems, 2)

	first := order.LineItems[0]
	id, slug := first.ActivityRef()
	assert.Zero(t, id)
	assert.Equal(t, "city-tour", slug)
	assert.Equal(t, "2024-06-01", first.BookingDate())
	assert.Equal(t, "10:00", first.BookingTime())

	second := order.LineItems[1]
	id, slug = second.ActivityRef()
	assert.Equal(t, int64(7), id)
	assert.Empty(t, slug)
	assert.Equal(t, "2024-06-02", second.BookingDate())
	assert.Empty(t, second.BookingTime())
	assert.Empty(t, second.Meta("_extra"))
}

func TestParseOrder_Malformed(t *testing.T) {
	_, err := ParseOrder([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = ParseOrder([]byte(`{"status":"processing"}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestSignature(t *testing.T) {
	body := []byte(orderJSON)
	sig := Sign(body, "secret")

	assert.True(t, VerifySignature(body, "secret", sig))
	assert.False(t, VerifySignature(body, "other", sig))
	assert.False(t, VerifySignature(append(body, ' '), "secret", sig))
	assert.False(t, VerifySignature(body, "secret", ""))
}

func TestIsPing(t *testing.T) {
	assert.True(t, IsPing([]byte("webhook_id=15")))
	assert.False(t, IsPing([]byte(`{"id":1}`)))
}
