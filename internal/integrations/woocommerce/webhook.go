// Package woocommerce parses and authenticates WooCommerce order webhooks.
package woocommerce

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Заголовки вебхука
const (
	HeaderSignature = "X-WC-Webhook-Signature"
	HeaderTopic     = "X-WC-Webhook-Topic"
)

// ErrMalformedPayload тело не является заказом WooCommerce
var ErrMalformedPayload = errors.New("woocommerce: malformed order payload")

// Order status values sent by WooCommerce
const (
	StatusPending    = "pending"
	StatusOnHold     = "on-hold"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
	StatusFailed     = "failed"
)

// IsPing reports whether body is the form-encoded delivery WooCommerce
// sends when a webhook is first saved
func IsPing(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("webhook_id="))
}

// Sign returns the base64 HMAC-SHA256 of body under secret
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the signature header against the body digest
func VerifySignature(body []byte, secret, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(body, secret)), []byte(signature))
}

// ParseOrder decodes an order webhook body
func ParseOrder(body []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if order.ID <= 0 {
		return nil, fmt.Errorf("%w: order id is missing", ErrMalformedPayload)
	}
	return &order, nil
}
