package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRPayloadRoundTrip(t *testing.T) {
	h := NewReceiptHandler(nil, []byte("secret"))

	payload := h.qrPayload("o123", "ORD-20250114093012-0001")
	parts := strings.Split(payload, "|")
	require.Len(t, parts, 4) // orderID|orderNumber|ts|sig
	assert.Equal(t, "o123", parts[0])
	assert.True(t, h.VerifyPayload(payload))
}

func TestVerifyPayloadRejectsTampering(t *testing.T) {
	h := NewReceiptHandler(nil, []byte("secret"))

	payload := h.qrPayload("o123", "ORD-20250114093012-0001")
	assert.False(t, h.VerifyPayload(strings.Replace(payload, "o123", "o999", 1)))
	assert.False(t, h.VerifyPayload("no-signature-here"))

	other := NewReceiptHandler(nil, []byte("different"))
	assert.False(t, other.VerifyPayload(payload))
}
