package payhere

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMerchant = "M1"
	testSecret   = "secret123"
	// upper(md5("secret123"))
	testSecretHash = "5D7845AC6EE7CFFFAFC5FE5F35CF666D"
	// M1 + O1 + 1500.00 + LKR + 2 + testSecretHash
	testSuccessSig = "621E88D234E79CD268CDB861DA2FFA12"
	// M1 + O1 + 1500.00 + LKR + -2 + testSecretHash
	testFailedSig = "AA8BF44A1C100CB860D19E019C5A9595"
	// M1 + O1 + 1500.00 + LKR + testSecretHash
	testCheckoutHash = "6C49A2D186B5D7A88458CF6607C9C7F8"
)

func validNotification() Notification {
	return Notification{
		MerchantID: testMerchant,
		OrderID:    "O1",
		PaymentID:  "P1",
		Amount:     "1500.00",
		Currency:   "LKR",
		StatusCode: StatusSuccess,
		MD5Sig:     testSuccessSig,
	}
}

func TestMD5Upper(t *testing.T) {
	assert.Equal(t, testSecretHash, md5Upper(testSecret))
}

func TestNotificationSignature(t *testing.T) {
	assert.Equal(t, testSuccessSig, NotificationSignature("M1", "O1", "1500.00", "LKR", "2", testSecret))
	assert.Equal(t, testFailedSig, NotificationSignature("M1", "O1", "1500.00", "LKR", "-2", testSecret))
}

func TestCheckoutHash(t *testing.T) {
	assert.Equal(t, testCheckoutHash, CheckoutHash("M1", "O1", "1500.00", "LKR", testSecret))

	auth := NewAuthenticator(testMerchant, testSecret)
	assert.Equal(t, testCheckoutHash, auth.CheckoutHash("O1", 1500, "LKR"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.00", FormatAmount(1500))
	assert.Equal(t, "99.90", FormatAmount(99.9))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestAuthenticator_Verify(t *testing.T) {
	auth := NewAuthenticator(testMerchant, testSecret)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, auth.Verify(validNotification()))
	})

	t.Run("lowercase signature accepted", func(t *testing.T) {
		n := validNotification()
		n.MD5Sig = "621e88d234e79cd268cdb861da2ffa12"
		assert.True(t, auth.Verify(n))
	})

	t.Run("tampered amount rejected", func(t *testing.T) {
		n := validNotification()
		n.Amount = "1.00"
		assert.False(t, auth.Verify(n))
	})

	t.Run("amount format matters", func(t *testing.T) {
		n := validNotification()
		n.Amount = "1500"
		assert.False(t, auth.Verify(n))
	})

	t.Run("non-success status with its own signature", func(t *testing.T) {
		n := validNotification()
		n.StatusCode = StatusFailed
		n.MD5Sig = testFailedSig
		assert.True(t, auth.Verify(n))
	})

	t.Run("foreign merchant rejected", func(t *testing.T) {
		n := validNotification()
		n.MerchantID = "M2"
		n.MD5Sig = NotificationSignature("M2", "O1", "1500.00", "LKR", "2", testSecret)
		assert.False(t, auth.Verify(n))
	})

	t.Run("missing secret never verifies", func(t *testing.T) {
		empty := NewAuthenticator(testMerchant, "")
		assert.False(t, empty.Configured())
		assert.False(t, empty.Verify(validNotification()))
	})
}

func TestNotificationFromValues(t *testing.T) {
	values := url.Values{}
	values.Set("merchant_id", "M1")
	values.Set("order_id", "O1")
	values.Set("payment_id", "P1")
	values.Set("payhere_amount", "1500.00")
	values.Set("payhere_currency", "LKR")
	values.Set("status_code", "2")
	values.Set("md5sig", testSuccessSig)
	values.Set("custom_1", "user-1")

	n := NotificationFromValues(values)

	assert.Equal(t, validNotification().MD5Sig, n.MD5Sig)
	assert.Equal(t, "1500.00", n.Amount)
	assert.Equal(t, "user-1", n.Custom1)
	assert.True(t, n.IsSuccess())
}

func TestNotification_Payload(t *testing.T) {
	n := validNotification()

	var fields map[string]string
	require.NoError(t, json.Unmarshal(n.Payload(), &fields))

	assert.Equal(t, "O1", fields["order_id"])
	assert.Equal(t, "1500.00", fields["payhere_amount"])
	_, hasCustom := fields["custom_1"]
	assert.False(t, hasCustom)
}
