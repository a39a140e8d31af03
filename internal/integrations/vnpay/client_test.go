package vnpay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func TestBuildSignData(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{
			name:   "keys sorted lexicographically",
			params: map[string]string{"b": "2", "a": "1", "c": "3"},
			want:   "a=1&b=2&c=3",
		},
		{
			name:   "empty values dropped",
			params: map[string]string{"vnp_TxnRef": "10-2", "vnp_BankCode": "", "vnp_Amount": "5000000"},
			want:   "vnp_Amount=5000000&vnp_TxnRef=10-2",
		},
		{
			name:   "values kept unescaped",
			params: map[string]string{"vnp_OrderInfo": "Thanh toan hoa don 10"},
			want:   "vnp_OrderInfo=Thanh toan hoa don 10",
		},
		{
			name:   "empty set",
			params: map[string]string{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := SignParams(tt.params, "secret")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignParams_Deterministic(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef": "10-2",
		"vnp_Amount": "5000000",
	}

	_, first := SignParams(params, "secret")
	_, second := SignParams(params, "secret")

	assert.Equal(t, first, second)
	assert.Len(t, first, 128) // HMAC-SHA512 hex

	_, other := SignParams(params, "another-secret")
	assert.NotEqual(t, first, other)
}

func TestVerifyParams(t *testing.T) {
	secret := "test-hash-secret"
	params := map[string]string{
		"vnp_TmnCode":      "DEMO",
		"vnp_TxnRef":       "10-2",
		"vnp_Amount":       "5000000",
		"vnp_ResponseCode": "00",
	}
	_, hash := SignParams(params, secret)

	callback := func(mutate func(map[string]string)) map[string]string {
		out := make(map[string]string, len(params)+2)
		for k, v := range params {
			out[k] = v
		}
		out["vnp_SecureHash"] = hash
		out["vnp_SecureHashType"] = "HMACSHA512"
		if mutate != nil {
			mutate(out)
		}
		return out
	}

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, VerifyParams(callback(nil), secret))
	})

	t.Run("hash compare is case-insensitive", func(t *testing.T) {
		assert.True(t, VerifyParams(callback(func(p map[string]string) {
			p["vnp_SecureHash"] = strings.ToUpper(p["vnp_SecureHash"])
		}), secret))
	})

	t.Run("tampered amount", func(t *testing.T) {
		assert.False(t, VerifyParams(callback(func(p map[string]string) {
			p["vnp_Amount"] = "9900000"
		}), secret))
	})

	t.Run("tampered response code", func(t *testing.T) {
		assert.False(t, VerifyParams(callback(func(p map[string]string) {
			p["vnp_ResponseCode"] = "24"
		}), secret))
	})

	t.Run("missing hash", func(t *testing.T) {
		assert.False(t, VerifyParams(callback(func(p map[string]string) {
			delete(p, "vnp_SecureHash")
		}), secret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, VerifyParams(callback(nil), "other-secret"))
	})
}

func TestClient_BuildCheckoutURL(t *testing.T) {
	cfg := Config{
		TmnCode:       "DEMO",
		HashSecret:    "test-hash-secret",
		PayURL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:     "https://example.com/payments/vnpay-return",
		ExpireMinutes: 15,
	}
	client := NewClient(cfg, noopLogger{})
	client.now = func() time.Time {
		return time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)
	}

	checkout, err := client.BuildCheckoutURL(CheckoutRequest{
		TxnRef:    "10-2",
		OrderInfo: "Thanh toan hoa don 10",
		Amount:    500000,
		ClientIP:  "203.0.113.7",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(checkout.URL, cfg.PayURL+"?"))
	// Сумма уходит шлюзу в минорных единицах
	assert.Contains(t, checkout.URL, "vnp_Amount=50000000")
	assert.Contains(t, checkout.URL, "vnp_TxnRef=10-2")
	assert.Contains(t, checkout.URL, "vnp_SecureHashType=HMACSHA512&vnp_SecureHash=")

	assert.Equal(t, "20250310143000", checkout.CreateAt)
	assert.Equal(t, "20250310144500", checkout.ExpireAt)

	expireTime, err := checkout.ExpireTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 45, 0, 0, time.Local), expireTime)
}

func TestClient_BuildCheckoutURL_RoundTrip(t *testing.T) {
	cfg := Config{
		TmnCode:       "DEMO",
		HashSecret:    "test-hash-secret",
		PayURL:        "https://pay.example.com/vpcpay.html",
		ReturnURL:     "https://example.com/return",
		ExpireMinutes: 15,
	}
	client := NewClient(cfg, noopLogger{})

	bank := "NCB"
	checkout, err := client.BuildCheckoutURL(CheckoutRequest{
		TxnRef:    "42-7",
		OrderInfo: "Thanh toan hoa don 42",
		Amount:    1250000,
		BankCode:  &bank,
		ClientIP:  "198.51.100.4",
	})
	require.NoError(t, err)

	// Восстанавливаем параметры из канонической формы и проверяем подпись
	params := map[string]string{}
	for _, pair := range strings.Split(checkout.SignData, "&") {
		kv := strings.SplitN(pair, "=", 2)
		require.Len(t, kv, 2)
		params[kv[0]] = kv[1]
	}

	_, hash := SignParams(params, cfg.HashSecret)
	params["vnp_SecureHash"] = hash
	params["vnp_SecureHashType"] = "HMACSHA512"

	assert.True(t, VerifyParams(params, cfg.HashSecret))
	assert.Equal(t, "125000000", params["vnp_Amount"])
	assert.Equal(t, "NCB", params["vnp_BankCode"])
}

func TestClient_BuildCheckoutURL_RejectsNonPositiveAmount(t *testing.T) {
	client := NewClient(Config{HashSecret: "s", ExpireMinutes: 15}, noopLogger{})

	_, err := client.BuildCheckoutURL(CheckoutRequest{TxnRef: "1-1", Amount: 0})
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = client.BuildCheckoutURL(CheckoutRequest{TxnRef: "1-1", Amount: -100})
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestParseTxnRef(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		wantInvoice int64
		wantTx      int64
		wantErr     bool
	}{
		{"valid reference", "42-7", 42, 7, false},
		{"missing separator", "427", 0, 0, true},
		{"non-numeric invoice", "abc-7", 0, 0, true},
		{"non-numeric transaction", "42-xyz", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoiceID, txID, err := ParseTxnRef(tt.ref)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTxnRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInvoice, invoiceID)
			assert.Equal(t, tt.wantTx, txID)
		})
	}
}
