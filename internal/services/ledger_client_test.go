package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const transfersPage = `{"jetton_transfers":[
	{"source":{"address":"EQBuyer"},"amount":"8000000"},
	{"source":{"address":"EQOther"},"amount":"15000000"}
]}`

func newTestLedgerClient(t *testing.T, handler http.HandlerFunc) *LedgerClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewLedgerClient(server.URL, "EQWallet", "EQJettonMaster", time.Second, 10*time.Minute, zerolog.Nop())
	client.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return client
}

func TestVerifyTransferQueryShape(t *testing.T) {
	var query url.Values
	client := newTestLedgerClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(transfersPage))
	})

	found := client.VerifyTransfer(context.Background(), "EQBuyer", 8)

	assert.True(t, found)
	assert.Equal(t, "EQWallet", query.Get("owner_address"))
	assert.Equal(t, "in", query.Get("direction"))
	assert.Equal(t, "EQJettonMaster", query.Get("jetton_master"))
	assert.Equal(t, "10", query.Get("limit"))
	assert.Equal(t, "desc", query.Get("sort"))
	assert.Equal(t, "1700000000", query.Get("end_utime"))
	// Trailing 10-minute window.
	assert.Equal(t, "1699999400", query.Get("start_utime"))
}

func TestVerifyTransferExactAmountOnly(t *testing.T) {
	client := newTestLedgerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(transfersPage))
	})

	// Right source, wrong amount.
	assert.False(t, client.VerifyTransfer(context.Background(), "EQBuyer", 15))
	// Right amount, wrong source.
	assert.False(t, client.VerifyTransfer(context.Background(), "EQStranger", 8))
}

func TestVerifyTransferTransportFailureIsNotFound(t *testing.T) {
	client := newTestLedgerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.False(t, client.VerifyTransfer(context.Background(), "EQBuyer", 8))
}

func TestVerifyTransferEmptyPage(t *testing.T) {
	client := newTestLedgerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jetton_transfers":[]}`))
	})

	assert.False(t, client.VerifyTransfer(context.Background(), "EQBuyer", 8))
}
