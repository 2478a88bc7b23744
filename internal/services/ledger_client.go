package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Minor units per whole asset unit (USDT jettons carry 6 decimals).
const minorUnitsPerUnit = 1_000_000

// LedgerClient queries a TON-center-style transfer index for inbound jetton
// transfers to the receiving wallet. Transport faults are reported as "no
// matching transfer" rather than errors: the caller's remediation (wait,
// retry confirm) is identical, so no retry happens here.
type LedgerClient struct {
	httpClient    *http.Client
	baseURL       string
	walletAddress string
	assetID       string
	window        time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

func NewLedgerClient(baseURL, walletAddress, assetID string, timeout, window time.Duration, log zerolog.Logger) *LedgerClient {
	return &LedgerClient{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		walletAddress: walletAddress,
		assetID:       assetID,
		window:        window,
		now:           time.Now,
		log:           log,
	}
}

type transferPage struct {
	Transfers []struct {
		Source struct {
			Address string `json:"address"`
		} `json:"source"`
		Amount string `json:"amount"`
	} `json:"jetton_transfers"`
}

// VerifyTransfer reports whether a transfer from sourceAddress for exactly
// amountUnits whole units landed on the receiving wallet within the
// trailing window. Amounts are compared in the ledger's minor-unit integer
// representation.
func (c *LedgerClient) VerifyTransfer(ctx context.Context, sourceAddress string, amountUnits int) bool {
	expected := strconv.FormatInt(int64(amountUnits)*minorUnitsPerUnit, 10)
	end := c.now()
	start := end.Add(-c.window)

	params := url.Values{}
	params.Set("owner_address", c.walletAddress)
	params.Set("direction", "in")
	params.Set("jetton_master", c.assetID)
	params.Set("limit", "10")
	params.Set("sort", "desc")
	params.Set("start_utime", strconv.FormatInt(start.Unix(), 10))
	params.Set("end_utime", strconv.FormatInt(end.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to build ledger request")
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("Ledger query failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("Ledger query returned non-OK status")
		return false
	}

	var page transferPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		c.log.Warn().Err(err).Msg("Failed to decode ledger response")
		return false
	}

	for _, transfer := range page.Transfers {
		if transfer.Source.Address == sourceAddress && transfer.Amount == expected {
			return true
		}
	}
	return false
}
