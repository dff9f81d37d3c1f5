package zeroex

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/orderbook-clearer/business/quoting/app"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()
	log := logger.New(discard{}, logger.LevelError, "test", nil)
	c, err := NewClient(Config{
		BaseURL:           baseURL,
		APIKey:            apiKey,
		RequestsPerMinute: 60,
	}, log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGetQuoteRequestContract(t *testing.T) {
	const quoteBody = `{
		"price": "1.05",
		"guaranteedPrice": "1.04",
		"buyTokenToEthRate": "2000",
		"gasPrice": "30000000000",
		"allowanceTarget": "0xdef1c0ded9bec7f1a1670819833240f027b25eff",
		"data": "0xdeadbeef"
	}`

	var gotPath string
	var gotQuery map[string]string
	var gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		gotAPIKey = r.Header.Get("0x-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(quoteBody))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, "secret-key")
	quote, err := c.GetQuote(context.Background(), app.QuoteRequest{
		BuyToken:   common.HexToAddress("0xAAAAaAAAaaaAAaaaAAaAaaaAAAaaaAaaaaAAaAAA"),
		SellToken:  common.HexToAddress("0xBBBBbBbBBbbBBbbbBbBbbbbBBBbbbBbbbbBBbBBB"),
		SellAmount: big.NewInt(1_000_000),
		Slippage:   "0.001",
	})
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}

	if gotPath != quotePath {
		t.Errorf("request path = %q, want %q", gotPath, quotePath)
	}
	// Token addresses go over the wire lowercased, the sell amount in
	// the token's native decimals.
	wantQuery := map[string]string{
		"buyToken":           "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"sellToken":          "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		"sellAmount":         "1000000",
		"slippagePercentage": "0.001",
	}
	for k, want := range wantQuery {
		if got := gotQuery[k]; got != want {
			t.Errorf("query %s = %q, want %q", k, got, want)
		}
	}
	if len(gotQuery) != len(wantQuery) {
		t.Errorf("query has %d params, want %d: %v", len(gotQuery), len(wantQuery), gotQuery)
	}
	if gotAPIKey != "secret-key" {
		t.Errorf("0x-api-key header = %q, want %q", gotAPIKey, "secret-key")
	}

	wantPrice, _ := fixedpoint.FromDecimalString("1.05")
	if quote.Price.Cmp(wantPrice) != 0 {
		t.Errorf("quote price = %s, want %s", quote.Price, wantPrice)
	}
	if quote.GasPrice.Cmp(big.NewInt(30_000_000_000)) != 0 {
		t.Errorf("quote gas price = %s, want 30000000000", quote.GasPrice)
	}
}

func TestGetQuoteOmitsAPIKeyHeaderWhenUnset(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["0x-Api-Key"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"price": "1",
			"guaranteedPrice": "1",
			"buyTokenToEthRate": "1",
			"gasPrice": "1",
			"allowanceTarget": "0xdef1c0ded9bec7f1a1670819833240f027b25eff",
			"data": "0x00"
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, "")
	_, err := c.GetQuote(context.Background(), app.QuoteRequest{
		BuyToken:   common.HexToAddress("0x1111111111111111111111111111111111111111"),
		SellToken:  common.HexToAddress("0x2222222222222222222222222222222222222222"),
		SellAmount: big.NewInt(1),
		Slippage:   "0.001",
	})
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if sawHeader {
		t.Error("0x-api-key header sent despite empty key")
	}
}

func TestGetQuoteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":100,"reason":"Validation Failed"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, "")
	_, err := c.GetQuote(context.Background(), app.QuoteRequest{
		BuyToken:   common.HexToAddress("0x1111111111111111111111111111111111111111"),
		SellToken:  common.HexToAddress("0x2222222222222222222222222222222222222222"),
		SellAmount: big.NewInt(1),
		Slippage:   "0.001",
	})
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if !strings.Contains(err.Error(), "Validation Failed") {
		t.Errorf("error %q should carry the API reason", err)
	}
}

func TestDecodeAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "structured_error",
			body: `{"code":100,"reason":"Validation Failed","validationErrors":[{"field":"sellAmount","reason":"should match pattern"}]}`,
			want: []string{"code=100", "Validation Failed", "sellAmount"},
		},
		{
			name: "plain_reason",
			body: `{"code":429,"reason":"Rate limit exceeded"}`,
			want: []string{"code=429", "Rate limit exceeded"},
		},
		{
			name: "unstructured_body",
			body: `service unavailable`,
			want: []string{"service unavailable"},
		},
		{
			name: "json_without_reason",
			body: `{"message":"nope"}`,
			want: []string{`{"message":"nope"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAPIError([]byte(tt.body))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("decodeAPIError() = %q, missing %q", got, want)
				}
			}
		})
	}
}
