// Package zeroex implements the quoting provider against the 0x swap API.
package zeroex

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/orderbook-clearer/business/quoting/app"
	"github.com/fd1az/orderbook-clearer/business/quoting/domain"
	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/circuitbreaker"
	"github.com/fd1az/orderbook-clearer/internal/httpclient"
	"github.com/fd1az/orderbook-clearer/internal/logger"
	"github.com/fd1az/orderbook-clearer/internal/ratelimit"
)

const quotePath = "/swap/v1/quote"

// Client fetches firm quotes from a 0x-compatible swap API endpoint.
type Client struct {
	http    httpclient.Client
	apiKey  string
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[*quoteResponse]
	log     logger.LoggerInterface
	tracer  trace.Tracer
}

// Config carries the provider settings resolved from the network preset.
type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
}

// NewClient builds a rate-limited, circuit-broken quote client.
func NewClient(cfg Config, log logger.LoggerInterface) (*Client, error) {
	tracer := otel.Tracer("quoting.zeroex")

	hc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("zeroex"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithTracer(tracer),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:    hc,
		apiKey:  cfg.APIKey,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[*quoteResponse](circuitbreaker.DefaultConfig("zeroex")),
		log:     log,
		tracer:  tracer,
	}, nil
}

// GetQuote fetches a firm quote for selling req.SellAmount of the sell
// token. Addresses are lowercased on the wire, as the API expects.
func (c *Client) GetQuote(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := c.tracer.Start(ctx, "zeroex.get_quote",
		trace.WithAttributes(
			attribute.String("quote.buy_token", req.BuyToken.Hex()),
			attribute.String("quote.sell_token", req.SellToken.Hex()),
			attribute.String("quote.sell_amount", req.SellAmount.String()),
		),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeQuoteFetchFailed, "rate limit wait")
	}

	raw, err := c.breaker.Execute(func() (*quoteResponse, error) {
		return c.fetch(ctx, req)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	quote, err := domain.NewQuote(raw.Price, raw.GuaranteedPrice,
		raw.BuyTokenToEthRate, raw.GasPrice, raw.AllowanceTarget, raw.Data)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.log.Debug(ctx, "quote received",
		"price", raw.Price,
		"guaranteed_price", raw.GuaranteedPrice,
		"gas_price", raw.GasPrice,
	)
	return quote, nil
}

func (c *Client) fetch(ctx context.Context, req app.QuoteRequest) (*quoteResponse, error) {
	var result quoteResponse

	r := c.http.NewRequest().
		SetQueryParam("buyToken", strings.ToLower(req.BuyToken.Hex())).
		SetQueryParam("sellToken", strings.ToLower(req.SellToken.Hex())).
		SetQueryParam("sellAmount", req.SellAmount.String()).
		SetQueryParam("slippagePercentage", req.Slippage).
		SetResult(&result)
	if c.apiKey != "" {
		r.SetHeader("0x-api-key", c.apiKey)
	}

	resp, err := r.Get(ctx, quotePath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeQuoteFetchFailed, "quote request")
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeQuoteFetchFailed,
			apperror.WithContext(decodeAPIError(resp.Body())))
	}
	return &result, nil
}

// decodeAPIError surfaces the API's structured error body when present,
// falling back to the raw payload.
func decodeAPIError(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Reason != "" {
		return apiErr.String()
	}
	return string(body)
}
