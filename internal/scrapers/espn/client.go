package espn

import (
	"context"
	"fmt"
	"hoopstats/internal/components/assert"
	"hoopstats/internal/components/telemetry"
	"hoopstats/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("hoopstats.internal.scrapers.espn")

const report_client_fetch = "client.fetch"

// Fetcher returns the text of the document at a url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type ClientOptions struct {
	// Interval is the fixed delay between the start of two requests, zero
	// disables pacing.
	Interval  time.Duration
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport so requests look like they come
	// from a browser.
	CloudflareBypass bool
	// Output receives every http exchange when set, `hoopstats scrape --record`
	// uses it to save pages for fixtures.
	Output restyutil.InstrumentOutput
}

// Client fetches documents one at a time, never starting requests closer
// together than the configured interval.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("espn", tel)

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	// burst of 1 so every request waits out the full interval
	pacer := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return pacer.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Output)

	return &Client{
		http: httpClient,
		tel:  tel,
	}
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, err, url)
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.IsError() {
		err := fmt.Errorf("fetch %s: unexpected status %s", url, res.Status())
		c.tel.ReportBroken(report_client_fetch, err)
		return "", err
	}
	return res.String(), nil
}
