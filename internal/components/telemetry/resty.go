package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_http_request  = "http.request"
	report_http_response = "http.response"
)

type exchangeKeyType struct{}

var exchangeKey exchangeKeyType

type exchange struct {
	id      uint64
	started time.Time
}

// InstrumentResty reports the start, duration and outcome of every request
// the client makes to tel. Requests are numbered in the order they are sent.
func InstrumentResty(client *resty.Client, tel API) {
	var sequence atomic.Uint64

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ex := exchange{id: sequence.Add(1), started: time.Now()}
		req.SetContext(context.WithValue(req.Context(), exchangeKey, ex))
		tel.ReportDebug(report_http_request, ex.id, req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		ex, _ := res.Request.Context().Value(exchangeKey).(exchange)
		elapsed := time.Since(ex.started).String()

		if res.IsError() {
			tel.ReportWarning(report_http_response, ex.id, res.Request.URL, elapsed, res.Status())
			return nil
		}
		tel.ReportDebug(report_http_response, ex.id, elapsed, res.Status())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		var elapsed time.Duration
		if ex, ok := req.Context().Value(exchangeKey).(exchange); ok {
			elapsed = time.Since(ex.started)
		}
		tel.ReportBroken(report_http_response, err, req.Method, req.URL, elapsed)
	})
}
