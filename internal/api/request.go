package api

import (
	"context"
	"time"

	"cricket-query/internal/constants"

	"github.com/avast/retry-go/v4"
	"github.com/valyala/fasthttp"
)

const maxErrorBody = 512

func newHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
	}
}

type httpRequest struct {
	provider   string
	url        string
	headers    map[string]string
	body       []byte
	retryDelay time.Duration
}

// doRequest POSTs a JSON body and returns a copy of the response body.
// Transport errors, 429 and 5xx answers are retried; other statuses fail
// immediately with an *APIError.
func doRequest(ctx context.Context, client *fasthttp.Client, r httpRequest) ([]byte, error) {
	var out []byte

	err := retry.Do(
		func() error {
			req := fasthttp.AcquireRequest()
			resp := fasthttp.AcquireResponse()
			defer fasthttp.ReleaseRequest(req)
			defer fasthttp.ReleaseResponse(resp)

			req.SetRequestURI(r.url)
			req.Header.SetMethod(fasthttp.MethodPost)
			req.Header.SetContentType("application/json")
			for k, v := range r.headers {
				req.Header.Set(k, v)
			}
			req.SetBody(r.body)

			var err error
			if deadline, ok := ctx.Deadline(); ok {
				err = client.DoDeadline(req, resp, deadline)
			} else {
				err = client.Do(req, resp)
			}
			if err != nil {
				return err
			}

			if resp.StatusCode() != fasthttp.StatusOK {
				body := resp.Body()
				if len(body) > maxErrorBody {
					body = body[:maxErrorBody]
				}
				apiErr := &APIError{Provider: r.provider, StatusCode: resp.StatusCode(), Body: string(body)}
				if !apiErr.Temporary() {
					return retry.Unrecoverable(apiErr)
				}
				return apiErr
			}

			out = append([]byte(nil), resp.Body()...)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(constants.LLMRetryAttempts),
		retry.Delay(r.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
