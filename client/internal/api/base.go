package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	clienterrors "github.com/mycelian/mycelian-identities/client/internal/errors"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// request describes one round trip against the identity service.
type request struct {
	op     string
	method string
	path   string // already escaped, rooted at /api
	query  url.Values
	body   any
}

// escape path-escapes each id segment.
func escape(id string) string { return url.PathEscape(id) }

// do performs req and decodes a 2xx JSON body into out (when out is non-nil).
// Transport failures and non-2xx responses come back as *ClassifiedError.
func do(ctx context.Context, httpClient *http.Client, baseURL string, req request, out any) error {
	var rdr io.Reader
	if req.body != nil {
		body, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		rdr = bytes.NewReader(body)
	}

	target := strings.TrimRight(baseURL, "/") + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, rdr)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if rdr != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		observe(req.op, outcomeNetworkError, start)
		return clienterrors.NewNetworkError(req.op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observe(req.op, outcomeHTTPError, start)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return clienterrors.NewHTTPError(resp.StatusCode, string(raw), req.op)
	}
	observe(req.op, outcomeOK, start)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return clienterrors.NewNetworkError(req.op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
