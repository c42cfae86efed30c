package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/logging"
)

// DefaultTimeout bounds every outbound call; on expiry the call fails with
// a NetworkError, never a silent zero.
const DefaultTimeout = 10 * time.Second

// httpCore is the shared transport shared by both broker clients. It
// attaches session headers, enforces the timeout, decodes JSON, and maps
// transport and HTTP-level auth failures into the error taxonomy.
type httpCore struct {
	broker  string
	client  *http.Client
	session Session
	logger  zerolog.Logger
}

func newHTTPCore(broker string, session Session, timeout time.Duration, logger zerolog.Logger) *httpCore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &httpCore{
		broker:  broker,
		client:  &http.Client{Timeout: timeout},
		session: session,
		logger:  logging.WithBroker(logger, broker),
	}
}

// doJSON performs one HTTP call and decodes the response body into out.
// body, when non-nil, is marshalled as a JSON request body.
func (h *httpCore) doJSON(ctx context.Context, method, rawURL string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrapf(err, "encoding %s request", rawURL)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return apperrors.Wrapf(err, "building %s request", rawURL)
	}
	for k, v := range h.session.Headers() {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	logging.LogAPICall(h.logger, method, rawURL, time.Since(start), err)
	if err != nil {
		return h.asNetworkError(method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return h.asNetworkError(method, rawURL, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return apperrors.NewAuthError(h.broker, trimBody(data))
	}
	if resp.StatusCode >= 500 {
		return apperrors.NewNetworkError(h.broker, endpointOf(rawURL),
			fmt.Errorf("server returned %d: %s", resp.StatusCode, trimBody(data)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apperrors.NewBrokerError(h.broker, fmt.Sprintf("%d", resp.StatusCode),
				fmt.Sprintf("undecodable response: %s", trimBody(data)))
		}
	}
	return nil
}

func (h *httpCore) asNetworkError(method, rawURL string, err error) error {
	op := fmt.Sprintf("%s %s", method, endpointOf(rawURL))
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewNetworkError(h.broker, op, fmt.Errorf("timed out: %w", err))
	}
	return apperrors.NewNetworkError(h.broker, op, err)
}

func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func trimBody(data []byte) string {
	const max = 300
	s := string(data)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
