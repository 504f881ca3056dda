package vendorgateway

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
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/tripline/tripline-api/internal/domain/quote"
)

const defaultTimeout = 10 * time.Second

// Client represents the vendor gateway HTTP client. The gateway fans
// a line-item notification out to the airline, hotel, or ground
// operator that will fulfil it.
type Client struct {
	baseURL string
	token   string
	ua      string
	http    *http.Client
}

// NewClient creates a new vendor gateway client.
func NewClient(baseURL, token string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// NotifyVendor posts one package line to the gateway.
func (c *Client) NotifyVendor(ctx context.Context, n quote.VendorNotification) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("vendor notify request error: client is nil")
	}
	if strings.TrimSpace(c.token) == "" {
		return fmt.Errorf("vendor notify config error: token is empty")
	}

	// A vendor with its own endpoint is notified directly; everyone
	// else goes through the gateway fan-out.
	url := strings.TrimSpace(n.NotifyURL)
	if url == "" {
		if strings.TrimSpace(c.baseURL) == "" {
			return fmt.Errorf("vendor notify config error: base_url is empty")
		}
		url = c.baseURL + "/internal/vendors/notifications"
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("vendor notify request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("vendor notify request error: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		return nil
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("vendor notify http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
	}

	return fmt.Errorf("vendor notify http error: status=%d body=%s", resp.StatusCode, string(body))
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("vendor notify timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("vendor notify network error: %w", err)
	}
	return fmt.Errorf("vendor notify request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	return false
}
