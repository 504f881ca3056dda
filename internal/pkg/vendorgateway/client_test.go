package vendorgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/quote"
)

func TestNotifyVendorSuccess(t *testing.T) {
	notification := quote.VendorNotification{
		BookingID: uuid.New(),
		ItemID:    uuid.New(),
		ServiceID: uuid.New(),
		Title:     "Airport pickup",
		ItemType:  "transport",
		Quantity:  2,
	}

	statuses := []int{http.StatusOK, http.StatusAccepted}
	for _, status := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("invalid method"))
				return
			}
			if r.URL.Path != "/internal/vendors/notifications" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("invalid path"))
				return
			}
			if r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("invalid content type"))
				return
			}
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("invalid auth"))
				return
			}

			var got quote.VendorNotification
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil || got.ServiceID != notification.ServiceID {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("invalid body"))
				return
			}
			w.WriteHeader(status)
		}))
		t.Cleanup(server.Close)

		client := NewClient(server.URL, "test-token", time.Second, "Tripline/1.0 vendor-notify")
		if err := client.NotifyVendor(context.Background(), notification); err != nil {
			t.Fatalf("expected no error for status %d, got %v", status, err)
		}
	}
}

func TestNotifyVendorDirectPartnerEndpoint(t *testing.T) {
	var gatewayHit bool
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gatewayHit = true
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gateway.Close)

	partnerPath := ""
	partner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		partnerPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(partner.Close)

	client := NewClient(gateway.URL, "test-token", time.Second, "Tripline/1.0 vendor-notify")
	err := client.NotifyVendor(context.Background(), quote.VendorNotification{
		Title:     "Hotel Aurora",
		NotifyURL: partner.URL + "/hooks/tripline",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gatewayHit {
		t.Error("notification with a partner endpoint must not hit the gateway")
	}
	if partnerPath != "/hooks/tripline" {
		t.Errorf("got partner path %q, want /hooks/tripline", partnerPath)
	}
}

func TestNotifyVendorHTTPErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("unknown vendor"))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "token", time.Second, "Tripline/1.0 vendor-notify")
	err := client.NotifyVendor(context.Background(), quote.VendorNotification{Title: "Hotel"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status=422") || !strings.Contains(err.Error(), "body=unknown vendor") {
		t.Fatalf("expected status and body in error, got %v", err)
	}
}

func TestNotifyVendorTimeoutClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "token", 20*time.Millisecond, "Tripline/1.0 vendor-notify")
	err := client.NotifyVendor(context.Background(), quote.VendorNotification{Title: "Hotel"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "vendor notify timeout") {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}

func TestNotifyVendorEmptyConfig(t *testing.T) {
	client := NewClient("", "", time.Second, "")
	err := client.NotifyVendor(context.Background(), quote.VendorNotification{Title: "Hotel"})
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Fatalf("expected config error, got %v", err)
	}

	client = NewClient("", "token", time.Second, "")
	err = client.NotifyVendor(context.Background(), quote.VendorNotification{Title: "Hotel"})
	if err == nil || !strings.Contains(err.Error(), "base_url is empty") {
		t.Fatalf("expected config error, got %v", err)
	}
}
