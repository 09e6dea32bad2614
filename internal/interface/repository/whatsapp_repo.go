package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/domain/repository"
	"chalet-booking-service/pkg/logger"
)

// CallMeBot answers plain text; this marker is its only success signal.
const successMarker = "Message successfully sent"

// WhatsappRepository delivers confirmation messages through a CallMeBot-style
// gateway. Each booking carries its own api key, there is no service-wide
// credential.
type WhatsappRepository struct {
	logger   logger.Logger
	endpoint string
	client   *http.Client
}

// NewWhatsappRepository creates a new WhatsApp repository
func NewWhatsappRepository(logger logger.Logger, endpoint string) repository.NotificationRepository {
	if endpoint == "" {
		endpoint = "https://api.callmebot.com"
	}

	return &WhatsappRepository{
		logger:   logger,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers one text message to one phone number
func (r *WhatsappRepository) Send(ctx context.Context, phone, text, apiKey string) error {
	query := url.Values{}
	query.Set("phone", phone)
	query.Set("text", text)
	query.Set("apikey", apiKey)

	sendURL := fmt.Sprintf("%s/whatsapp.php?%s", r.endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sendURL, nil)
	if err != nil {
		return &entity.NotificationError{Err: err}
	}

	r.logger.Info("Sending WhatsApp notification", "phone", phone)

	resp, err := r.client.Do(req)
	if err != nil {
		return &entity.NotificationError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.NotificationError{Err: err}
	}

	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), successMarker) {
		return &entity.NotificationError{
			Err: fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	r.logger.Info("WhatsApp notification sent", "phone", phone)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
