// Package httpapi sends email through a Resend-style JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	maildomain "github.com/Huve14/Go-Moto-sub000/internal/mail/domain"
	"github.com/Huve14/Go-Moto-sub000/internal/observability/logger"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

type Sender struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
	log     *zap.Logger
}

func NewSender(baseURL, apiKey, from string, log *zap.Logger) *Sender {
	return &Sender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     log.Named("mail.httpapi"),
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (s *Sender) Send(ctx context.Context, msg maildomain.Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" || !strings.Contains(to, "@") {
		return maildomain.ErrInvalidRecipient
	}

	body, err := json.Marshal(sendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", maildomain.ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.log.Warn("mail api rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("api_key", logger.MaskAPIKey(s.apiKey)),
			zap.ByteString("body", detail),
		)
		return fmt.Errorf("%w: status %d", maildomain.ErrSendFailed, resp.StatusCode)
	}
	return nil
}
