package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RelaySender пересылает запросы помощи внешнему релею (Discord-бот).
// Сбой релея никогда не трогает состояние каталога или прогресса.
type RelaySender struct {
	relayURL string
	apiKey   string
	client   *http.Client
}

func NewRelaySender(relayURL, apiKey string) *RelaySender {
	return &RelaySender{
		relayURL: relayURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type HelpRequest struct {
	RequesterID          string `json:"requesterId"`
	RequesterDisplayName string `json:"requesterDisplayName"`
	TechID               string `json:"techId"`
	Message              string `json:"message"`
}

func (s *RelaySender) Send(ctx context.Context, req HelpRequest) error {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.relayURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("relay error: status=%d body=%s", resp.StatusCode, respBody)
	}
	return nil
}
