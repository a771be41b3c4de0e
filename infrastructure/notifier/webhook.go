package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/shop-manager-api/internal/config"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	ID         string      `json:"id"`
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// WebhookNotifier envia cada evento via POST JSON para a URL configurada
type WebhookNotifier struct {
	httpClient *http.Client
	url        string
	now        func() time.Time
}

func NewWebhookNotifier(cfg config.Notifier) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		url: cfg.WebhookURL,
		now: time.Now,
	}
}

func (n *WebhookNotifier) InventoryChanged(ctx context.Context, batch domain.InventoryChangeBatch) error {
	return n.post(ctx, EventInventoryChanged, batch)
}

func (n *WebhookNotifier) LowStock(ctx context.Context, alert domain.LowStockAlert) error {
	return n.post(ctx, EventLowStock, alert)
}

func (n *WebhookNotifier) post(ctx context.Context, event string, data interface{}) error {
	payload := envelope{
		ID:         uuid.NewString(),
		Event:      event,
		OccurredAt: n.now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar evento %s: %w", event, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", event)
	req.Header.Set("X-Delivery-ID", payload.ID)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook respondeu com status %s: %s", resp.Status, respBody)
	}

	return nil
}
