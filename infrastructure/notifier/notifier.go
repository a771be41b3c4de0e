package notifier

import (
	"context"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

const (
	EventInventoryChanged = "inventory.changed"
	EventLowStock         = "inventory.low_stock"
)

// Notifier publica eventos de estoque para os clientes interessados (painel, integrações)
type Notifier interface {
	InventoryChanged(ctx context.Context, batch domain.InventoryChangeBatch) error
	LowStock(ctx context.Context, alert domain.LowStockAlert) error
}

// LogNotifier apenas registra os eventos; usado quando nenhum webhook está configurado
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) InventoryChanged(ctx context.Context, batch domain.InventoryChangeBatch) error {
	for _, event := range batch.Events {
		log.ForContext(ctx).WithFields(log.Fields{
			"event":       EventInventoryChanged,
			"business_id": batch.BusinessID,
			"product_id":  event.ProductID,
			"before":      event.QuantityBefore,
			"after":       event.QuantityAfter,
			"type":        event.MovementType,
			"reference":   event.ReferenceID,
		}).Info("Estoque alterado")
	}
	return nil
}

func (n *LogNotifier) LowStock(ctx context.Context, alert domain.LowStockAlert) error {
	for _, item := range alert.Items {
		log.ForContext(ctx).WithFields(log.Fields{
			"event":         EventLowStock,
			"business_id":   alert.BusinessID,
			"product_id":    item.ProductID,
			"stock":         item.StockQuantity,
			"reorder_level": item.ReorderLevel,
		}).Warn("Produto com estoque baixo")
	}
	return nil
}
