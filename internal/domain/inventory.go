package domain

import "time"

type MovementType string

const (
	MovementTypeSale           MovementType = "sale"
	MovementTypeStockIn        MovementType = "stock_in"
	MovementTypeAdjustment     MovementType = "adjustment"
	MovementTypeProductCreated MovementType = "product_created"
)

// InventoryMovement é o registro de auditoria de uma alteração de estoque (somente inserção)
type InventoryMovement struct {
	ID             int64        `json:"id"`
	BusinessID     int64        `json:"business_id"`
	ProductID      int64        `json:"product_id"`
	ProductName    string       `json:"product_name"`
	QuantityBefore int          `json:"quantity_before"`
	QuantityAfter  int          `json:"quantity_after"`
	Type           MovementType `json:"movement_type"`
	ReferenceID    string       `json:"reference_id"`
	Notes          string       `json:"notes"`
	CreatedBy      int          `json:"created_by"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (m *InventoryMovement) Delta() int {
	return m.QuantityAfter - m.QuantityBefore
}

func (m *InventoryMovement) ToEvent() InventoryChangeEvent {
	return InventoryChangeEvent{
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		MovementType:   m.Type,
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		Timestamp:      m.CreatedAt,
	}
}

type MovementFilters struct {
	ProductID *int64
	Type      MovementType
	StartDate *time.Time
	EndDate   *time.Time
}

// InventoryChangeEvent é o payload enviado ao canal de notificações em tempo real
type InventoryChangeEvent struct {
	ProductID      int64        `json:"productId"`
	ProductName    string       `json:"productName"`
	QuantityBefore int          `json:"quantityBefore"`
	QuantityAfter  int          `json:"quantityAfter"`
	MovementType   MovementType `json:"movementType"`
	ReferenceID    string       `json:"referenceId"`
	Notes          string       `json:"notes"`
	Timestamp      time.Time    `json:"timestamp"`
}

type InventoryChangeBatch struct {
	BusinessID int64                  `json:"businessId"`
	Events     []InventoryChangeEvent `json:"events"`
}

// NewInventoryChangeBatch agrupa as movimentações de uma mesma operação em um único evento
func NewInventoryChangeBatch(businessID int64, movements []*InventoryMovement) InventoryChangeBatch {
	events := make([]InventoryChangeEvent, 0, len(movements))
	for _, m := range movements {
		events = append(events, m.ToEvent())
	}
	return InventoryChangeBatch{BusinessID: businessID, Events: events}
}

type LowStockItem struct {
	ProductID     int64  `json:"productId"`
	ProductName   string `json:"productName"`
	StockQuantity int    `json:"stockQuantity"`
	ReorderLevel  int    `json:"reorderLevel"`
}

type LowStockAlert struct {
	BusinessID int64          `json:"businessId"`
	Items      []LowStockItem `json:"items"`
	DetectedAt time.Time      `json:"detectedAt"`
}

// NewLowStockAlerts agrupa os produtos com estoque baixo por empresa, mantendo a ordem de entrada
func NewLowStockAlerts(products []*Product, detectedAt time.Time) []LowStockAlert {
	alerts := make([]LowStockAlert, 0)
	index := make(map[int64]int)
	for _, p := range products {
		item := LowStockItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			StockQuantity: p.StockQuantity,
			ReorderLevel:  p.ReorderLevel,
		}
		pos, exists := index[p.BusinessID]
		if !exists {
			index[p.BusinessID] = len(alerts)
			alerts = append(alerts, LowStockAlert{BusinessID: p.BusinessID, DetectedAt: detectedAt})
			pos = len(alerts) - 1
		}
		alerts[pos].Items = append(alerts[pos].Items, item)
	}
	return alerts
}
