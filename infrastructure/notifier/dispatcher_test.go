package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-manager-api/infrastructure/notifier/mocks"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func batchFor(productID int64) domain.InventoryChangeBatch {
	return domain.InventoryChangeBatch{
		BusinessID: 1,
		Events: []domain.InventoryChangeEvent{
			{ProductID: productID, QuantityBefore: 5, QuantityAfter: 2, MovementType: domain.MovementTypeSale},
		},
	}
}

func TestAsyncDispatcher_EntregaEventosAoFechar(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockNotifier(ctrl)
	next.EXPECT().InventoryChanged(gomock.Any(), batchFor(1)).Return(nil)
	next.EXPECT().InventoryChanged(gomock.Any(), batchFor(2)).Return(errors.New("webhook fora do ar"))
	next.EXPECT().LowStock(gomock.Any(), gomock.Any()).Return(nil)

	d := NewAsyncDispatcher(next, 10)

	assert.NoError(t, d.InventoryChanged(context.Background(), batchFor(1)))
	assert.NoError(t, d.InventoryChanged(context.Background(), batchFor(2)))
	assert.NoError(t, d.LowStock(context.Background(), domain.LowStockAlert{
		BusinessID: 1,
		Items:      []domain.LowStockItem{{ProductID: 1, StockQuantity: 1, ReorderLevel: 3}},
	}))

	d.Close()
}

func TestAsyncDispatcher_IgnoraEventosVazios(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockNotifier(ctrl)
	d := NewAsyncDispatcher(next, 1)

	assert.NoError(t, d.InventoryChanged(context.Background(), domain.InventoryChangeBatch{BusinessID: 1}))
	assert.NoError(t, d.LowStock(context.Background(), domain.LowStockAlert{BusinessID: 1}))

	d.Close()
}

type blockingNotifier struct {
	release   chan struct{}
	mu        sync.Mutex
	delivered int
}

func (b *blockingNotifier) InventoryChanged(_ context.Context, _ domain.InventoryChangeBatch) error {
	<-b.release
	b.mu.Lock()
	b.delivered++
	b.mu.Unlock()
	return nil
}

func (b *blockingNotifier) LowStock(_ context.Context, _ domain.LowStockAlert) error {
	return nil
}

func TestAsyncDispatcher_DescartaQuandoFilaCheia(t *testing.T) {
	next := &blockingNotifier{release: make(chan struct{})}
	d := NewAsyncDispatcher(next, 1)

	// o primeiro evento fica preso no worker, o segundo ocupa a fila e o terceiro é descartado
	require.NoError(t, d.InventoryChanged(context.Background(), batchFor(1)))
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, d.InventoryChanged(context.Background(), batchFor(2)))
	require.NoError(t, d.InventoryChanged(context.Background(), batchFor(3)))

	close(next.release)
	d.Close()

	assert.Equal(t, 2, next.delivered)
}

func TestAsyncDispatcher_DescartaAposClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockNotifier(ctrl)
	d := NewAsyncDispatcher(next, 1)
	d.Close()
	d.Close()

	assert.NoError(t, d.InventoryChanged(context.Background(), batchFor(1)))
}

func TestAsyncDispatcher_FalhaNoWebhookRegistraCodigoECorrelacao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hook := test.NewGlobal()
	defer hook.Reset()

	next := mocks.NewMockNotifier(ctrl)
	next.EXPECT().InventoryChanged(gomock.Any(), batchFor(1)).Return(errors.New("webhook fora do ar"))

	ctx, correlationID := log.WithCorrelationID(context.Background(), "")
	d := NewAsyncDispatcher(next, 1)
	require.NoError(t, d.InventoryChanged(ctx, batchFor(1)))
	d.Close()

	var failure *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Falha ao entregar notificação" {
			failure = entry
		}
	}
	require.NotNil(t, failure)
	assert.Equal(t, logrus.ErrorLevel, failure.Level)
	assert.Equal(t, apiErrors.ErrExternalService, failure.Data["code"])
	assert.Equal(t, EventInventoryChanged, failure.Data["event"])
	assert.Equal(t, correlationID, failure.Data["correlation_id"])
}
