package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/log"
)

const deliveryTimeout = 10 * time.Second

type job struct {
	kind  string
	batch domain.InventoryChangeBatch
	alert domain.LowStockAlert
	// logger guarda a correlação da requisição que originou o evento
	logger log.Logger
}

// AsyncDispatcher entrega os eventos em segundo plano para não atrasar a resposta da venda.
// Com a fila cheia o evento é descartado; falhas de entrega só são registradas em log.
type AsyncDispatcher struct {
	next   Notifier
	queue  chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncDispatcher(next Notifier, queueSize int) *AsyncDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}

	d := &AsyncDispatcher{
		next:  next,
		queue: make(chan job, queueSize),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

func (d *AsyncDispatcher) InventoryChanged(ctx context.Context, batch domain.InventoryChangeBatch) error {
	if len(batch.Events) == 0 {
		return nil
	}
	d.enqueue(ctx, job{kind: EventInventoryChanged, batch: batch})
	return nil
}

func (d *AsyncDispatcher) LowStock(ctx context.Context, alert domain.LowStockAlert) error {
	if len(alert.Items) == 0 {
		return nil
	}
	d.enqueue(ctx, job{kind: EventLowStock, alert: alert})
	return nil
}

func (d *AsyncDispatcher) enqueue(ctx context.Context, j job) {
	j.logger = log.ForContext(ctx).WithField("event", j.kind)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		j.logger.Warn("Dispatcher encerrado, evento descartado")
		return
	}

	select {
	case d.queue <- j:
	default:
		j.logger.Warn("Fila de notificações cheia, evento descartado")
	}
}

// Close para de aceitar eventos e aguarda a entrega dos que já estão na fila
func (d *AsyncDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()

	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *AsyncDispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("Panic ao entregar notificação: %v", r)
		}
	}()

	var err error
	switch j.kind {
	case EventInventoryChanged:
		err = d.next.InventoryChanged(ctx, j.batch)
	case EventLowStock:
		err = d.next.LowStock(ctx, j.alert)
	}

	if err != nil {
		j.logger.WithError(err).WithField("code", apiErrors.ErrExternalService).Error("Falha ao entregar notificação")
	}
}
