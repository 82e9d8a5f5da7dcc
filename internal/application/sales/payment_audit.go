package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// ErrPaymentAuditDropped se emite cuando la cola de auditoría está llena o cerrada.
var ErrPaymentAuditDropped = errors.New("auditoría de pago descartada")

const paymentAuditTimeout = 5 * time.Second

// PaymentRecorder escribe los PaymentTransaction fuera de la transacción de la venta.
// Record nunca bloquea; los fallos se registran en el log y se publican en Errors().
type PaymentRecorder struct {
	repo  repository.PaymentTransactionRepository
	log   *logger.Logger
	queue chan *entity.PaymentTransaction
	errs  chan error

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewPaymentRecorder arranca el worker de auditoría con una cola de tamaño buffer.
func NewPaymentRecorder(repo repository.PaymentTransactionRepository, log *logger.Logger, buffer int) *PaymentRecorder {
	if buffer <= 0 {
		buffer = 64
	}
	r := &PaymentRecorder{
		repo:  repo,
		log:   log,
		queue: make(chan *entity.PaymentTransaction, buffer),
		errs:  make(chan error, buffer),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record encola el registro. Si la cola está llena el registro se descarta.
func (r *PaymentRecorder) Record(p *entity.PaymentTransaction) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.warn(p, ErrPaymentAuditDropped)
		return
	}
	select {
	case r.queue <- p:
	default:
		r.fail(p, ErrPaymentAuditDropped)
	}
}

// Errors canal de fallos de auditoría. Se cierra en Close.
// Si nadie lo lee, los errores más allá del buffer se descartan.
func (r *PaymentRecorder) Errors() <-chan error {
	return r.errs
}

// Close deja de aceptar registros y espera a que se escriban los encolados.
func (r *PaymentRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
	close(r.errs)
}

func (r *PaymentRecorder) run() {
	defer close(r.done)
	for p := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), paymentAuditTimeout)
		err := r.repo.Create(ctx, p)
		cancel()
		if err != nil {
			r.fail(p, err)
		}
	}
}

func (r *PaymentRecorder) fail(p *entity.PaymentTransaction, err error) {
	r.warn(p, err)
	select {
	case r.errs <- fmt.Errorf("payment audit sale %s: %w", p.SaleID, err):
	default:
	}
}

func (r *PaymentRecorder) warn(p *entity.PaymentTransaction, err error) {
	r.log.Warn().Err(err).
		Str("sale_id", p.SaleID).
		Str("amount", p.Amount.StringFixed(2)).
		Msg("no se pudo registrar la auditoría del pago")
}
