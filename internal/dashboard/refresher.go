// Package dashboard implementa el refresco periódico de estadísticas y
// alertas mientras la vista del panel está activa.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/inventario-inei/internal/domain"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

// Fetcher subconjunto del gateway que necesita el refresco.
type Fetcher interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	Alerts(ctx context.Context) ([]domain.Alert, error)
}

// Snapshot datos del panel en un instante.
type Snapshot struct {
	Stats  *domain.Stats
	Alerts []domain.Alert
	Err    error
}

// Refresher consulta stats y alertas a intervalo fijo mientras el panel está
// montado. Stop cancela el ticker para no filtrar trabajo ni actualizar una
// vista ya desmontada.
type Refresher struct {
	interval time.Duration
	api      Fetcher
	onUpdate func(Snapshot)
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher construye el refresco. onUpdate se invoca con cada snapshot,
// incluido el inicial.
func NewRefresher(interval time.Duration, api Fetcher, onUpdate func(Snapshot), log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	return &Refresher{interval: interval, api: api, onUpdate: onUpdate, log: log}
}

// Fetch hace una consulta puntual (el botón "Actualizar").
func (r *Refresher) Fetch(ctx context.Context) Snapshot {
	stats, err := r.api.Stats(ctx)
	if err != nil {
		return Snapshot{Err: err}
	}
	alerts, err := r.api.Alerts(ctx)
	if err != nil {
		// Las alertas son secundarias: el panel se muestra igual sin ellas.
		r.log.Warn().Err(err).Msg("no se pudieron cargar las alertas")
	}
	return Snapshot{Stats: stats, Alerts: alerts}
}

// Start lanza el ciclo: snapshot inmediato y luego uno por intervalo.
// Si ya estaba corriendo no hace nada.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.onUpdate(r.Fetch(ctx))

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.onUpdate(r.Fetch(ctx))
			}
		}
	}()
}

// Stop cancela el refresco y espera a que el ciclo termine. Idempotente.
// Tras Stop no se invoca onUpdate nunca más.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
