package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Verifier contrasta periódicamente la caché de saldos con un plegado completo.
type Verifier struct {
	ledger   *LedgerUseCase
	interval time.Duration
	log      *logger.Logger
}

// NewVerifier construye el verificador. interval <= 0 lo desactiva.
func NewVerifier(ledger *LedgerUseCase, interval time.Duration, log *logger.Logger) *Verifier {
	return &Verifier{ledger: ledger, interval: interval, log: log.Named("verifier")}
}

// Run bloquea hasta que ctx se cancele. Los errores de una pasada se registran
// y no detienen el ciclo.
func (v *Verifier) Run(ctx context.Context) error {
	if v.interval <= 0 {
		v.log.Info().Msg("verificador desactivado")
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			res, err := v.ledger.Verify(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				v.log.Error().Err(err).Msg("verificación fallida")
				continue
			}
			v.log.Debug().Int("movements", res.Movements).Bool("rebuilt", res.Rebuilt).Msg("proyección verificada")
		}
	}
}
