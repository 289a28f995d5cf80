package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

var tracer = otel.Tracer("inventory-ledger/postgres")

var _ inventory.TxRunner = (*TxRunner)(nil)

// Resultados de una transacción reportados al observador.
const (
	OutcomeCommit   = "commit"
	OutcomeRollback = "rollback"
	OutcomeConflict = "conflict"
)

// TxObserver recibe reintentos y duración de cada transacción.
type TxObserver interface {
	TxRetried()
	TxFinished(outcome string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) TxRetried()                        {}
func (nopObserver) TxFinished(string, time.Duration) {}

// TxOptions aislamiento, timeout y reintentos de las transacciones del libro.
type TxOptions struct {
	Isolation        pgx.TxIsoLevel
	StatementTimeout time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
}

// TxOptionsFromConfig traduce LedgerConfig a opciones de transacción.
func TxOptionsFromConfig(cfg config.LedgerConfig) TxOptions {
	return TxOptions{
		Isolation:        ParseIsolation(cfg.Isolation),
		StatementTimeout: cfg.StatementTimeout,
		MaxRetries:       cfg.MaxRetries,
		RetryBaseDelay:   cfg.RetryBaseDelay,
	}
}

// ParseIsolation read_committed (por defecto), repeatable_read o serializable.
func ParseIsolation(s string) pgx.TxIsoLevel {
	switch s {
	case "serializable":
		return pgx.Serializable
	case "repeatable_read":
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los fallos de serialización y deadlocks repiten la transacción completa con backoff exponencial.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
	obs  TxObserver
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool. obs y log pueden ser nil.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions, obs TxObserver, log *logger.Logger) *TxRunner {
	if obs == nil {
		obs = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 10 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &TxRunner{pool: pool, opts: opts, obs: obs, log: log.WithComponent("tx")}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Agotados los reintentos devuelve un error CONFLICT.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	finder repository.EntityFinder,
) error) error {
	ctx, span := tracer.Start(ctx, "ledger.transaction",
		trace.WithAttributes(attribute.String("tx.isolation", string(r.opts.Isolation))))
	defer span.End()

	start := time.Now()
	attempts, err := r.retryConflicts(ctx, func(ctx context.Context) error {
		return r.runOnce(ctx, fn)
	})
	span.SetAttributes(attribute.Int("tx.attempts", attempts))

	outcome := OutcomeCommit
	if err != nil {
		outcome = OutcomeRollback
		if errors.Is(err, domain.ErrConflict) {
			outcome = OutcomeConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.CodeOf(err))
	}
	r.obs.TxFinished(outcome, time.Since(start))
	return err
}

// retryConflicts repite attempt mientras falle por serialización, deadlock o secuencia repetida,
// hasta MaxRetries reintentos. Agotados, el error es CONFLICT con el número de intentos.
func (r *TxRunner) retryConflicts(ctx context.Context, attempt func(ctx context.Context) error) (int, error) {
	attempts := 0
	var lastErr error
	backoff := retry.WithMaxRetries(uint64(r.opts.MaxRetries), retry.NewExponential(r.opts.RetryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			r.obs.TxRetried()
			r.log.Warn().Err(lastErr).Int("attempt", attempts).Msg("conflicto concurrente, reintentando transacción")
		}
		err := attempt(ctx)
		if isRetryable(err) {
			lastErr = err
			return retry.RetryableError(err)
		}
		return err
	})
	if isRetryable(err) {
		return attempts, domain.Conflict("escritura concurrente: reintentos agotados", err).
			WithDetail("attempts", attempts)
	}
	return attempts, err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	finder repository.EntityFinder,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.opts.Isolation})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if r.opts.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", r.opts.StatementTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			r.rollback(tx, err)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(ctx, NewStockMovementRepository(tx), NewStockRepository(tx), NewEntityFinder(tx)); err != nil {
		r.rollback(tx, err)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback usa un contexto propio: el de la petición puede estar cancelado.
func (r *TxRunner) rollback(tx pgx.Tx, cause error) {
	if err := tx.Rollback(context.Background()); err != nil {
		r.log.Error().Err(err).AnErr("cause", cause).Msg("rollback falló")
	}
}
