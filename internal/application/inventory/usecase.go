package inventory

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

const (
	maxReferenceLen = 100
	maxNotesLen     = 500
	maxBatchSize    = 200
)

// WriterConfig reglas del registrador.
type WriterConfig struct {
	AllowNegative  bool // false: una salida que deja saldo negativo falla con INSUFFICIENT_STOCK
	AllowClientIDs bool // true solo fuera de producción
	CostPolicy     inventory.CostPolicy
}

// RecordMovementUseCase es el único punto que escribe en el libro y en el agregado de stock.
// Cada llamada es una unidad de trabajo: bloquea el agregado del producto (SELECT FOR UPDATE),
// calcula el movimiento, lo inserta, actualiza el agregado y hace Commit o Rollback.
type RecordMovementUseCase struct {
	txRunner TxRunner
	cfg      WriterConfig
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewRecordMovementUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewRecordMovementUseCase(txRunner TxRunner, cfg WriterConfig, metrics Metrics, log *logger.Logger) *RecordMovementUseCase {
	if cfg.CostPolicy == nil {
		cfg.CostPolicy = inventory.LastWriteWins{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordMovementUseCase{
		txRunner: txRunner,
		cfg:      cfg,
		metrics:  metrics,
		log:      log.WithComponent("ledger"),
		now:      time.Now,
	}
}

// command intención ya traducida, lista para aplicarse dentro de la transacción.
type command struct {
	id          string
	productID   string
	warehouseID string
	lotID       *string
	supplierID  *string
	source      entity.Source
	intent      inventory.Intent
	unitCost    *decimal.Decimal
	reference   *string
	notes       *string
}

// Adjust ajusta la cantidad del producto a un objetivo. Falla con NO_CHANGE si ya es igual.
func (uc *RecordMovementUseCase) Adjust(ctx context.Context, enterpriseID, userID string, in AdjustInput) (*entity.StockMovement, error) {
	return uc.recordOne(ctx, enterpriseID, userID, command{
		productID:   in.ProductID,
		warehouseID: in.WarehouseID,
		source:      entity.SourceAdjustment,
		intent:      inventory.AdjustTo(in.TargetQuantity),
		notes:       in.Notes,
	})
}

// Harvest registra una entrada por cosecha. La cantidad debe ser > 0.
func (uc *RecordMovementUseCase) Harvest(ctx context.Context, enterpriseID, userID string, in HarvestInput) (*entity.StockMovement, error) {
	return uc.recordOne(ctx, enterpriseID, userID, command{
		productID:   in.ProductID,
		warehouseID: in.WarehouseID,
		lotID:       in.LotID,
		source:      entity.SourceHarvest,
		intent:      inventory.Receive(in.Quantity),
		notes:       in.Notes,
	})
}

// Record registra un movimiento con dirección y origen explícitos (compras, producción, ventas).
// Si in.ID se respeta y ya existe un movimiento con ese ID, lo devuelve sin escribir.
func (uc *RecordMovementUseCase) Record(ctx context.Context, enterpriseID, userID string, in MovementInput) (*entity.StockMovement, error) {
	cmd, err := uc.commandFrom(in)
	if err != nil {
		uc.reject(enterpriseID, err)
		return nil, err
	}
	return uc.recordOne(ctx, enterpriseID, userID, cmd)
}

// RecordBatch registra varios movimientos en una sola unidad de trabajo: todos o ninguno.
// El resultado conserva el orden de la entrada.
func (uc *RecordMovementUseCase) RecordBatch(ctx context.Context, enterpriseID, userID string, in []MovementInput) ([]*entity.StockMovement, error) {
	if len(in) == 0 || len(in) > maxBatchSize {
		err := domain.Validation("el lote debe tener entre 1 y 200 movimientos")
		uc.reject(enterpriseID, err)
		return nil, err
	}
	cmds := make([]command, 0, len(in))
	for _, mi := range in {
		cmd, err := uc.commandFrom(mi)
		if err != nil {
			uc.reject(enterpriseID, err)
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return uc.run(ctx, enterpriseID, userID, cmds)
}

func (uc *RecordMovementUseCase) commandFrom(in MovementInput) (command, error) {
	cmd := command{
		productID:   in.ProductID,
		warehouseID: in.WarehouseID,
		lotID:       in.LotID,
		supplierID:  in.SupplierID,
		source:      in.Source,
		intent:      inventory.Explicit(in.Direction, in.Quantity),
		unitCost:    in.UnitCost,
		reference:   in.Reference,
		notes:       in.Notes,
	}
	if id := strings.TrimSpace(in.ID); id != "" && uc.cfg.AllowClientIDs {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return command{}, domain.Validation("id debe ser un UUID")
		}
		cmd.id = parsed.String()
	}
	return cmd, nil
}

func (uc *RecordMovementUseCase) recordOne(ctx context.Context, enterpriseID, userID string, cmd command) (*entity.StockMovement, error) {
	out, err := uc.run(ctx, enterpriseID, userID, []command{cmd})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (uc *RecordMovementUseCase) run(ctx context.Context, enterpriseID, userID string, cmds []command) ([]*entity.StockMovement, error) {
	if strings.TrimSpace(enterpriseID) == "" {
		err := domain.Validation("enterprise_id es obligatorio")
		uc.reject(enterpriseID, err)
		return nil, err
	}
	for i := range cmds {
		if err := normalize(&cmds[i]); err != nil {
			uc.reject(enterpriseID, err)
			return nil, err
		}
	}

	// Bloqueos siempre en el mismo orden de producto para no provocar deadlocks entre lotes.
	order := make([]int, len(cmds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cmds[order[a]].productID < cmds[order[b]].productID
	})

	var (
		out     []*entity.StockMovement
		created []bool
	)
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		finder repository.EntityFinder,
	) error {
		// fn puede ejecutarse más de una vez si el TxRunner reintenta.
		out = make([]*entity.StockMovement, len(cmds))
		created = make([]bool, len(cmds))
		for _, i := range order {
			m, isNew, err := uc.apply(ctx, movRepo, stockRepo, finder, enterpriseID, userID, cmds[i])
			if err != nil {
				return err
			}
			out[i], created[i] = m, isNew
		}
		return nil
	})
	if err != nil {
		uc.reject(enterpriseID, err)
		return nil, err
	}

	for i, m := range out {
		if !created[i] {
			uc.log.Debug().
				Str("enterprise_id", enterpriseID).
				Str("movement_id", m.ID).
				Msg("movimiento ya registrado, se devuelve el existente")
			continue
		}
		uc.metrics.MovementRecorded(m.Source, m.Direction, m.Quantity)
		uc.log.Info().
			Str("enterprise_id", enterpriseID).
			Str("product_id", m.ProductID).
			Str("movement_id", m.ID).
			Str("direction", string(m.Direction)).
			Str("source", string(m.Source)).
			Str("quantity", m.Quantity.String()).
			Str("balance", m.Balance.String()).
			Int64("sequence", m.Sequence).
			Msg("movimiento registrado")
	}
	return out, nil
}

// apply ejecuta un comando dentro de la transacción. Devuelve false si el movimiento ya existía.
func (uc *RecordMovementUseCase) apply(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	finder repository.EntityFinder,
	enterpriseID, userID string,
	cmd command,
) (*entity.StockMovement, bool, error) {
	if err := checkRefs(ctx, finder, enterpriseID, cmd); err != nil {
		return nil, false, err
	}

	agg, err := stockRepo.GetForUpdate(ctx, enterpriseID, cmd.productID)
	if err != nil {
		return nil, false, err
	}

	// Con el agregado bloqueado, un reintento concurrente del mismo ID ya ve el registro confirmado.
	if cmd.id != "" {
		existing, err := movRepo.GetByID(ctx, enterpriseID, cmd.id)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			if existing.ProductID != cmd.productID {
				return nil, false, domain.Duplicate("el id ya pertenece a un movimiento de otro producto").
					WithDetail("id", cmd.id)
			}
			return existing, false, nil
		}
	}

	outcome, err := inventory.Calculate(agg.Quantity, cmd.intent)
	if err != nil {
		return nil, false, err
	}
	if !uc.cfg.AllowNegative && outcome.Direction == entity.DirectionOut && outcome.Balance.IsNegative() {
		return nil, false, domain.InsufficientStock(cmd.productID, outcome.Quantity.String(), agg.Quantity.String())
	}
	movementCost, aggregateCost := uc.cfg.CostPolicy.Apply(agg, outcome, cmd.unitCost)

	now := uc.now().UTC()
	id := cmd.id
	if id == "" {
		id = uuid.NewString()
	}
	m := &entity.StockMovement{
		ID:           id,
		EnterpriseID: enterpriseID,
		ProductID:    cmd.productID,
		WarehouseID:  cmd.warehouseID,
		LotID:        cmd.lotID,
		SupplierID:   cmd.supplierID,
		Direction:    outcome.Direction,
		Source:       cmd.source,
		Quantity:     outcome.Quantity,
		Balance:      outcome.Balance,
		UnitCost:     movementCost,
		Reference:    cmd.reference,
		Notes:        cmd.notes,
		Sequence:     agg.LastSequence + 1,
		CreatedBy:    optional(userID),
		CreatedAt:    now,
	}
	if err := movRepo.Create(ctx, m); err != nil {
		return nil, false, err
	}

	agg.Quantity = outcome.Balance
	agg.UnitCost = aggregateCost
	agg.LastSequence = m.Sequence
	agg.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, agg); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// checkRefs valida que producto, bodega y, si vienen, proveedor y lote existan en la empresa.
func checkRefs(ctx context.Context, finder repository.EntityFinder, enterpriseID string, cmd command) error {
	refs := []struct {
		kind entity.Kind
		id   *string
	}{
		{entity.KindProduct, &cmd.productID},
		{entity.KindWarehouse, &cmd.warehouseID},
		{entity.KindSupplier, cmd.supplierID},
		{entity.KindLot, cmd.lotID},
	}
	for _, r := range refs {
		if r.id == nil {
			continue
		}
		ref, err := finder.FindActiveEntity(ctx, r.kind, *r.id, enterpriseID)
		if err != nil {
			return err
		}
		if ref == nil {
			return domain.NotFound(string(r.kind), *r.id)
		}
	}
	return nil
}

func normalize(cmd *command) error {
	cmd.productID = strings.TrimSpace(cmd.productID)
	cmd.warehouseID = strings.TrimSpace(cmd.warehouseID)
	if cmd.productID == "" {
		return domain.Validation("product_id es obligatorio")
	}
	if cmd.warehouseID == "" {
		return domain.Validation("warehouse_id es obligatorio")
	}
	if !cmd.source.Valid() {
		return domain.Validation("origen inválido: " + string(cmd.source))
	}
	if err := inventory.ValidateSuppliedCost(cmd.unitCost); err != nil {
		return err
	}
	cmd.lotID = trimmed(cmd.lotID)
	cmd.supplierID = trimmed(cmd.supplierID)
	cmd.reference = trimmed(cmd.reference)
	cmd.notes = trimmed(cmd.notes)
	if cmd.reference != nil && utf8.RuneCountInString(*cmd.reference) > maxReferenceLen {
		return domain.Validation("reference supera 100 caracteres")
	}
	if cmd.notes != nil && utf8.RuneCountInString(*cmd.notes) > maxNotesLen {
		return domain.Validation("notes supera 500 caracteres")
	}
	return nil
}

func (uc *RecordMovementUseCase) reject(enterpriseID string, err error) {
	code := domain.CodeOf(err)
	uc.metrics.MovementRejected(code)
	ev := uc.log.Debug()
	if code == domain.CodeInternal {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("enterprise_id", enterpriseID).Str("code", code).Msg("movimiento rechazado")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
