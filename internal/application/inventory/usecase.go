package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// MovementUseCase registra movimientos directos de stock (ajustes
// manuales, el recurso sobre el que el rol vendedor sí puede escribir) y
// lista el libro de movimientos.
type MovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// Register valida y aplica un movimiento directo vía el motor de
// inventario, en su propia transacción.
func (uc *MovementUseCase) Register(ctx context.Context, in dto.RegisterMovementRequest) error {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.Kind != entity.MovementKindEntry && in.Kind != entity.MovementKindExit {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	delta := in.Quantity
	if in.Kind == entity.MovementKindExit {
		delta = delta.Neg()
	}
	reference := in.Reference
	if reference == "" {
		reference = "Ajuste"
	}
	reason := in.Reason
	if reason == "" {
		reason = "Ajuste manual"
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return ApplyDelta(movRepo, productRepo, in.ProductID, delta, reference, reason, now)
	})
}

// List devuelve el libro de movimientos, más recientes primero. Con
// productID se filtra a un solo producto.
func (uc *MovementUseCase) List(productID string, limit, offset int) (*dto.MovementListResponse, error) {
	var (
		list []*entity.StockMovement
		err  error
	)
	if productID != "" {
		list, err = uc.movRepo.ListByProduct(productID, nil, nil, limit, offset)
	} else {
		list, err = uc.movRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		Date:      m.Date,
	}
}
