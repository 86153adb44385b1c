package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// ApplyDelta es el motor del libro de stock. Aplica un delta con signo al
// stock de un producto y registra exactamente un movimiento compensatorio,
// todo dentro de la transacción del caller (los repos deben venir atados a
// una tx). Delta positivo = entrada, negativo = salida.
//
// Bloquea la fila del producto (SELECT FOR UPDATE) para serializar
// compras/ventas concurrentes sobre el mismo producto. Si la salida
// dejaría el stock negativo retorna *domain.InsufficientStockError sin
// mutar nada; delta cero no registra nada.
//
// Se invoca desde cuatro puntos: línea de compra creada/actualizada/
// eliminada, línea de venta creada/actualizada/eliminada, eliminación de
// deuda pendiente y movimiento directo vía API. En actualizaciones el
// caller calcula delta = cantidad nueva − cantidad anterior, de modo que
// solo se registra el incremento.
func ApplyDelta(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	delta decimal.Decimal,
	reference, reason string,
	now time.Time,
) error {
	if delta.IsZero() {
		return nil
	}

	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	newStock := product.Stock.Add(delta)
	if newStock.IsNegative() {
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   delta.Neg(),
			Available:   product.Stock,
		}
	}

	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return err
	}

	kind := entity.MovementKindEntry
	if delta.IsNegative() {
		kind = entity.MovementKindExit
	}
	mov := &entity.StockMovement{
		ProductID: product.ID,
		Kind:      kind,
		Quantity:  delta.Abs(),
		Reason:    reason,
		Reference: reference,
		Date:      now,
	}
	return movRepo.Create(mov)
}
