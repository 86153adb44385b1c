package purchases

import (
	"context"

	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// TxRunner ejecuta el ciclo de vida de una compra dentro de una
// transacción: cabecera, líneas y asientos del ledger, todo o nada.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}
