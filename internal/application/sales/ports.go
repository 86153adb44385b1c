package sales

import (
	"context"

	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// TxRunner ejecuta el ciclo de vida de una venta dentro de una
// transacción: cabecera, líneas y asientos del ledger, todo o nada.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
