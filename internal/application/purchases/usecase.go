package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/application/inventory"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// PurchaseUseCase registra compras a proveedores y sus asientos de
// entrada en el ledger, de forma transaccional.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

// Create registra la compra completa en una sola transacción: si alguna
// línea falla la validación se revierte todo, sin compra parcial. Por
// cada línea el ledger suma la cantidad al stock y registra una entrada
// con referencia "Compra#<id>".
func (uc *PurchaseUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	supplier, err := uc.resolveSupplier(in.SupplierID, in.SupplierName)
	if err != nil {
		return nil, err
	}

	// Validar productos fuera de la tx (solo lectura)
	for _, l := range in.Lines {
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: supplier.ID,
		Date:       now,
		Notes:      in.Notes,
		Total:      decimal.Zero,
		CreatedAt:  now,
	}
	reference := fmt.Sprintf("Compra#%s", purchase.ID)

	err = uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		total := decimal.Zero
		for _, l := range in.Lines {
			line := &entity.PurchaseLine{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitCost:   l.UnitCost,
			}
			if err := purchaseRepo.CreateLine(line); err != nil {
				return err
			}
			if err := inventory.ApplyDelta(movRepo, productRepo, l.ProductID, l.Quantity, reference, "Ingreso por compra", now); err != nil {
				return err
			}
			total = total.Add(line.Subtotal())
			purchase.Lines = append(purchase.Lines, *line)
		}
		purchase.Total = total
		return purchaseRepo.UpdateTotal(purchase.ID, total)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// UpdateLine cambia la cantidad de una línea existente. El ledger recibe
// solo el incremento (cantidad nueva − anterior) para no duplicar efectos
// ya aplicados; incremento cero no registra nada.
func (uc *PurchaseUseCase) UpdateLine(ctx context.Context, lineID string, in dto.UpdatePurchaseLineRequest) error {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	line, err := uc.purchaseRepo.GetLine(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}

	delta := in.Quantity.Sub(line.Quantity)
	now := time.Now()
	reference := fmt.Sprintf("Compra#%s", line.PurchaseID)

	return uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := purchaseRepo.UpdateLineQuantity(lineID, in.Quantity); err != nil {
			return err
		}
		if err := inventory.ApplyDelta(movRepo, productRepo, line.ProductID, delta, reference, "Ajuste de línea de compra", now); err != nil {
			return err
		}
		purchase, err := purchaseRepo.GetByID(line.PurchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		total := decimal.Zero
		for _, l := range purchase.Lines {
			total = total.Add(l.Subtotal())
		}
		return purchaseRepo.UpdateTotal(purchase.ID, total)
	})
}

// Delete elimina la compra revirtiendo el stock de cada línea con
// asientos de salida. Si algún producto quedaría en negativo, nada se
// aplica.
func (uc *PurchaseUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		purchase, err := purchaseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		reference := fmt.Sprintf("Compra#%s", purchase.ID)
		for _, l := range purchase.Lines {
			if err := inventory.ApplyDelta(movRepo, productRepo, l.ProductID, l.Quantity.Neg(), reference, "Reverso por eliminación de compra", now); err != nil {
				return err
			}
		}
		return purchaseRepo.Delete(purchase.ID)
	})
}

// GetByID devuelve la compra con sus líneas.
func (uc *PurchaseUseCase) GetByID(id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, nil
	}
	return toPurchaseResponse(purchase), nil
}

// List lista compras con paginación, más recientes primero.
func (uc *PurchaseUseCase) List(limit, offset int) (*dto.PurchaseListResponse, error) {
	list, err := uc.purchaseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// resolveSupplier obtiene el proveedor por ID, o por nombre exacto
// creándolo si no existe (comportamiento del formulario de compras).
func (uc *PurchaseUseCase) resolveSupplier(id, name string) (*entity.Supplier, error) {
	if id != "" {
		supplier, err := uc.supplierRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
		return supplier, nil
	}
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		return supplier, nil
	}
	supplier = &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	lines := make([]dto.PurchaseLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, dto.PurchaseLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Subtotal:  l.Subtotal(),
		})
	}
	return &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Date:       p.Date,
		Notes:      p.Notes,
		Total:      p.Total,
		Lines:      lines,
	}
}
