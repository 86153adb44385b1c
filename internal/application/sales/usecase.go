package sales

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

// Acciones aceptadas por el POS al cerrar una venta.
const (
	ActionSave = "guardar" // venta de contado
	ActionDebt = "deuda"   // venta a crédito (fiado)
)

// SaleUseCase registra ventas de contado y a deuda, gestiona el ciclo de
// vida de las deudas (pagar, eliminar) y arma los listados de deudores.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
	}
}

// Create registra la venta completa en una sola transacción. Cada línea
// descuenta stock vía el ledger con referencia "Venta#<id>"; si algún
// producto no alcanza, toda la venta se revierte. Con action "deuda" el
// cliente es obligatorio y queda pendiente de pago; el precio unitario
// vacío se completa con el precio de lista del producto.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.Action != ActionSave && in.Action != ActionDebt {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	isDebt := in.Action == ActionDebt
	var clientID *string
	if isDebt || in.ClientID != "" || in.ClientName != "" {
		client, err := uc.resolveClient(in.ClientID, in.ClientName, isDebt)
		if err != nil {
			return nil, err
		}
		if client != nil {
			clientID = &client.ID
		}
	}
	if isDebt && clientID == nil {
		return nil, domain.ErrInvalidInput
	}

	// Completar precios de lista fuera de la tx (solo lectura)
	prices := make(map[string]decimal.Decimal, len(in.Lines))
	for _, l := range in.Lines {
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		prices[l.ProductID] = product.Price
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Date:      now,
		Notes:     in.Notes,
		IsDebt:    isDebt,
		Settled:   !isDebt,
		Total:     decimal.Zero,
		CreatedAt: now,
	}
	reference := fmt.Sprintf("Venta#%s", sale.ID)

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		total := decimal.Zero
		for _, l := range in.Lines {
			price := l.UnitPrice
			if price.IsZero() {
				price = prices[l.ProductID]
			}
			line := &entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: price,
			}
			if err := saleRepo.CreateLine(line); err != nil {
				return err
			}
			if err := inventory.ApplyDelta(movRepo, productRepo, l.ProductID, l.Quantity.Neg(), reference, "Salida por venta", now); err != nil {
				return err
			}
			total = total.Add(line.Subtotal())
			sale.Lines = append(sale.Lines, *line)
		}
		sale.Total = total
		return saleRepo.UpdateTotal(sale.ID, total)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// UpdateLine cambia la cantidad de una línea vendida. El ledger recibe
// el incremento con signo invertido: vender más descuenta stock, vender
// menos lo repone. Si no hay stock para el aumento, nada cambia.
func (uc *SaleUseCase) UpdateLine(ctx context.Context, lineID string, in dto.UpdateSaleLineRequest) error {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	line, err := uc.saleRepo.GetLine(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}

	delta := in.Quantity.Sub(line.Quantity).Neg()
	now := time.Now()
	reference := fmt.Sprintf("Venta#%s", line.SaleID)

	return uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.UpdateLineQuantity(lineID, in.Quantity); err != nil {
			return err
		}
		if err := inventory.ApplyDelta(movRepo, productRepo, line.ProductID, delta, reference, "Ajuste de línea de venta", now); err != nil {
			return err
		}
		sale, err := saleRepo.GetByID(line.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		total := decimal.Zero
		for _, l := range sale.Lines {
			total = total.Add(l.Subtotal())
		}
		return saleRepo.UpdateTotal(sale.ID, total)
	})
}

// SettleDebt marca una deuda como pagada. Pagar una deuda ya saldada es
// un no-op idempotente; una venta de contado no es una deuda.
func (uc *SaleUseCase) SettleDebt(ctx context.Context, id string) error {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if !sale.IsDebt {
		return domain.ErrInvalidInput
	}
	if sale.Settled {
		return nil
	}
	return uc.saleRepo.SetSettled(id, true)
}

// DeleteDebt anula una deuda pendiente reponiendo el stock de cada línea
// con asientos de entrada. Una deuda saldada ya es una venta consumada y
// no puede eliminarse.
func (uc *SaleUseCase) DeleteDebt(ctx context.Context, id string) error {
	return uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetByID(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.IsDebt || sale.Settled {
			return domain.ErrConflict
		}
		now := time.Now()
		reference := fmt.Sprintf("Venta#%s", sale.ID)
		for _, l := range sale.Lines {
			if err := inventory.ApplyDelta(movRepo, productRepo, l.ProductID, l.Quantity, reference, "Reposición por anulación de deuda", now); err != nil {
				return err
			}
		}
		return saleRepo.Delete(sale.ID)
	})
}

// GetByID devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List lista ventas con paginación, más recientes primero.
func (uc *SaleUseCase) List(limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListDebtors agrega las deudas pendientes por cliente: total adeudado y
// fecha de la última deuda.
func (uc *SaleUseCase) ListDebtors() ([]dto.DebtorResponse, error) {
	list, err := uc.saleRepo.ListDebtors()
	if err != nil {
		return nil, err
	}
	items := make([]dto.DebtorResponse, 0, len(list))
	for _, d := range list {
		items = append(items, dto.DebtorResponse{
			ClientID:   d.ClientID,
			ClientName: d.ClientName,
			Total:      d.Total,
			LastDate:   d.LastDate,
		})
	}
	return items, nil
}

// DebtorDetail devuelve el cliente y su historial completo de deudas,
// pendientes y saldadas.
func (uc *SaleUseCase) DebtorDetail(clientID string) (*dto.DebtorDetailResponse, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	debts, err := uc.saleRepo.ListDebtsByClient(clientID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(debts))
	for _, s := range debts {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.DebtorDetailResponse{
		Client: dto.ContactResponse{
			ID:        client.ID,
			Name:      client.Name,
			TaxID:     client.TaxID,
			Phone:     client.Phone,
			Email:     client.Email,
			Address:   client.Address,
			Active:    client.Active,
			CreatedAt: client.CreatedAt,
		},
		Debts: items,
	}, nil
}

// resolveClient obtiene el cliente por ID, o por nombre exacto creándolo
// si no existe (el flujo del POS al fiar a un cliente nuevo). Para
// ventas de contado sin cliente devuelve nil.
func (uc *SaleUseCase) resolveClient(id, name string, required bool) (*entity.Client, error) {
	if id != "" {
		client, err := uc.clientRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
		return client, nil
	}
	if name == "" {
		if required {
			return nil, domain.ErrInvalidInput
		}
		return nil, nil
	}
	client, err := uc.clientRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return client, nil
	}
	client = &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return &dto.SaleResponse{
		ID:       s.ID,
		ClientID: s.ClientID,
		Date:     s.Date,
		Notes:    s.Notes,
		IsDebt:   s.IsDebt,
		Settled:  s.Settled,
		State:    s.State(),
		Total:    s.Total,
		Lines:    lines,
	}
}
