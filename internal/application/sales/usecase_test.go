package sales_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/application/sales"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	products map[string]*entity.Product
	clients  map[string]*entity.Client
	sales    map[string]*entity.Sale
	lines    map[string]*entity.SaleLine
	movs     []*entity.StockMovement
}

func newMemState() *memState {
	return &memState{
		products: map[string]*entity.Product{},
		clients:  map[string]*entity.Client{},
		sales:    map[string]*entity.Sale{},
		lines:    map[string]*entity.SaleLine{},
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.products {
		cp := *v
		out.products[k] = &cp
	}
	for k, v := range s.clients {
		cp := *v
		out.clients[k] = &cp
	}
	for k, v := range s.sales {
		cp := *v
		out.sales[k] = &cp
	}
	for k, v := range s.lines {
		cp := *v
		out.lines[k] = &cp
	}
	out.movs = append(out.movs, s.movs...)
	return out
}

type memProductRepo struct{ s *memState }

func (m *memProductRepo) Create(p *entity.Product) error { cp := *p; m.s.products[p.ID] = &cp; return nil }
func (m *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (m *memProductRepo) GetByCode(string) (*entity.Product, error) { return nil, nil }
func (m *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return m.GetByID(id)
}
func (m *memProductRepo) Update(p *entity.Product) error { cp := *p; m.s.products[p.ID] = &cp; return nil }
func (m *memProductRepo) UpdateStock(id string, stock decimal.Decimal) error {
	p, ok := m.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}
func (m *memProductRepo) List(string, bool, int, int) ([]*entity.Product, error) { return nil, nil }
func (m *memProductRepo) ListLowStock() ([]*entity.Product, error)              { return nil, nil }
func (m *memProductRepo) ListCodes() ([]string, error)                          { return nil, nil }
func (m *memProductRepo) Delete(string) error                                   { return nil }

type memClientRepo struct{ s *memState }

func (m *memClientRepo) Create(c *entity.Client) error { cp := *c; m.s.clients[c.ID] = &cp; return nil }
func (m *memClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := m.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (m *memClientRepo) GetByName(name string) (*entity.Client, error) {
	for _, c := range m.s.clients {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memClientRepo) Update(*entity.Client) error                     { return nil }
func (m *memClientRepo) List(string, int, int) ([]*entity.Client, error) { return nil, nil }
func (m *memClientRepo) Delete(string) error                             { return nil }

type memSaleRepo struct{ s *memState }

func (m *memSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Lines = nil
	m.s.sales[sale.ID] = &cp
	return nil
}
func (m *memSaleRepo) CreateLine(l *entity.SaleLine) error {
	cp := *l
	m.s.lines[l.ID] = &cp
	return nil
}
func (m *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := m.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	cp.Lines = nil
	var ids []string
	for lid, l := range m.s.lines {
		if l.SaleID == id {
			ids = append(ids, lid)
		}
	}
	sort.Strings(ids)
	for _, lid := range ids {
		cp.Lines = append(cp.Lines, *m.s.lines[lid])
	}
	return &cp, nil
}
func (m *memSaleRepo) GetLine(lineID string) (*entity.SaleLine, error) {
	l, ok := m.s.lines[lineID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}
func (m *memSaleRepo) UpdateLineQuantity(lineID string, quantity decimal.Decimal) error {
	l, ok := m.s.lines[lineID]
	if !ok {
		return domain.ErrNotFound
	}
	l.Quantity = quantity
	return nil
}
func (m *memSaleRepo) UpdateTotal(id string, total decimal.Decimal) error {
	sale, ok := m.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Total = total
	return nil
}
func (m *memSaleRepo) SetSettled(id string, settled bool) error {
	sale, ok := m.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Settled = settled
	return nil
}
func (m *memSaleRepo) List(int, int) ([]*entity.Sale, error) { return nil, nil }
func (m *memSaleRepo) ListDebtors() ([]*repository.DebtorSummary, error) {
	return nil, nil
}
func (m *memSaleRepo) ListDebtsByClient(clientID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for id, sale := range m.s.sales {
		if sale.IsDebt && sale.ClientID != nil && *sale.ClientID == clientID {
			full, _ := m.GetByID(id)
			out = append(out, full)
		}
	}
	return out, nil
}
func (m *memSaleRepo) Delete(id string) error {
	delete(m.s.sales, id)
	for lid, l := range m.s.lines {
		if l.SaleID == id {
			delete(m.s.lines, lid)
		}
	}
	return nil
}

type memMovementRepo struct{ s *memState }

func (m *memMovementRepo) Create(mov *entity.StockMovement) error {
	cp := *mov
	m.s.movs = append(m.s.movs, &cp)
	return nil
}
func (m *memMovementRepo) GetByID(string) (*entity.StockMovement, error)   { return nil, nil }
func (m *memMovementRepo) List(int, int) ([]*entity.StockMovement, error)  { return m.s.movs, nil }
func (m *memMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

// fakeTxRunner simula el rollback restaurando un snapshot si fn falla.
type fakeTxRunner struct{ s *memState }

func (r *fakeTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	snapshot := r.s.clone()
	if err := fn(&memMovementRepo{r.s}, &memProductRepo{r.s}, &memSaleRepo{r.s}); err != nil {
		*r.s = *snapshot
		return err
	}
	return nil
}

func newUseCase(s *memState) *sales.SaleUseCase {
	return sales.NewSaleUseCase(&fakeTxRunner{s}, &memSaleRepo{s}, &memClientRepo{s}, &memProductRepo{s})
}

func seed(s *memState) {
	s.products["p1"] = &entity.Product{ID: "p1", Code: "001", Name: "Arroz", Price: decimal.NewFromInt(150), Stock: decimal.NewFromInt(10), Active: true}
	s.products["p2"] = &entity.Product{ID: "p2", Code: "002", Name: "Azúcar", Price: decimal.NewFromInt(80), Stock: decimal.NewFromInt(5), Active: true}
	s.clients["c1"] = &entity.Client{ID: "c1", Name: "Doña Rosa", Active: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_VentaContadoDescuentaStock(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.False(t, out.IsDebt)
	assert.True(t, out.Settled, "una venta de contado nace saldada")
	assert.Equal(t, entity.SaleStateNormal, out.State)
	assert.Nil(t, out.ClientID, "el contado no exige cliente")
	assert.True(t, out.Total.Equal(decimal.NewFromInt(400)), "3*100 + 2*50")

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(7)))
	assert.True(t, s.products["p2"].Stock.Equal(decimal.NewFromInt(3)))

	require.Len(t, s.movs, 2)
	for _, mov := range s.movs {
		assert.Equal(t, entity.MovementKindExit, mov.Kind)
		assert.Equal(t, "Venta#"+out.ID, mov.Reference)
		assert.Equal(t, "Salida por venta", mov.Reason)
	}
}

func TestCreate_PrecioCero_UsaPrecioDeLista(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].UnitPrice.Equal(decimal.NewFromInt(150)), "el precio vacío se completa con el de lista")
	assert.True(t, out.Total.Equal(decimal.NewFromInt(300)))
}

func TestCreate_StockInsuficienteEnUnaLinea_RevierteTodo(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: decimal.NewFromInt(99), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "p2", stockErr.ProductID)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(10)), "la primera línea también se revierte")
	assert.True(t, s.products["p2"].Stock.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, s.sales, "la venta no debe quedar registrada")
	assert.Empty(t, s.movs, "no debe quedar ningún movimiento")
}

func TestCreate_DeudaSinCliente_Rechaza(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionDebt,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.sales)
}

func TestCreate_DeudaConClienteNuevo_LoCreaYQuedaPendiente(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action:     sales.ActionDebt,
		ClientName: "Don Pedro",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	assert.True(t, out.IsDebt)
	assert.False(t, out.Settled)
	assert.Equal(t, entity.SaleStateDebtPending, out.State)

	created, _ := (&memClientRepo{s}).GetByName("Don Pedro")
	require.NotNil(t, created, "el cliente debe crearse al fiar")
	require.NotNil(t, out.ClientID)
	assert.Equal(t, created.ID, *out.ClientID)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(8)), "la deuda también descuenta stock")
}

func TestCreate_DeudaConClienteExistentePorNombre_LoReutiliza(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action:     sales.ActionDebt,
		ClientName: "Doña Rosa",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out.ClientID)
	assert.Equal(t, "c1", *out.ClientID)
	assert.Len(t, s.clients, 1)
}

func TestCreate_AccionDesconocida_Rechaza(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: "cotizar",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpdateLine
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateLine_VenderMenosReponeStock(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	// 6 → 2: el ledger recibe +4 (reposición)
	err = uc.UpdateLine(context.Background(), out.Lines[0].ID, dto.UpdateSaleLineRequest{Quantity: decimal.NewFromInt(2)})
	require.NoError(t, err)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(8)), "10 - 6 + 4")
	last := s.movs[len(s.movs)-1]
	assert.Equal(t, entity.MovementKindEntry, last.Kind)
	assert.True(t, last.Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "Ajuste de línea de venta", last.Reason)

	sale, _ := (&memSaleRepo{s}).GetByID(out.ID)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(200)), "el total se recalcula")
}

func TestUpdateLine_VenderMasSinStock_NoAplicaNada(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	// quedan 4 y el aumento pide 14 más
	err = uc.UpdateLine(context.Background(), out.Lines[0].ID, dto.UpdateSaleLineRequest{Quantity: decimal.NewFromInt(20)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(4)), "el stock no debe cambiar")
	line, _ := (&memSaleRepo{s}).GetLine(out.Lines[0].ID)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(6)), "la línea no debe cambiar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ciclo de deuda
// ──────────────────────────────────────────────────────────────────────────────

func crearDeuda(t *testing.T, uc *sales.SaleUseCase, qty int64) *dto.SaleResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action:   sales.ActionDebt,
		ClientID: "c1",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	return out
}

func TestSettleDebt_MarcaPagadaYEsIdempotente(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)
	deuda := crearDeuda(t, uc, 2)

	require.NoError(t, uc.SettleDebt(context.Background(), deuda.ID))
	assert.True(t, s.sales[deuda.ID].Settled)

	// pagar dos veces no es un error
	require.NoError(t, uc.SettleDebt(context.Background(), deuda.ID))
}

func TestSettleDebt_VentaContado_Rechaza(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	err = uc.SettleDebt(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteDebt_PendienteReponeStock(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)
	deuda := crearDeuda(t, uc, 3)
	require.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(7)))

	err := uc.DeleteDebt(context.Background(), deuda.ID)
	require.NoError(t, err)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(10)), "el stock vuelve a su valor original")
	assert.NotContains(t, s.sales, deuda.ID)

	last := s.movs[len(s.movs)-1]
	assert.Equal(t, entity.MovementKindEntry, last.Kind)
	assert.Equal(t, "Reposición por anulación de deuda", last.Reason)
}

func TestDeleteDebt_Saldada_ErrConflict(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)
	deuda := crearDeuda(t, uc, 2)
	require.NoError(t, uc.SettleDebt(context.Background(), deuda.ID))

	err := uc.DeleteDebt(context.Background(), deuda.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, s.sales, deuda.ID, "la venta consumada sigue existiendo")
	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(8)), "el stock no se repone")
}

func TestDeleteDebt_VentaContado_ErrConflict(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreateSaleRequest{
		Action: sales.ActionSave,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	err = uc.DeleteDebt(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDebtorDetail_ClienteInexistente(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	_, err := uc.DebtorDetail("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
