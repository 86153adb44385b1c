package purchases_test

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
	"github.com/tu-usuario/almacen-pos/internal/application/purchases"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	purchases map[string]*entity.Purchase
	lines     map[string]*entity.PurchaseLine
	movs      []*entity.StockMovement
}

func newMemState() *memState {
	return &memState{
		products:  map[string]*entity.Product{},
		suppliers: map[string]*entity.Supplier{},
		purchases: map[string]*entity.Purchase{},
		lines:     map[string]*entity.PurchaseLine{},
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.products {
		cp := *v
		out.products[k] = &cp
	}
	for k, v := range s.suppliers {
		cp := *v
		out.suppliers[k] = &cp
	}
	for k, v := range s.purchases {
		cp := *v
		out.purchases[k] = &cp
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

type memSupplierRepo struct{ s *memState }

func (m *memSupplierRepo) Create(sp *entity.Supplier) error {
	cp := *sp
	m.s.suppliers[sp.ID] = &cp
	return nil
}
func (m *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	sp, ok := m.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}
func (m *memSupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	for _, sp := range m.s.suppliers {
		if sp.Name == name {
			cp := *sp
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memSupplierRepo) Update(*entity.Supplier) error                        { return nil }
func (m *memSupplierRepo) List(string, int, int) ([]*entity.Supplier, error)    { return nil, nil }
func (m *memSupplierRepo) Delete(string) error                                  { return nil }

type memPurchaseRepo struct{ s *memState }

func (m *memPurchaseRepo) Create(p *entity.Purchase) error {
	cp := *p
	cp.Lines = nil
	m.s.purchases[p.ID] = &cp
	return nil
}
func (m *memPurchaseRepo) CreateLine(l *entity.PurchaseLine) error {
	cp := *l
	m.s.lines[l.ID] = &cp
	return nil
}
func (m *memPurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := m.s.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Lines = nil
	var ids []string
	for lid, l := range m.s.lines {
		if l.PurchaseID == id {
			ids = append(ids, lid)
		}
	}
	sort.Strings(ids)
	for _, lid := range ids {
		cp.Lines = append(cp.Lines, *m.s.lines[lid])
	}
	return &cp, nil
}
func (m *memPurchaseRepo) GetLine(lineID string) (*entity.PurchaseLine, error) {
	l, ok := m.s.lines[lineID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}
func (m *memPurchaseRepo) UpdateLineQuantity(lineID string, quantity decimal.Decimal) error {
	l, ok := m.s.lines[lineID]
	if !ok {
		return domain.ErrNotFound
	}
	l.Quantity = quantity
	return nil
}
func (m *memPurchaseRepo) UpdateTotal(id string, total decimal.Decimal) error {
	p, ok := m.s.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Total = total
	return nil
}
func (m *memPurchaseRepo) List(int, int) ([]*entity.Purchase, error) { return nil, nil }
func (m *memPurchaseRepo) Delete(id string) error {
	delete(m.s.purchases, id)
	for lid, l := range m.s.lines {
		if l.PurchaseID == id {
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
func (m *memMovementRepo) GetByID(string) (*entity.StockMovement, error) { return nil, nil }
func (m *memMovementRepo) List(int, int) ([]*entity.StockMovement, error) {
	return m.s.movs, nil
}
func (m *memMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

// fakeTxRunner simula el rollback restaurando un snapshot si fn falla.
type fakeTxRunner struct{ s *memState }

func (r *fakeTxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	snapshot := r.s.clone()
	if err := fn(&memMovementRepo{r.s}, &memProductRepo{r.s}, &memPurchaseRepo{r.s}); err != nil {
		*r.s = *snapshot
		return err
	}
	return nil
}

func newUseCase(s *memState) *purchases.PurchaseUseCase {
	return purchases.NewPurchaseUseCase(
		&fakeTxRunner{s},
		&memPurchaseRepo{s},
		&memSupplierRepo{s},
		&memProductRepo{s},
	)
}

func seed(s *memState) {
	s.products["p1"] = &entity.Product{ID: "p1", Code: "001", Name: "Arroz", Stock: decimal.NewFromInt(10), Active: true}
	s.products["p2"] = &entity.Product{ID: "p2", Code: "002", Name: "Azúcar", Stock: decimal.NewFromInt(5), Active: true}
	s.suppliers["s1"] = &entity.Supplier{ID: "s1", Name: "Distribuidora Sur", Active: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CompraSumaStockYRegistraMovimientos(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.True(t, out.Total.Equal(decimal.NewFromInt(2200)), "total = 20*100 + 4*50")
	assert.Len(t, out.Lines, 2)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(30)))
	assert.True(t, s.products["p2"].Stock.Equal(decimal.NewFromInt(9)))

	require.Len(t, s.movs, 2, "un movimiento por línea")
	for _, mov := range s.movs {
		assert.Equal(t, entity.MovementKindEntry, mov.Kind)
		assert.Equal(t, "Compra#"+out.ID, mov.Reference)
	}
}

func TestCreate_ProveedorPorNombre_SeCreaSiNoExiste(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierName: "Mayorista Norte",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	created, _ := (&memSupplierRepo{s}).GetByName("Mayorista Norte")
	require.NotNil(t, created, "el proveedor debe crearse")
	assert.Equal(t, created.ID, out.SupplierID)
	assert.True(t, created.Active)
}

func TestCreate_ProveedorPorNombreExistente_SeReutiliza(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierName: "Distribuidora Sur",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", out.SupplierID, "nombre exacto debe resolver al proveedor existente")
	assert.Len(t, s.suppliers, 1)
}

func TestCreate_SinLineas_Rechaza(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	_, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{SupplierID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateLine_AplicaSoloElIncremento(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	lineID := out.Lines[0].ID

	// 10 → 4: el ledger debe recibir -6, no revertir 10 y aplicar 4
	err = uc.UpdateLine(context.Background(), lineID, dto.UpdatePurchaseLineRequest{Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(14)), "10 inicial + 10 compra - 6 ajuste")
	require.Len(t, s.movs, 2)
	last := s.movs[len(s.movs)-1]
	assert.Equal(t, entity.MovementKindExit, last.Kind)
	assert.True(t, last.Quantity.Equal(decimal.NewFromInt(6)), "solo el incremento")

	p, _ := (&memPurchaseRepo{s}).GetByID(out.ID)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(400)), "el total se recalcula")
}

func TestUpdateLine_ReduccionSinStock_NoAplicaNada(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	// Lo comprado ya salió del inventario
	s.products["p1"].Stock = decimal.NewFromInt(2)

	err = uc.UpdateLine(context.Background(), out.Lines[0].ID, dto.UpdatePurchaseLineRequest{Quantity: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(2)), "el stock no debe cambiar")
	line, _ := (&memPurchaseRepo{s}).GetLine(out.Lines[0].ID)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(10)), "la línea no debe cambiar")
}

func TestDelete_RevierteStockDeCadaLinea(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), out.ID)
	require.NoError(t, err)

	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(10)), "vuelve al stock original")
	assert.True(t, s.products["p2"].Stock.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, s.purchases)
	assert.Empty(t, s.lines, "las líneas caen con la compra")
	assert.Len(t, s.movs, 4, "2 entradas de la compra + 2 salidas del reverso")
}

func TestDelete_StockYaConsumido_NoEliminaNada(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	out, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	// Parte de lo comprado ya se vendió
	s.products["p1"].Stock = decimal.NewFromInt(8)

	err = uc.Delete(context.Background(), out.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Contains(t, s.purchases, out.ID, "la compra debe seguir existiendo")
	assert.True(t, s.products["p1"].Stock.Equal(decimal.NewFromInt(8)), "el stock no debe cambiar")
}

func TestDelete_CompraInexistente(t *testing.T) {
	s := newMemState()
	seed(s)
	uc := newUseCase(s)

	err := uc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
