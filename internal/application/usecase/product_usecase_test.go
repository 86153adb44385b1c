package usecase_test

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/application/usecase"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*entity.Product{}}
}

func (m *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range m.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return m.GetByID(id)
}

func (m *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProductRepo) UpdateStock(id string, stock decimal.Decimal) error {
	p, ok := m.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (m *memProductRepo) List(string, bool, int, int) ([]*entity.Product, error) { return nil, nil }

func (m *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.products {
		if p.Active && p.LowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memProductRepo) ListCodes() ([]string, error) {
	var out []string
	for _, p := range m.products {
		out = append(out, p.Code)
	}
	return out, nil
}

func (m *memProductRepo) Delete(id string) error {
	delete(m.products, id)
	return nil
}

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func newMemCategoryRepo(categories ...*entity.Category) *memCategoryRepo {
	m := &memCategoryRepo{categories: map[string]*entity.Category{}}
	for _, c := range categories {
		cp := *c
		m.categories[c.ID] = &cp
	}
	return m
}

func (m *memCategoryRepo) Create(c *entity.Category) error {
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCategoryRepo) GetByName(name string) (*entity.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCategoryRepo) Update(*entity.Category) error                      { return nil }
func (m *memCategoryRepo) List(string, int, int) ([]*entity.Category, error)  { return nil, nil }
func (m *memCategoryRepo) Delete(string) error                                { return nil }

func newProductUseCase() (*usecase.ProductUseCase, *memProductRepo) {
	products := newMemProductRepo()
	categories := newMemCategoryRepo(&entity.Category{ID: "cat1", Name: "Abarrotes"})
	return usecase.NewProductUseCase(products, categories), products
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_CodigoAutomaticoCorrelativo(t *testing.T) {
	uc, _ := newProductUseCase()

	first, err := uc.Create(dto.CreateProductRequest{Name: "Arroz", CategoryID: "cat1"})
	require.NoError(t, err)
	assert.Equal(t, "001", first.Code)

	second, err := uc.Create(dto.CreateProductRequest{Name: "Azúcar", CategoryID: "cat1"})
	require.NoError(t, err)
	assert.Equal(t, "002", second.Code)
}

func TestCreateProduct_CodigoAutomaticoRellenaHuecos(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(dto.CreateProductRequest{Code: "001", Name: "Arroz", CategoryID: "cat1"})
	require.NoError(t, err)
	_, err = uc.Create(dto.CreateProductRequest{Code: "003", Name: "Fideos", CategoryID: "cat1"})
	require.NoError(t, err)

	out, err := uc.Create(dto.CreateProductRequest{Name: "Azúcar", CategoryID: "cat1"})
	require.NoError(t, err)
	assert.Equal(t, "002", out.Code, "se asigna el menor correlativo libre")
}

func TestCreateProduct_CodigosNoNumericosSeIgnoran(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(dto.CreateProductRequest{Code: "SKU-A", Name: "Arroz", CategoryID: "cat1"})
	require.NoError(t, err)

	out, err := uc.Create(dto.CreateProductRequest{Name: "Azúcar", CategoryID: "cat1"})
	require.NoError(t, err)
	assert.Equal(t, "001", out.Code)
}

func TestCreateProduct_CodigoDuplicado_ErrDuplicate(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(dto.CreateProductRequest{Code: "010", Name: "Arroz", CategoryID: "cat1"})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateProductRequest{Code: "010", Name: "Azúcar", CategoryID: "cat1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_CategoriaInexistente_ErrNotFound(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(dto.CreateProductRequest{Name: "Arroz", CategoryID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProduct_PrecioNegativo_Rechaza(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(dto.CreateProductRequest{
		Name:       "Arroz",
		CategoryID: "cat1",
		Price:      decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProduct_NoTocaElStock(t *testing.T) {
	uc, products := newProductUseCase()

	created, err := uc.Create(dto.CreateProductRequest{
		Name:       "Arroz",
		CategoryID: "cat1",
		Stock:      decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	name := "Arroz Integral"
	price := decimal.NewFromInt(200)
	out, err := uc.Update(created.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)

	assert.Equal(t, "Arroz Integral", out.Name)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(200)))

	p, _ := products.GetByID(created.ID)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(25)), "el stock solo cambia vía movimientos")
}

func TestUpdateProduct_CodigoACodigoExistente_ErrDuplicate(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(dto.CreateProductRequest{Code: "001", Name: "Arroz", CategoryID: "cat1"})
	require.NoError(t, err)
	second, err := uc.Create(dto.CreateProductRequest{Code: "002", Name: "Azúcar", CategoryID: "cat1"})
	require.NoError(t, err)

	code := "001"
	_, err = uc.Update(second.ID, dto.UpdateProductRequest{Code: &code})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeactivateProduct_EsIdempotente(t *testing.T) {
	uc, products := newProductUseCase()

	created, err := uc.Create(dto.CreateProductRequest{Name: "Arroz", CategoryID: "cat1"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(created.ID))
	p, _ := products.GetByID(created.ID)
	assert.False(t, p.Active)

	require.NoError(t, uc.Deactivate(created.ID), "desactivar dos veces no es un error")
}

func TestDeactivateProduct_Inexistente_ErrNotFound(t *testing.T) {
	uc, _ := newProductUseCase()

	err := uc.Deactivate("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
