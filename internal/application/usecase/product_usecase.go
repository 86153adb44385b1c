package usecase

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// ProductUseCase gestiona el catálogo de productos. El stock solo se fija
// aquí al crear el producto; después se mueve a través del motor de
// inventario.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, categoryRepo: categoryRepo}
}

// Create crea un producto. Con Code vacío asigna el siguiente código
// correlativo libre ("001", "002", ...); con Code explícito valida que no
// exista otro producto con el mismo SKU.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock.IsNegative() || in.StockMinimum.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	code := in.Code
	if code == "" {
		code, err = uc.nextFreeCode()
		if err != nil {
			return nil, err
		}
	} else {
		existing, err := uc.productRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		UnitMeasure:  in.UnitMeasure,
		Price:        in.Price,
		Stock:        in.Stock,
		StockMinimum: in.StockMinimum,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID devuelve un producto; nil si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update modifica los campos presentes de un producto. El stock no se
// actualiza por esta vía.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil && *in.Code != product.Code {
		if *in.Code == "" {
			return nil, domain.ErrInvalidInput
		}
		existing, err := uc.productRepo.GetByCode(*in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		product.Code = *in.Code
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = *in.CategoryID
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.StockMinimum != nil {
		if in.StockMinimum.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.StockMinimum = *in.StockMinimum
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List busca productos por nombre o código. Con onlyActive se excluyen
// los desactivados.
func (uc *ProductUseCase) List(q string, onlyActive bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.productRepo.List(q, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto; falla con ErrConflict si tiene movimientos,
// compras o ventas asociadas. En ese caso conviene desactivarlo.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

// Deactivate saca el producto del catálogo activo sin perder su historial.
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !product.Active {
		return nil
	}
	product.Active = false
	product.UpdatedAt = time.Now()
	return uc.productRepo.Update(product)
}

// nextFreeCode devuelve el menor correlativo numérico no usado, con
// relleno de ceros a tres dígitos ("001", "002", ...). Los códigos no
// numéricos se ignoran al calcular el correlativo.
func (uc *ProductUseCase) nextFreeCode() (string, error) {
	codes, err := uc.productRepo.ListCodes()
	if err != nil {
		return "", err
	}
	used := make(map[int]bool, len(codes))
	for _, c := range codes {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return fmt.Sprintf("%03d", n), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		UnitMeasure:  p.UnitMeasure,
		Price:        p.Price,
		Stock:        p.Stock,
		StockMinimum: p.StockMinimum,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
