package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas viven en purchase_lines con ON DELETE CASCADE.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de una compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, supplier_id, date, notes, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.Date, purchase.Notes,
		purchase.Total, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de compra.
func (r *PurchaseRepo) CreateLine(line *entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseID, line.ProductID, line.Quantity, line.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetByID obtiene una compra con sus líneas; nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT id, supplier_id, date, notes, total, created_at FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.SupplierID, &p.Date, &p.Notes, &p.Total, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	lines, err := r.linesOf(p.ID)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return &p, nil
}

// GetLine obtiene una línea de compra por ID; nil si no existe.
func (r *PurchaseRepo) GetLine(lineID string) (*entity.PurchaseLine, error) {
	query := `SELECT id, purchase_id, product_id, quantity, unit_cost FROM purchase_lines WHERE id = $1`
	var l entity.PurchaseLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitCost,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase line: %w", err)
	}
	return &l, nil
}

// UpdateLineQuantity cambia la cantidad de una línea.
func (r *PurchaseRepo) UpdateLineQuantity(lineID string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_lines SET quantity = $2 WHERE id = $1`,
		lineID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update purchase line: %w", err)
	}
	return nil
}

// UpdateTotal actualiza el total denormalizado de la compra.
func (r *PurchaseRepo) UpdateTotal(id string, total decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET total = $2 WHERE id = $1`,
		id, total,
	)
	if err != nil {
		return fmt.Errorf("update purchase total: %w", err)
	}
	return nil
}

// List lista compras con sus líneas, más recientes primero.
func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, supplier_id, date, notes, total, created_at
		FROM purchases ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Date, &p.Notes, &p.Total, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		lines, err := r.linesOf(p.ID)
		if err != nil {
			return nil, err
		}
		p.Lines = lines
	}
	return list, nil
}

// Delete elimina la compra; las líneas caen en cascada.
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) linesOf(purchaseID string) ([]entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
