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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas viven en sale_lines con ON DELETE CASCADE.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, client_id, date, notes, is_debt, settled, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.ClientID, sale.Date, sale.Notes,
		sale.IsDebt, sale.Settled, sale.Total, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// GetByID obtiene una venta con sus líneas; nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT id, client_id, date, notes, is_debt, settled, total, created_at FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.ClientID, &s.Date, &s.Notes, &s.IsDebt, &s.Settled, &s.Total, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	lines, err := r.linesOf(s.ID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

// GetLine obtiene una línea de venta por ID; nil si no existe.
func (r *SaleRepo) GetLine(lineID string) (*entity.SaleLine, error) {
	query := `SELECT id, sale_id, product_id, quantity, unit_price FROM sale_lines WHERE id = $1`
	var l entity.SaleLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale line: %w", err)
	}
	return &l, nil
}

// UpdateLineQuantity cambia la cantidad de una línea.
func (r *SaleRepo) UpdateLineQuantity(lineID string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sale_lines SET quantity = $2 WHERE id = $1`,
		lineID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update sale line: %w", err)
	}
	return nil
}

// UpdateTotal actualiza el total denormalizado de la venta.
func (r *SaleRepo) UpdateTotal(id string, total decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET total = $2 WHERE id = $1`,
		id, total,
	)
	if err != nil {
		return fmt.Errorf("update sale total: %w", err)
	}
	return nil
}

// SetSettled marca la deuda como pagada (o la reabre).
func (r *SaleRepo) SetSettled(id string, settled bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET settled = $2 WHERE id = $1`,
		id, settled,
	)
	if err != nil {
		return fmt.Errorf("update sale settled: %w", err)
	}
	return nil
}

// List lista ventas con sus líneas, más recientes primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, client_id, date, notes, is_debt, settled, total, created_at
		FROM sales ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list, err := collectSales(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLines(list)
}

// ListDebtors agrega las deudas pendientes por cliente: total adeudado y
// fecha de la última deuda, ordenado por nombre de cliente.
func (r *SaleRepo) ListDebtors() ([]*repository.DebtorSummary, error) {
	query := `
		SELECT s.client_id, c.name, SUM(s.total), MAX(s.date)
		FROM sales s
		JOIN clients c ON c.id = s.client_id
		WHERE s.is_debt AND NOT s.settled
		GROUP BY s.client_id, c.name
		ORDER BY c.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list debtors: %w", err)
	}
	defer rows.Close()
	var list []*repository.DebtorSummary
	for rows.Next() {
		var d repository.DebtorSummary
		if err := rows.Scan(&d.ClientID, &d.ClientName, &d.Total, &d.LastDate); err != nil {
			return nil, fmt.Errorf("scan debtor: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListDebtsByClient devuelve el historial de deudas de un cliente
// (pendientes y saldadas), con líneas, más reciente primero.
func (r *SaleRepo) ListDebtsByClient(clientID string) ([]*entity.Sale, error) {
	query := `
		SELECT id, client_id, date, notes, is_debt, settled, total, created_at
		FROM sales WHERE client_id = $1 AND is_debt ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list debts by client: %w", err)
	}
	defer rows.Close()
	list, err := collectSales(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLines(list)
}

// Delete elimina la venta; las líneas caen en cascada.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) linesOf(saleID string) ([]entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_lines WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *SaleRepo) attachLines(list []*entity.Sale) ([]*entity.Sale, error) {
	for _, s := range list {
		lines, err := r.linesOf(s.ID)
		if err != nil {
			return nil, err
		}
		s.Lines = lines
	}
	return list, nil
}

func collectSales(rows pgx.Rows) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ClientID, &s.Date, &s.Notes, &s.IsDebt, &s.Settled, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
