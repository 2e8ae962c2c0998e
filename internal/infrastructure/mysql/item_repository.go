package mysql

import (
	"context"
	"database/sql"
	"errors"

	"bidding-system/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	query := `
        INSERT INTO items (id, name, starting_price, ending_at, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Price, item.EndingAt, item.CreatedAt)
	return err
}

// GetItem returns the item as created; live price and bid count are only kept
// in Redis. A missing row returns nil, nil.
func (r *MySQLItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
        SELECT id, name, starting_price, ending_at, created_at
        FROM items WHERE id = ?
    `

	var item domain.Item
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID, &item.Name, &item.Price, &item.EndingAt, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &item, nil
}
