package mysql

import (
	"context"
	"database/sql"

	"bidding-system/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

// SaveBidEvent ignores an event id it has already stored, so redelivered
// events are archived once.
func (r *MySQLBidRepository) SaveBidEvent(ctx context.Context, event *domain.BidEvent) error {
	query := `
        INSERT IGNORE INTO bid_events (event_id, item_id, user_id, amount, event_type, bid_created_at, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.ItemID, event.UserID, event.Amount,
		string(event.Type), event.CreatedAt, event.Timestamp)
	return err
}

func (r *MySQLBidRepository) GetBidHistory(ctx context.Context, itemID string) ([]*domain.BidEvent, error) {
	query := `
        SELECT event_id, item_id, user_id, amount, event_type, bid_created_at, timestamp
        FROM bid_events
        WHERE item_id = ? AND event_type = 'bid_accepted'
        ORDER BY timestamp ASC
    `

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.BidEvent
	for rows.Next() {
		var event domain.BidEvent
		var eventType string

		err := rows.Scan(&event.ID, &event.ItemID, &event.UserID, &event.Amount,
			&eventType, &event.CreatedAt, &event.Timestamp)
		if err != nil {
			return nil, err
		}

		event.Type = domain.BidEventType(eventType)
		events = append(events, &event)
	}

	return events, rows.Err()
}
