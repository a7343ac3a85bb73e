package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

const subscriptionColumns = `id, user_id, name, billing_cycle, is_active, base_cost, tax_rate, created_at`

// UpsertSubscription создаёт подписку, если id пустой, иначе обновляет
// существующую подписку владельца одним запросом.
func (s *Storage) UpsertSubscription(ctx context.Context, userID, id string, in models.SubscriptionInput) (*models.Subscription, error) {
	const op = "storage.postgresql.UpsertSubscription"

	if id == "" {
		query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				  RETURNING ` + subscriptionColumns
		row := s.DB.QueryRowContext(ctx, query,
			uuid.NewString(), userID, in.Name, string(in.BillingCycle), in.IsActive,
			in.BaseCost, in.TaxRate, time.Now().UTC())
		sub, err := scanSubscription(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return sub, nil
	}

	if !validUUIDs(userID, id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}
	query := `UPDATE subscriptions
			  SET name = $1, billing_cycle = $2, is_active = $3, base_cost = $4, tax_rate = $5
			  WHERE id = $6 AND user_id = $7
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		in.Name, string(in.BillingCycle), in.IsActive, in.BaseCost, in.TaxRate, id, userID)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscription возвращает подписку владельца по id.
func (s *Storage) GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error) {
	const op = "storage.postgresql.GetSubscription"

	if !validUUIDs(userID, id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND user_id = $2`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// DeleteSubscription удаляет подписку владельца и сообщает, была ли она.
func (s *Storage) DeleteSubscription(ctx context.Context, userID, id string) (bool, error) {
	const op = "storage.postgresql.DeleteSubscription"

	if !validUUIDs(userID, id) {
		return false, nil
	}
	result, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// ListSubscriptions возвращает все подписки владельца в порядке создания.
func (s *Storage) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.postgresql.ListSubscriptions"

	result := []models.Subscription{}
	if !validUUIDs(userID) {
		return result, nil
	}
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (*models.Subscription, error) {
	var sub models.Subscription
	var cycle string
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &cycle, &sub.IsActive,
		&sub.BaseCost, &sub.TaxRate, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSubscriptionNotFound
		}
		return nil, err
	}
	sub.BillingCycle = models.BillingCycle(cycle)
	sub.CreatedAt = sub.CreatedAt.UTC()
	return &sub, nil
}

// validUUIDs отсекает заведомо несуществующие id до запроса,
// иначе PostgreSQL вернёт ошибку приведения типа.
func validUUIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
