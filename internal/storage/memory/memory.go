// Package memory реализует хранилище пользователей и подписок в памяти процесса.
//
// Данные живут до перезапуска. Изменения подписок сериализуются
// отдельным мьютексом на каждого владельца.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// Storage хранит пользователей и подписки в map.
type Storage struct {
	usersMu      sync.RWMutex
	usersByID    map[string]*models.User
	usersByEmail map[string]*models.User

	bagsMu sync.RWMutex
	bags   map[string]*bag

	now func() time.Time
}

// bag подписки одного пользователя в порядке добавления.
type bag struct {
	mu    sync.Mutex
	order []string
	subs  map[string]models.Subscription
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		usersByID:    make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		bags:         make(map[string]*bag),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ===== USER METHODS =====

// CreateUser сохраняет нового пользователя. Email приводится к нижнему регистру.
func (s *Storage) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	const op = "storage.memory.CreateUser"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	email = normalizeEmail(email)

	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	if _, ok := s.usersByEmail[email]; ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	s.usersByEmail[email] = u
	s.usersByID[u.ID] = u

	out := *u
	return &out, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.GetUserByEmail"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	u, ok := s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	out := *u
	return &out, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.memory.GetUserByID"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	u, ok := s.usersByID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	out := *u
	return &out, nil
}

// ===== SUBSCRIPTION METHODS =====

// UpsertSubscription создаёт подписку, если id пустой, иначе обновляет
// изменяемые поля существующей подписки владельца.
func (s *Storage) UpsertSubscription(ctx context.Context, userID, id string, in models.SubscriptionInput) (*models.Subscription, error) {
	const op = "storage.memory.UpsertSubscription"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var b *bag
	if id == "" {
		b = s.bagFor(userID, true)
	} else if b = s.bagFor(userID, false); b == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if id == "" {
		sub := models.Subscription{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: s.now(),
		}
		apply(&sub, in)
		b.subs[sub.ID] = sub
		b.order = append(b.order, sub.ID)
		return &sub, nil
	}

	sub, ok := b.subs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}
	apply(&sub, in)
	b.subs[id] = sub
	return &sub, nil
}

// GetSubscription возвращает подписку владельца по id.
func (s *Storage) GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error) {
	const op = "storage.memory.GetSubscription"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b := s.bagFor(userID, false)
	if b == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}
	return &sub, nil
}

// DeleteSubscription удаляет подписку владельца и сообщает, была ли она.
func (s *Storage) DeleteSubscription(ctx context.Context, userID, id string) (bool, error) {
	const op = "storage.memory.DeleteSubscription"
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	b := s.bagFor(userID, false)
	if b == nil {
		return false, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[id]; !ok {
		return false, nil
	}
	delete(b.subs, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// ListSubscriptions возвращает все подписки владельца в порядке добавления.
func (s *Storage) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.memory.ListSubscriptions"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b := s.bagFor(userID, false)
	if b == nil {
		return []models.Subscription{}, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Subscription, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.subs[id])
	}
	return out, nil
}

// Ping нужен для health-check и всегда успешен.
func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) bagFor(userID string, create bool) *bag {
	s.bagsMu.RLock()
	b, ok := s.bags[userID]
	s.bagsMu.RUnlock()
	if ok || !create {
		return b
	}

	s.bagsMu.Lock()
	defer s.bagsMu.Unlock()
	if b, ok = s.bags[userID]; ok {
		return b
	}
	b = &bag{subs: make(map[string]models.Subscription)}
	s.bags[userID] = b
	return b
}

func apply(sub *models.Subscription, in models.SubscriptionInput) {
	sub.Name = in.Name
	sub.BillingCycle = in.BillingCycle
	sub.IsActive = in.IsActive
	sub.BaseCost = in.BaseCost
	sub.TaxRate = in.TaxRate
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
