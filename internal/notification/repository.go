// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
)

// Keys are "notification:<userID>:<id>", so one prefix scan fetches a
// member's whole inbox and a member can never address another member's
// notifications.
const notificationKeyPrefix = "notification:"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, userID, id string) (*Notification, error)
	Update(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
}

type repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) Repository {
	return &repository{store: store}
}

func key(userID, id string) string {
	return notificationKeyPrefix + userID + ":" + id
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := r.store.Set(ctx, key(n.UserID, n.ID), doc); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*Notification, error) {
	raw, err := r.store.Get(ctx, key(userID, id))
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}

	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	return &n, nil
}

func (r *repository) Update(ctx context.Context, n *Notification) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := r.store.Set(ctx, key(n.UserID, n.ID), doc); err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]*Notification, error) {
	values, err := r.store.GetByPrefix(
		ctx,
		notificationKeyPrefix+userID+":",
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]*Notification, 0, len(values))
	for _, value := range values {
		var n Notification
		if err := json.Unmarshal(value, &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}
