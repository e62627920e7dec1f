package repository

import (
	"context"
	"time"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an active user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves an active user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves an active user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// SoftDeleteCascade tombstones the user together with their comments,
	// votes, stars, addresses, and payment methods in one transaction.
	SoftDeleteCascade(ctx context.Context, id string) error
}

// InfluencerRepository defines persistence operations for influencer accounts.
type InfluencerRepository interface {
	// Create inserts a new influencer into the store.
	Create(ctx context.Context, inf *domain.Influencer) error

	// GetByID retrieves an active influencer by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Influencer, error)

	// GetByEmail retrieves an active influencer by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.Influencer, error)

	// GetByUsername retrieves an active influencer by their username.
	GetByUsername(ctx context.Context, username string) (*domain.Influencer, error)

	// Update modifies an existing influencer in the store.
	Update(ctx context.Context, inf *domain.Influencer) error

	// SoftDeleteCascade tombstones the influencer together with their item
	// groups, items, and the dependent comments and stars in one transaction.
	SoftDeleteCascade(ctx context.Context, id string) error
}

// RefreshTokenRepository defines persistence operations for refresh tokens.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash for the given account.
	Create(ctx context.Context, accountID, role, tokenHash string, expiresAt time.Time) error

	// GetByHash retrieves a refresh token record by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke revokes a specific refresh token by its hash.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeByAccountID revokes all refresh tokens for the given account.
	RevokeByAccountID(ctx context.Context, accountID string) error
}

// ItemGroupRepository defines persistence operations for item groups.
type ItemGroupRepository interface {
	// Create inserts a new item group.
	Create(ctx context.Context, group *domain.ItemGroup) error

	// GetByID retrieves an active item group by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.ItemGroup, error)

	// GetByName retrieves an influencer's active item group by name.
	GetByName(ctx context.Context, influencerID, name string) (*domain.ItemGroup, error)

	// ListByInfluencer returns the influencer's active item groups.
	ListByInfluencer(ctx context.Context, influencerID string) ([]domain.ItemGroup, error)

	// SoftDeleteCascade tombstones the group and its items in one transaction.
	SoftDeleteCascade(ctx context.Context, id string) error
}

// ItemSearchFilter narrows an item search. Keyword matches name or
// description; the remaining fields are optional constraints.
type ItemSearchFilter struct {
	Keyword      string
	MinPrice     *int64
	MaxPrice     *int64
	InfluencerID *string
	ItemGroupID  *string
}

// ItemRepository defines persistence operations for items, including the
// transactional variant creation against an item group's feature schema.
type ItemRepository interface {
	// Create inserts a standalone item (no group membership).
	Create(ctx context.Context, item *domain.Item) error

	// CreateVariant inserts an item into the given group inside a single
	// transaction. The group row is locked for the duration: the item's
	// feature selections are validated against the group's declared axes,
	// the full value tuple is checked for uniqueness among the group's
	// items, and any new values are registered into the group's per-axis
	// value lists.
	CreateVariant(ctx context.Context, groupID string, item *domain.Item) error

	// GetByID retrieves an active item by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Item, error)

	// ListByInfluencer returns paginated active items for an influencer and
	// the total count.
	ListByInfluencer(ctx context.Context, influencerID string, page, perPage int) ([]domain.Item, int, error)

	// ListByGroup returns the active items in an item group.
	ListByGroup(ctx context.Context, groupID string) ([]domain.Item, error)

	// Search returns paginated active items matching the filter, and the
	// total count.
	Search(ctx context.Context, filter ItemSearchFilter, page, perPage int) ([]domain.Item, int, error)

	// Update modifies an existing item.
	Update(ctx context.Context, item *domain.Item) error

	// SoftDeleteCascade tombstones the item together with its comments and
	// stars in one transaction.
	SoftDeleteCascade(ctx context.Context, id string) error
}

// StarRepository defines persistence operations for item star ratings.
type StarRepository interface {
	// RecordRating inserts or updates the user's rating for an item inside
	// a single transaction, locking the item row and maintaining its
	// incremental average. Re-rating with the unchanged value fails.
	RecordRating(ctx context.Context, userID, itemID string, stars int) error

	// GetUserRating returns the user's active rating for the item.
	GetUserRating(ctx context.Context, userID, itemID string) (*domain.ItemStar, error)
}

// CommentRepository defines persistence operations for comments and votes.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves an active comment by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByItem returns paginated active comments for an item and the
	// total count.
	ListByItem(ctx context.Context, itemID string, page, perPage int) ([]domain.Comment, int, error)

	// Update modifies an existing comment's content.
	Update(ctx context.Context, comment *domain.Comment) error

	// SoftDelete tombstones the comment and its votes.
	SoftDelete(ctx context.Context, id string) error

	// Vote records or flips the user's like/dislike on a comment inside a
	// single transaction, locking the comment row and maintaining its
	// counters. Voting the same way twice removes the vote.
	Vote(ctx context.Context, commentID, userID string, isLike bool) error
}

// ReportRepository defines persistence operations for the moderation report
// ledger, generic over target and reporter kind.
type ReportRepository interface {
	// Get returns the active report for the (reporter, target) pair.
	Get(ctx context.Context, targetKind domain.TargetKind, targetID string, reporterKind domain.ReporterKind, reporterID string) (*domain.Report, error)

	// Create inserts a new report.
	Create(ctx context.Context, report *domain.Report) error

	// UpdateReason changes the reason of an existing report in place.
	UpdateReason(ctx context.Context, id, reason string) error

	// Delete removes a report from the ledger. Retraction is a hard delete.
	Delete(ctx context.Context, id string) error

	// ListUncontrolled returns paginated reports awaiting moderation review
	// and the total count.
	ListUncontrolled(ctx context.Context, page, perPage int) ([]domain.Report, int, error)

	// MarkControlled flags a report as reviewed by moderation.
	MarkControlled(ctx context.Context, id string) error
}

// FavoriteRepository defines persistence operations for user favorites.
type FavoriteRepository interface {
	// Add marks an item as favorited by the user.
	Add(ctx context.Context, userID, itemID string) error

	// Remove unmarks the favorite.
	Remove(ctx context.Context, userID, itemID string) error

	// ListByUser returns the user's favorited items, paginated, with the
	// total count.
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Item, int, error)
}

// AddressRepository defines persistence operations for user addresses.
type AddressRepository interface {
	// Create inserts a new address.
	Create(ctx context.Context, address *domain.Address) error

	// GetByID retrieves an active address by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Address, error)

	// ListByUserID returns all active addresses for the given user.
	ListByUserID(ctx context.Context, userID string) ([]domain.Address, error)

	// Update modifies an existing address.
	Update(ctx context.Context, address *domain.Address) error

	// SoftDelete tombstones an address.
	SoftDelete(ctx context.Context, id string) error

	// SetDefault marks the specified address as the user's default,
	// unsetting any previous default.
	SetDefault(ctx context.Context, userID, addressID string) error
}

// PaymentMethodRepository defines persistence operations for saved cards.
type PaymentMethodRepository interface {
	// Create inserts a new payment method.
	Create(ctx context.Context, method *domain.PaymentMethod) error

	// GetByID retrieves an active payment method by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error)

	// ListByUserID returns all active payment methods for the given user.
	ListByUserID(ctx context.Context, userID string) ([]domain.PaymentMethod, error)

	// SoftDelete tombstones a payment method.
	SoftDelete(ctx context.Context, id string) error

	// SetDefault marks the specified payment method as the user's default,
	// unsetting any previous default.
	SetDefault(ctx context.Context, userID, methodID string) error
}

// CartRepository defines persistence operations for shopping carts.
type CartRepository interface {
	// Get retrieves the user's cart. A missing cart is not an error; a nil
	// cart is returned instead.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save stores the cart unconditionally.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion stores the cart only if the stored version still equals
	// expectedVersion, incrementing the version on success. Returns false
	// when a concurrent write won.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes the user's cart.
	Delete(ctx context.Context, userID string) error
}
