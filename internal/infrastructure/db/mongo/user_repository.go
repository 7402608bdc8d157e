package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fineko/fineko-api/internal/core/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID               string    `bson:"_id"`
	FirstName        string    `bson:"first_name"`
	LastName         string    `bson:"last_name,omitempty"`
	TelegramUserID   string    `bson:"telegram_user_id"`
	TelegramUsername string    `bson:"telegram_username,omitempty"`
	Avatar           string    `bson:"avatar,omitempty"`
	IsAdmin          bool      `bson:"is_admin"`
	CreatedAt        time.Time `bson:"created_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := mongoUser{
		ID:               user.ID,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		TelegramUserID:   user.TelegramUserID,
		TelegramUsername: user.TelegramUsername,
		Avatar:           user.Avatar,
		IsAdmin:          user.IsAdmin,
		CreatedAt:        user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramUserID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"telegram_user_id": telegramUserID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &domain.User{
		ID:               mu.ID,
		FirstName:        mu.FirstName,
		LastName:         mu.LastName,
		TelegramUserID:   mu.TelegramUserID,
		TelegramUsername: mu.TelegramUsername,
		Avatar:           mu.Avatar,
		IsAdmin:          mu.IsAdmin,
		CreatedAt:        mu.CreatedAt.UTC(),
	}, nil
}
