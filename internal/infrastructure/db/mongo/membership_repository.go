package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fineko/fineko-api/internal/core/domain"
)

type MembershipRepository struct {
	coll *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{coll: db.Collection(membershipsCollection)}
}

type mongoMembership struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	CompanyID string    `bson:"company_id"`
	Status    string    `bson:"status"`
	Notes     string    `bson:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func toMongoMembership(m *domain.Membership) mongoMembership {
	return mongoMembership{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Status:    string(m.Status),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

func (r *MembershipRepository) Exists(ctx context.Context, userID, companyID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx,
		bson.M{"user_id": userID, "company_id": companyID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count memberships: %w", err)
	}
	return n > 0, nil
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find memberships: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMembership
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode memberships: %w", err)
	}
	out := make([]*domain.Membership, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Membership{
			ID:        d.ID,
			UserID:    d.UserID,
			CompanyID: d.CompanyID,
			Status:    domain.MembershipStatus(d.Status),
			Notes:     d.Notes,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out, nil
}
