package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// CompanyRepository stores companies. CreateWithOwner needs a replica set
// because it runs in a multi-document transaction.
type CompanyRepository struct {
	client      *mongo.Client
	coll        *mongo.Collection
	memberships *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{
		client:      db.Client(),
		coll:        db.Collection(companiesCollection),
		memberships: db.Collection(membershipsCollection),
	}
}

type mongoCompany struct {
	ID                  string     `bson:"_id"`
	Name                string     `bson:"name"`
	OwnerID             string     `bson:"owner_id"`
	SubscriptionTier    string     `bson:"subscription_tier,omitempty"`
	SubscriptionExpires *time.Time `bson:"subscription_expires,omitempty"`
	TrialEnds           *time.Time `bson:"trial_ends,omitempty"`
	TelegramChatID      int64      `bson:"telegram_chat_id,omitempty"`
	CreatedAt           time.Time  `bson:"created_at"`
}

func (d mongoCompany) toDomain() *domain.Company {
	return &domain.Company{
		ID:                  d.ID,
		Name:                d.Name,
		OwnerID:             d.OwnerID,
		SubscriptionTier:    d.SubscriptionTier,
		SubscriptionExpires: d.SubscriptionExpires,
		TrialEnds:           d.TrialEnds,
		TelegramChatID:      d.TelegramChatID,
		CreatedAt:           d.CreatedAt.UTC(),
	}
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	var doc mongoCompany
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CompanyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Company, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
}

func (r *CompanyRepository) List(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	companies, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *CompanyRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Company, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find companies: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoCompany
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}
	out := make([]*domain.Company, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// CreateWithOwner inserts the company and its owner membership in one
// transaction.
func (r *CompanyRepository) CreateWithOwner(ctx context.Context, company *domain.Company, owner *domain.Membership) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := r.coll.InsertOne(sc, mongoCompany{
			ID:                  company.ID,
			Name:                company.Name,
			OwnerID:             company.OwnerID,
			SubscriptionTier:    company.SubscriptionTier,
			SubscriptionExpires: company.SubscriptionExpires,
			TrialEnds:           company.TrialEnds,
			CreatedAt:           company.CreatedAt,
		}); err != nil {
			return nil, fmt.Errorf("insert company: %w", err)
		}
		if _, err := r.memberships.InsertOne(sc, toMongoMembership(owner)); err != nil {
			return nil, fmt.Errorf("insert owner membership: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) SetTelegramChat(ctx context.Context, companyID string, chatID int64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": companyID},
		bson.M{"$set": bson.M{"telegram_chat_id": chatID}},
	)
	if err != nil {
		return fmt.Errorf("set telegram chat: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}
