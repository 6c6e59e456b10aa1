package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
	userSequence       = "users"
)

// UserRepository implements ports.UserRepository using MongoDB. Ids are
// sequential integers drawn from the counters collection.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

type mongoUser struct {
	ID           int64    `bson:"_id"`
	Email        string   `bson:"email"`
	PasswordHash string   `bson:"password_hash"`
	FirstName    string   `bson:"first_name"`
	LastName     string   `bson:"last_name"`
	Phone        string   `bson:"phone"`
	Role         string   `bson:"role"`
	Services     []string `bson:"services"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

type providerDoc struct {
	ID        int64  `bson:"_id"`
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Save inserts a new user (assigning the next id) when ID is zero and
// replaces the stored document otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	if doc.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := r.users.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return fromMongoUser(doc), nil
	}

	res, err := r.users.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace user %d: %w", doc.ID, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return fromMongoUser(doc), nil
}

// FindByService returns id and names of every user offering service, ordered by id.
func (r *UserRepository) FindByService(ctx context.Context, service domain.MedicalService) ([]ports.ProviderSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "first_name": 1, "last_name": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.users.Find(ctx, bson.M{"services": string(service)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users by service: %w", err)
	}
	defer cur.Close(ctx)

	var docs []providerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}

	out := make([]ports.ProviderSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, ports.ProviderSummary{ID: d.ID, FirstName: d.FirstName, LastName: d.LastName})
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes. The email index is deliberately
// not unique: duplicate detection happens in the service layer.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "services", Value: 1}}},
	}

	_, err := r.users.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(mu), nil
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counterDoc
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return c.Seq, nil
}

func toMongoUser(u *domain.User) mongoUser {
	services := make([]string, 0, len(u.Services))
	for _, s := range u.Services {
		services = append(services, string(s))
	}
	return mongoUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		Role:         string(u.Role),
		Services:     services,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func fromMongoUser(mu mongoUser) *domain.User {
	services := make([]domain.MedicalService, 0, len(mu.Services))
	for _, s := range mu.Services {
		services = append(services, domain.MedicalService(s))
	}
	return &domain.User{
		ID:           mu.ID,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Phone:        mu.Phone,
		Role:         domain.Role(mu.Role),
		Services:     services,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
