package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(CollectionUsers)}
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Role         entity.Role        `bson:"role"`
	IsVerified   bool               `bson:"isVerified"`
	ConfirmToken string             `bson:"confirmToken,omitempty"`
	CreatedBy    string             `bson:"createdBy"`
	CreatedDate  time.Time          `bson:"createdDate"`
	UpdatedBy    string             `bson:"updatedBy"`
	UpdatedDate  time.Time          `bson:"updatedDate"`
}

func toUserDocument(u *entity.User) *userDocument {
	return &userDocument{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		ConfirmToken: u.ConfirmToken,
		CreatedBy:    u.CreatedBy,
		CreatedDate:  u.CreatedDate,
		UpdatedBy:    u.UpdatedBy,
		UpdatedDate:  u.UpdatedDate,
	}
}

func toUserEntity(doc *userDocument) *entity.User {
	return &entity.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		IsVerified:   doc.IsVerified,
		ConfirmToken: doc.ConfirmToken,
		AuditInfo: entity.AuditInfo{
			CreatedBy:   doc.CreatedBy,
			CreatedDate: doc.CreatedDate,
			UpdatedBy:   doc.UpdatedBy,
			UpdatedDate: doc.UpdatedDate,
		},
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	err := r.collection.FindOne(ctx, bson.M{"email": user.Email}).Err()
	if err == nil {
		return "", repository.ErrAlreadyExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("failed to check for existing user: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, toUserDocument(user))
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByConfirmToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"confirmToken": token})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserEntity(&doc), nil
}

func (r *UserRepository) FindVerified(ctx context.Context) ([]entity.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isVerified": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list verified users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode verified users: %w", err)
	}

	users := make([]entity.User, len(docs))
	for i := range docs {
		users[i] = *toUserEntity(&docs[i])
	}
	return users, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedDate": time.Now().UTC()},
		"$unset": bson.M{"confirmToken": ""},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
