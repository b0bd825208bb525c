package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mimoza-store/storefront-api/pkg/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// UserStore is the Mongo-backed account store consumed by the auth service.
type UserStore struct{}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (UserStore) CreateUser(ctx context.Context, user *models.User) error {
	collection := GetCollection("users")

	count, err := collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}

	user.CreatedAt = time.Now().UTC()
	res, err := collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := GetCollection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserRole resolves the current role for a user id. The auth service
// calls this on every admin check rather than trusting the role embedded in
// the token, so demotions take effect immediately.
func (UserStore) GetUserRole(ctx context.Context, userID string) (string, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return "", ErrUserNotFound
	}

	var user models.User
	err = GetCollection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
