package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/crypto/bcrypt"
)

const (
	collectionName = "reset_tokens"
	resetTokenTTL  = time.Hour
)

// Connect устанавливает соединение с Mongo и проверяет его пингом.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// TokenMongoStorage — документное хранилище токенов сброса пароля.
// Документ ключуется по user_id, апсерт замещает предыдущий токен.
type TokenMongoStorage struct {
	coll *mongo.Collection
}

func NewTokenMongoStorage(client *mongo.Client, database string) *TokenMongoStorage {
	return &TokenMongoStorage{
		coll: client.Database(database).Collection(collectionName),
	}
}

func (s *TokenMongoStorage) Create(ctx context.Context, userID uint) (string, error) {
	raw := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash reset token: %w", err)
	}

	now := time.Now()
	doc := models.ResetToken{
		UserID:    userID,
		TokenHash: string(hash),
		CreatedAt: now,
		ExpiresAt: now.Add(resetTokenTTL),
	}

	// апсерт по user_id: новый запрос сброса инвалидирует предыдущий токен
	_, err = s.coll.ReplaceOne(ctx, bson.M{"user_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return raw, nil
}

func (s *TokenMongoStorage) Verify(ctx context.Context, userID uint, token string) error {
	var doc models.ResetToken
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("no reset token for user %d: %w", userID, apperrors.ErrInvalidToken)
		}
		return fmt.Errorf("failed to load reset token: %w", err)
	}

	if time.Now().After(doc.ExpiresAt) {
		_ = s.Delete(ctx, userID)
		return fmt.Errorf("reset token for user %d expired: %w", userID, apperrors.ErrInvalidToken)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.TokenHash), []byte(token)); err != nil {
		return fmt.Errorf("reset token mismatch for user %d: %w", userID, apperrors.ErrInvalidToken)
	}

	return nil
}

func (s *TokenMongoStorage) Delete(ctx context.Context, userID uint) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
