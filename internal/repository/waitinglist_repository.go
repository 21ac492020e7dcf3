package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/pkg/mongodb"
)

type waitingListRepository struct {
	db *mongodb.Client
}

// NewWaitingListRepository creates a waiting-list repository backed by the
// shared mongo client.
func NewWaitingListRepository(db *mongodb.Client) WaitingListRepository {
	return &waitingListRepository{db: db}
}

func (r *waitingListRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	opCtx, cancel := r.db.Context(ctx)
	defer cancel()

	err := r.db.WaitingList().FindOne(opCtx, bson.M{"email": email}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check waiting list email: %w", err)
	}
	return true, nil
}

func (r *waitingListRepository) Insert(ctx context.Context, entry *models.WaitingListEntry) (string, error) {
	opCtx, cancel := r.db.Context(ctx)
	defer cancel()

	res, err := r.db.WaitingList().InsertOne(opCtx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to insert waiting list entry: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

func (r *waitingListRepository) List(ctx context.Context, page, limit int) ([]models.WaitingListEntry, int64, error) {
	opCtx, cancel := r.db.Context(ctx)
	defer cancel()

	coll := r.db.WaitingList()

	total, err := coll.CountDocuments(opCtx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count waiting list entries: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := coll.Find(opCtx, bson.M{}, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list waiting list entries: %w", err)
	}
	defer cursor.Close(opCtx)

	entries := []models.WaitingListEntry{}
	if err := cursor.All(opCtx, &entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode waiting list entries: %w", err)
	}
	return entries, total, nil
}
