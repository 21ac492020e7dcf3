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

// enrollmentRepository handles enrollment document access.
type enrollmentRepository struct {
	db *mongodb.Client
}

// NewEnrollmentRepository creates an enrollment repository backed by the
// shared mongo client.
func NewEnrollmentRepository(db *mongodb.Client) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// EmailExists reports whether an enrollment with the given (already
// lower-cased) email is present.
func (r *enrollmentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	opCtx, cancel := r.db.Context(ctx)
	defer cancel()

	err := r.db.Enrollments().FindOne(opCtx, bson.M{"email": email}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check enrollment email: %w", err)
	}
	return true, nil
}

// Insert stores a new enrollment and returns the generated id. A unique-index
// violation on email surfaces as ErrDuplicateEmail, which keeps the
// at-most-one-record-per-email invariant even when two submissions race past
// the pre-check.
func (r *enrollmentRepository) Insert(ctx context.Context, enrollment *models.Enrollment) (string, error) {
	opCtx, cancel := r.db.Context(ctx)
	defer cancel()

	res, err := r.db.Enrollments().InsertOne(opCtx, enrollment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to insert enrollment: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

// List returns one page of enrollments sorted by submission time descending,
// plus the total document count.
func (r *enrollmentRepository) List(ctx context.Context, page, limit int) ([]models.Enrollment, int64, error) {
	opCtx, cancel := r.db.Context(ctx)
	defer cancel()

	coll := r.db.Enrollments()

	total, err := coll.CountDocuments(opCtx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := coll.Find(opCtx, bson.M{}, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer cursor.Close(opCtx)

	enrollments := []models.Enrollment{}
	if err := cursor.All(opCtx, &enrollments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode enrollments: %w", err)
	}
	return enrollments, total, nil
}
