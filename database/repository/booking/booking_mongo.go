package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a booking repository on the "bookings" collection.
func NewMongoBookingRepo(db *mongo.Database, logger *zap.Logger) BookingRepository {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

// FindByID retrieves a booking by its ID.
func (r *MongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.BookingRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return models.BookingFromRecord(rec)
}

// Save upserts the booking with optimistic versioning.
func (r *MongoBookingRepo) Save(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	rec := b.ToRecord()
	expected := rec.Version
	rec.Version = expected + 1

	if expected == 0 {
		if _, err := r.coll.InsertOne(ctx, rec); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrVersionConflict
			}
			return nil, fmt.Errorf("error creating booking: %w", err)
		}
	} else {
		filter := bson.M{"id": rec.ID, "version": expected}
		res, err := r.coll.ReplaceOne(ctx, filter, rec)
		if err != nil {
			return nil, fmt.Errorf("error updating booking %s: %w", rec.ID, err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrVersionConflict
		}
	}

	b.Version = rec.Version
	return b, nil
}

// ListByClient returns the client's bookings ordered by date, newest first.
func (r *MongoBookingRepo) ListByClient(ctx context.Context, clientID string) ([]*models.Booking, error) {
	return r.find(ctx, bson.M{"client_id": clientID})
}

// ListAll returns every booking ordered by date, newest first.
func (r *MongoBookingRepo) ListAll(ctx context.Context) ([]*models.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*models.Booking, 0)
	for cursor.Next(ctx) {
		var rec models.BookingRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		b, err := models.BookingFromRecord(rec)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}
