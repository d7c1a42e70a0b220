package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a payment repository on the "payments" collection.
func NewMongoPaymentRepo(db *mongo.Database, logger *zap.Logger) PaymentRepository {
	repo := &MongoPaymentRepo{coll: db.Collection("payments")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create payment indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Save inserts a new payment record.
func (r *MongoPaymentRepo) Save(ctx context.Context, p *models.PaymentRecord) (*models.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("error creating payment for booking %s: %w", p.BookingID, err)
	}
	return p, nil
}

// FindByBookingID retrieves the payment linked to a booking.
func (r *MongoPaymentRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.PaymentRecord
	if err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching payment for booking %s: %w", bookingID, err)
	}
	return &p, nil
}
