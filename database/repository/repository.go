package repository

import (
	"salonbook/database"
	bookingRepo "salonbook/database/repository/booking"
	"salonbook/database/repository/memstore"
	paymentRepo "salonbook/database/repository/payment"
	salonRepo "salonbook/database/repository/salon"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Re-export the repository interfaces.
type BookingRepository = bookingRepo.BookingRepository

type PaymentRepository = paymentRepo.PaymentRepository

type SalonRepository = salonRepo.SalonRepository

var ErrVersionConflict = bookingRepo.ErrVersionConflict

// Stores groups the repositories a running service needs.
type Stores struct {
	Bookings BookingRepository
	Payments PaymentRepository
	Salon    SalonRepository
	Tx       database.Transactor
}

// NewMongoStores builds every repository on one Mongo database.
func NewMongoStores(client *mongo.Client, db *mongo.Database, logger *zap.Logger) Stores {
	return Stores{
		Bookings: bookingRepo.NewMongoBookingRepo(db, logger),
		Payments: paymentRepo.NewMongoPaymentRepo(db, logger),
		Salon:    salonRepo.NewMongoSalonRepo(db),
		Tx:       database.NewMongoTransactor(client),
	}
}

// NewMemoryStores builds every repository on one in-memory store.
func NewMemoryStores(seed bool) (Stores, *memstore.Store) {
	store := memstore.New()
	if seed {
		store.Seed()
	}
	return Stores{
		Bookings: store,
		Payments: store.Payments(),
		Salon:    store,
		Tx:       store,
	}, store
}
