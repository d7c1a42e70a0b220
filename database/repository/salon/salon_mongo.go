package salonRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSalonRepo implements SalonRepository using MongoDB.
type MongoSalonRepo struct {
	clientColl  *mongo.Collection
	masterColl  *mongo.Collection
	serviceColl *mongo.Collection
}

// NewMongoSalonRepo constructs a new instance of MongoSalonRepo.
func NewMongoSalonRepo(db *mongo.Database) SalonRepository {
	return &MongoSalonRepo{
		clientColl:  db.Collection("clients"),
		masterColl:  db.Collection("masters"),
		serviceColl: db.Collection("services"),
	}
}

// findOne decodes the document with the given id into out; found is false
// when there is no such document.
func findOne(ctx context.Context, coll *mongo.Collection, id string, out interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("error fetching %s with id %s: %w", coll.Name(), id, err)
	}
	return true, nil
}

func (r *MongoSalonRepo) FindClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	found, err := findOne(ctx, r.clientColl, id, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *MongoSalonRepo) FindMaster(ctx context.Context, id string) (*models.Master, error) {
	var m models.Master
	found, err := findOne(ctx, r.masterColl, id, &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (r *MongoSalonRepo) FindService(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	found, err := findOne(ctx, r.serviceColl, id, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// ListMasters returns all masters sorted by name.
func (r *MongoSalonRepo) ListMasters(ctx context.Context) ([]models.Master, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.masterColl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve masters: %w", err)
	}
	masters := make([]models.Master, 0)
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode masters: %w", err)
	}
	return masters, nil
}

// ListServices returns all services sorted by name.
func (r *MongoSalonRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.serviceColl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	services := make([]models.Service, 0)
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}
