// internal/interface/repository/booking_repo.go
package repository

import (
	"context"
	"errors"
	"regexp"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepository implements the BookingRepository interface
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new MongoDB booking repository
func NewMongoBookingRepository(db *mongo.Database) repository.BookingRepository {
	collection := db.Collection("bookings")

	// Create indexes for better performance
	ctx := context.Background()

	// Compound index for the availability and duplicate checks
	dateStatusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
		},
	}

	// Index on nationalId for the customer lookup surface
	nationalIDIndex := mongo.IndexModel{
		Keys: bson.M{"nationalId": 1},
	}

	// Index on createdAt for the admin listing sort
	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	// Index on status for the expiry sweep and stats
	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	// Create all indexes
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		dateStatusIndex,
		nationalIDIndex,
		createdAtIndex,
		statusIndex,
	})

	return &MongoBookingRepository{
		collection: collection,
	}
}

// Insert saves a new booking
func (r *MongoBookingRepository) Insert(ctx context.Context, booking *entity.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return &entity.StoreError{Op: "insert", Err: err}
	}
	return nil
}

// FindByID finds a booking by its booking id
func (r *MongoBookingRepository) FindByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, &entity.StoreError{Op: "find", Err: err}
	}
	return &booking, nil
}

// FindByDate finds bookings on a calendar day, optionally restricted to a status set
func (r *MongoBookingRepository) FindByDate(ctx context.Context, date string, statuses []string) ([]*entity.Booking, error) {
	filter := bson.M{"date": date}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, &entity.StoreError{Op: "decode", Err: err}
	}
	return bookings, nil
}

// Find queries the collection with equality, membership and substring filters
func (r *MongoBookingRepository) Find(ctx context.Context, f repository.BookingFilter) ([]*entity.Booking, error) {
	filter := bson.M{}

	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if f.NationalID != "" {
		filter["nationalId"] = f.NationalID
	}
	if f.DateFrom != "" || f.DateTo != "" {
		dateRange := bson.M{}
		if f.DateFrom != "" {
			dateRange["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			dateRange["$lte"] = f.DateTo
		}
		filter["date"] = dateRange
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"customerName": pattern},
			{"customerPhone": pattern},
		}
	}

	opts := options.Find()
	if f.SortByCreatedDesc {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, &entity.StoreError{Op: "decode", Err: err}
	}
	return bookings, nil
}

// Update applies a partial field update to one booking
func (r *MongoBookingRepository) Update(ctx context.Context, bookingID string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": set})
	if err != nil {
		return &entity.StoreError{Op: "update", Err: err}
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// Delete removes a booking. Deleting a booking that is already gone is a
// no-op success, which keeps overlapping sweeps safe.
func (r *MongoBookingRepository) Delete(ctx context.Context, bookingID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": bookingID})
	if err != nil {
		return &entity.StoreError{Op: "delete", Err: err}
	}
	return nil
}

// CountByStatus counts bookings holding the given status
func (r *MongoBookingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, &entity.StoreError{Op: "count", Err: err}
	}
	return count, nil
}
