package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "laptoploan/internal/reservations/errors"
	"laptoploan/pkg/config"
	"laptoploan/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByStudentID(ctx context.Context, studentID string) ([]*model.Reservation, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error)
	FindBetween(ctx context.Context, from, to string) ([]*model.Reservation, error)
	FindOutstanding(ctx context.Context, onOrBefore string) ([]*model.Reservation, error)

	// UpdateByID applies update only while the stored status is one of allowed.
	// It reports whether a document matched.
	UpdateByID(ctx context.Context, id string, allowed []model.ReservationStatus, update *model.ReservationUpdate) (bool, error)

	CountByStudentID(ctx context.Context, studentID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type mongoReservationRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config, db *mongo.Database) ReservationRepository {
	return &mongoReservationRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout keeps the caller's deadline when it is shorter than timeout.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	res.CreatedAt = res.CreatedAt.Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}

	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var res model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &res, nil
}

func (r *mongoReservationRepository) FindByStudentID(ctx context.Context, studentID string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"student_id": studentID}, opts)
}

func (r *mongoReservationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	return r.find(ctx, bson.M{}, opts)
}

// FindBetween returns non-rejected reservations dated within [from, to].
// Dates are zero-padded YYYY-MM-DD strings, so string order is calendar order.
func (r *mongoReservationRepository) FindBetween(ctx context.Context, from, to string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":   bson.M{"$gte": from, "$lte": to},
		"status": bson.M{"$ne": model.StatusRejected},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	return r.find(ctx, filter, opts)
}

// FindOutstanding returns reservations that are neither returned nor rejected
// and are dated on or before onOrBefore.
func (r *mongoReservationRepository) FindOutstanding(ctx context.Context, onOrBefore string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":   bson.M{"$lte": onOrBefore},
		"status": bson.M{"$nin": []model.ReservationStatus{model.StatusReturned, model.StatusRejected}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "student_id", Value: 1}, {Key: "date", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoReservationRepository) UpdateByID(ctx context.Context, id string, allowed []model.ReservationStatus, update *model.ReservationUpdate) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	if len(allowed) > 0 {
		filter["status"] = bson.M{"$in": allowed}
	}

	result, err := r.collection.UpdateOne(ctx, filter, buildUpdate(update))
	if err != nil {
		return false, fmt.Errorf("failed to update reservation: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *mongoReservationRepository) CountByStudentID(ctx context.Context, studentID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations for student: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Reservation, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func buildUpdate(u *model.ReservationUpdate) bson.M {
	set := bson.M{}
	if u.Status != "" {
		set["status"] = u.Status
	}
	if u.ReturnedAt != nil {
		set["returned_at"] = u.ReturnedAt.UTC().Truncate(time.Millisecond)
	}
	if u.Overdue != nil {
		set["overdue"] = *u.Overdue
	}
	if u.RejectReason != nil {
		set["reject_reason"] = *u.RejectReason
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if u.IncOverdueCount != 0 {
		update["$inc"] = bson.M{"overdue_count": u.IncOverdueCount}
	}
	return update
}
