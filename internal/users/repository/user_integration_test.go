package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	userserrors "laptoploan/internal/users/errors"
	"laptoploan/pkg/config"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoUserRepository(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("laptoploan_users_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	_, err = db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)

	repo := NewMongoUserRepository(&config.Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Log:          logger.Discard(),
	}, db)

	u := &model.User{StudentID: "S1", Name: "홍길동", Email: "hong@example.com"}
	require.NoError(t, repo.Create(ctx, u))
	require.Len(t, u.ID, 24)

	got, err := repo.FindByStudentID(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", byID.Name)

	err = repo.Create(ctx, &model.User{StudentID: "S1", Name: "다른사람", Email: "x@example.com"})
	assert.True(t, errors.Is(err, userserrors.ErrDuplicateStudentID))

	_, err = repo.FindByStudentID(ctx, "S404")
	assert.True(t, errors.Is(err, userserrors.ErrNotFound))

	_, err = repo.FindByID(ctx, "zzz")
	assert.True(t, errors.Is(err, userserrors.ErrInvalidID))
}
