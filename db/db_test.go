package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"deliciasmz/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassifyUnavailable(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		mongo.ErrClientDisconnected,
		errors.New("server selection error: context deadline exceeded"),
		errors.New("dial tcp 127.0.0.1:27017: connect: connection refused"),
		mongo.CommandError{Code: codeNamespaceNotFound, Message: "ns not found"},
		mongo.CommandError{Code: codeAuthenticationFailed, Message: "auth failed"},
	}
	for _, err := range cases {
		got := classify(fmt.Errorf("op: %w", err))
		assert.ErrorIs(t, got, storage.ErrUnavailable, err.Error())
		assert.True(t, storage.IsUnavailable(got))
	}
}

func TestClassifyDuplicateAndPassThrough(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	got := classify(dup)
	assert.ErrorIs(t, got, ErrDuplicate)
	assert.False(t, storage.IsUnavailable(got))

	plain := errors.New("validation failed")
	assert.Same(t, plain, classify(plain))
	assert.NoError(t, classify(nil))

	already := fmt.Errorf("%w: x", storage.ErrUnavailable)
	assert.Same(t, already, classify(already))
}

func TestObjectID(t *testing.T) {
	_, err := objectID("rec_001")
	assert.ErrorIs(t, err, ErrInvalidID)

	oid, err := objectID("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", oid.Hex())
}

func TestConnectWithoutURIIsUnconfigured(t *testing.T) {
	_, err := Connect(context.Background(), "", "", nil)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestRecipesPipelineShape(t *testing.T) {
	p := recipesPipeline()
	require.Len(t, p, 4)
	assert.Equal(t, "$sort", p[0][0].Key)
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, p[0][0].Value)

	var joined []string
	for _, stage := range p[1:] {
		require.Equal(t, "$lookup", stage[0].Key)
		joined = append(joined, stage[0].Value.(bson.M)["as"].(string))
	}
	assert.Equal(t, []string{"profiles", "likes", "comments"}, joined)
}
