package storage_test

import (
	"context"
	"errors"
	"testing"

	"cms-sync/core/storage"
	"cms-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "media").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, m, "media", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "media").Return(false, nil)
		m.On("MakeBucket", mock.Anything, "media", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, m, "media", "eu-west-1"))
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "media").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, m, "media", "")
		assert.ErrorContains(t, err, "denied")
	})
}

func TestObjectExists(t *testing.T) {
	ctx := context.Background()

	m := new(mocks.Client)
	m.On("StatObject", mock.Anything, "media", "present", mock.Anything).Return(minio.ObjectInfo{Key: "present"}, nil)
	m.On("StatObject", mock.Anything, "media", "absent", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	m.On("StatObject", mock.Anything, "media", "broken", mock.Anything).
		Return(minio.ObjectInfo{}, errors.New("timeout"))

	ok, err := storage.ObjectExists(ctx, m, "media", "present")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = storage.ObjectExists(ctx, m, "media", "absent")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = storage.ObjectExists(ctx, m, "media", "broken")
	assert.Error(t, err)
}
