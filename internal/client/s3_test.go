package client

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stcker/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3ClientRequiresBucket(t *testing.T) {
	_, err := NewS3Client(context.Background(), config.AWSConfig{Region: "af-south-1"})
	assert.Error(t, err)
}

func TestPresignPut(t *testing.T) {
	c, err := NewS3Client(context.Background(), config.AWSConfig{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "af-south-1",
		Bucket:          "stcker-images",
		Endpoint:        "http://localhost:9000",
	})
	require.NoError(t, err)

	raw, err := c.PresignPut(context.Background(), "products/abc", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/stcker-images/products/abc", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
