package predict

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in     string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://models/salary/v1.json", "models", "salary/v1.json", true},
		{"s3://models", "", "", false},
		{"s3:///key", "", "", false},
		{"model.json", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, ok := parseS3URL(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.bucket, bucket, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
	}
}

func TestLoadModel_LocalMissing(t *testing.T) {
	_, err := LoadModel(context.Background(), "testdata/nope.json", S3Options{})
	assert.Error(t, err)
}

func TestLoadModel_FromS3(t *testing.T) {
	body, err := os.ReadFile("testdata/model.json")
	require.NoError(t, err)

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	m, err := LoadModel(context.Background(), "s3://models/salary.json", S3Options{
		Region:       "us-east-1",
		AccessKey:    "minio",
		SecretKey:    "minio123",
		BaseEndpoint: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "/models/salary.json", gotPath)
	assert.Len(t, m.Countries(), 3)
}

func TestLoadModel_S3ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := LoadModel(context.Background(), "s3://b/k", S3Options{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestLoadModel_S3NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
	}))
	defer srv.Close()

	_, err := LoadModel(context.Background(), "s3://models/missing.json", S3Options{
		Region: "us-east-1", AccessKey: "a", SecretKey: "b", BaseEndpoint: srv.URL,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://models/missing.json")
}
