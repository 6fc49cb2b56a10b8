package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civic-agent/api/internal/imgcodec"
)

func testImage(t *testing.T) *imgcodec.Image {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	im, err := imgcodec.Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, err)
	return im
}

func stubServer(t *testing.T, handler http.HandlerFunc) *HFClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHF(srv.URL)
}

func TestClassifyHappyPath(t *testing.T) {
	var got predictRequest
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"category": "potholes", "confidence": 0.9})
	})

	res, err := c.Classify(context.Background(), testImage(t))
	require.NoError(t, err)
	assert.Equal(t, "potholes", res.IssueType)
	assert.Equal(t, 0.9, res.Confidence)

	// the classifier receives the JPEG transport form
	raw, err := base64.StdEncoding.DecodeString(got.ImageB64)
	require.NoError(t, err)
	require.True(t, len(raw) >= 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, raw[:2])
	assert.Equal(t, "image/jpeg", got.MimeType)
}

func TestClassifyMissingCategoryYieldsUnknown(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"confidence": 0.42})
	})

	res, err := c.Classify(context.Background(), testImage(t))
	require.NoError(t, err)
	assert.Equal(t, Unknown, res.IssueType)
	assert.Equal(t, 0.42, res.Confidence)
}

func TestClassifyMissingConfidenceDefaultsToZero(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"category": "garbage"})
	})

	res, err := c.Classify(context.Background(), testImage(t))
	require.NoError(t, err)
	assert.Equal(t, "garbage", res.IssueType)
	assert.Zero(t, res.Confidence)
}

func TestClassifyServerErrorIsUnavailable(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	})

	_, err := c.Classify(context.Background(), testImage(t))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyBadJSONIsUnavailable(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Classify(context.Background(), testImage(t))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyDeadlineIsTimeout(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{"category": "potholes"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := c.Classify(ctx, testImage(t))
	assert.ErrorIs(t, err, ErrTimeout)
}
