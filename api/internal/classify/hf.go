package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"civic-agent/api/internal/imgcodec"
)

// HFClient talks to the hosted issue-classifier model over plain JSON.
// The model cold-starts, so both connect and overall budgets stay at 60s.
type HFClient struct {
	URL   string
	httpc *http.Client
}

func NewHF(url string) *HFClient {
	return &HFClient{
		URL: url,
		httpc: &http.Client{
			Timeout: 90 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 60 * time.Second}).DialContext,
			},
		},
	}
}

type predictRequest struct {
	ImageB64 string `json:"image_b64"`
	MimeType string `json:"mime_type,omitempty"`
}

type predictResponse struct {
	Category   *string  `json:"category"`
	Confidence *float64 `json:"confidence"`
}

// Classify sends the re-encoded photo to the predict endpoint. A missing
// category in the response yields the Unknown sentinel, not an error; a
// missing confidence defaults to 0. Failures are not retried here.
func (c *HFClient) Classify(ctx context.Context, img *imgcodec.Image) (Result, error) {
	jpg, err := img.TransportJPEG()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	payload, _ := json.Marshal(predictRequest{
		ImageB64: base64.StdEncoding.EncodeToString(jpg),
		MimeType: "image/jpeg",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Result{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(x))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("%w: bad JSON: %v", ErrUnavailable, err)
	}

	res := Result{IssueType: Unknown}
	if out.Category != nil && *out.Category != "" {
		res.IssueType = *out.Category
	}
	if out.Confidence != nil {
		res.Confidence = *out.Confidence
	}
	return res, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
