package processing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/mediavault/mediavault-go/tool"
	"github.com/mediavault/mediavault-go/types"
)

// StatusClient is the archive-side half of the reconciliation loop.
type StatusClient interface {
	// ProcessingStatus returns the subset of docNumbers still under analysis.
	ProcessingStatus(ctx context.Context, docNumbers []int) ([]int, error)
	// TriggerProcessing asks the archive to start analyzing the given documents.
	TriggerProcessing(ctx context.Context, docNumbers []int) error
}

// APIClient implements StatusClient against the remote archive API.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    tool.GetHttpClient(),
	}
}

func (c *APIClient) ProcessingStatus(ctx context.Context, docNumbers []int) ([]int, error) {
	body, err := c.postJSON(ctx, "/processing_status", types.ProcessingStatusRequest{DocNumbers: docNumbers})
	if err != nil {
		return nil, err
	}
	var response types.ProcessingStatusResponse
	if err := sonic.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse processing_status response: %v", err)
	}
	return response.Processing, nil
}

func (c *APIClient) TriggerProcessing(ctx context.Context, docNumbers []int) error {
	_, err := c.postJSON(ctx, "/process_uploaded_documents", types.ProcessDocumentsRequest{DocNumbers: docNumbers})
	return err
}

func (c *APIClient) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %v", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s request: %v", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read %s response: %v", path, readErr)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s request failed: %s", path, resp.Status)
	}
	return body, nil
}
