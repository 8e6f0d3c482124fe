// Package transfer performs uploads against the remote archive API: one
// multipart transfer per queue item, plus the orchestrator that fans a batch
// out and joins on completion.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/mediavault/mediavault-go/tool"
	"github.com/mediavault/mediavault-go/types"
)

// DateTakenLayout is the wire format the archive expects for date_taken.
const DateTakenLayout = "2006-01-02 15:04:05"

// Client talks to the remote archive API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    tool.GetUploadHttpClient(),
	}
}

// UploadDocument sends one file as multipart form data and returns the
// server-assigned document number. Every failure mode (network error, non-2xx,
// unparseable body, server-reported failure) comes back as an error so the
// caller can resolve the item to exactly one terminal status.
func (c *Client) UploadDocument(ctx context.Context, item types.UploadItem, abstract string, parentID, eventID int, progress ProgressFunc) (int, error) {
	data, err := os.ReadFile(item.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %v", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fw, err := writer.CreateFormFile("file", item.OriginalName)
	if err != nil {
		return 0, fmt.Errorf("failed to build multipart body: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		return 0, fmt.Errorf("failed to build multipart body: %v", err)
	}
	fields := map[string]string{
		"docname":  item.FileName,
		"abstract": abstract,
	}
	// parent_id and event_id are mutually exclusive; parent wins when both are configured.
	if parentID > 0 {
		fields["parent_id"] = strconv.Itoa(parentID)
	} else if eventID > 0 {
		fields["event_id"] = strconv.Itoa(eventID)
	}
	if item.DateTaken != nil {
		fields["date_taken"] = item.DateTaken.Format(DateTakenLayout)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return 0, fmt.Errorf("failed to build multipart body: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to build multipart body: %v", err)
	}

	total := int64(buf.Len())
	body := &progressReader{r: bytes.NewReader(buf.Bytes()), total: total, cb: progress}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload_document", body)
	if err != nil {
		return 0, fmt.Errorf("failed to create upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send upload request: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		tool.DefaultLogger.Warnf("Failed to read upload response body: %v", readErr)
	}

	var parsed types.UploadDocumentResponse
	parseErr := sonic.Unmarshal(respBody, &parsed)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if parseErr == nil && parsed.Error != "" {
			return 0, fmt.Errorf("%s", parsed.Error)
		}
		return 0, fmt.Errorf("upload request failed: %s", resp.Status)
	}
	if parseErr != nil {
		return 0, fmt.Errorf("failed to parse upload response: %v", parseErr)
	}
	if !parsed.Success {
		switch {
		case parsed.Error != "":
			return 0, fmt.Errorf("%s", parsed.Error)
		case parsed.Message != "":
			return 0, fmt.Errorf("%s", parsed.Message)
		default:
			return 0, fmt.Errorf("upload rejected by server")
		}
	}
	if parsed.DocNumber == 0 {
		return 0, fmt.Errorf("upload response missing docnumber")
	}

	tool.DefaultLogger.Infof("[Upload] %s uploaded as document %d", item.FileName, parsed.DocNumber)
	return parsed.DocNumber, nil
}
