package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIClient implements Saver and Loader against the document REST surface,
// the same way the web editor does: POST for unpersisted documents, PUT once
// an id is known.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: http.DefaultClient,
	}
}

type documentPayload struct {
	Id      string `json:"_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *APIClient) Fetch(ctx context.Context, id string) (Document, error) {
	var payload documentPayload
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+id, nil, &payload); err != nil {
		return Document{}, err
	}
	return Document{Id: payload.Id, Title: payload.Title, Content: payload.Content}, nil
}

func (c *APIClient) Save(ctx context.Context, doc Document) (Document, error) {
	body := map[string]string{
		"title":   doc.Title,
		"content": doc.Content,
	}

	method := http.MethodPost
	path := "/api/documents"
	if doc.Id != "" {
		method = http.MethodPut
		path = "/api/documents/" + doc.Id
	}

	var payload documentPayload
	if err := c.do(ctx, method, path, body, &payload); err != nil {
		return Document{}, err
	}
	return Document{Id: payload.Id, Title: payload.Title, Content: payload.Content}, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
