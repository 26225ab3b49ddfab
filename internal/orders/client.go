package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jyotishankarp/minishop/internal/domain"
)

// ProductClient implements ProductLookup against the products service over
// HTTP, using its batch endpoint.
type ProductClient struct {
	baseURL string
	client  *http.Client
}

func NewProductClient(baseURL string, client *http.Client) *ProductClient {
	return &ProductClient{
		baseURL: baseURL,
		client:  client,
	}
}

func (c *ProductClient) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	body, err := json.Marshal(map[string][]string{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("marshal by-ids request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products/by-ids", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create by-ids request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call products service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("products service returned status %d", resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}
	return products, nil
}
