package gateway

import (
	"context"
	"io"
	"net/http"
)

// ServiceProxy relays requests to one downstream service. Every public call
// maps 1:1 to a single downstream call; the reply is returned untouched.
type ServiceProxy struct {
	baseURL string
	client  *http.Client
}

func NewServiceProxy(baseURL string, client *http.Client) *ServiceProxy {
	return &ServiceProxy{
		baseURL: baseURL,
		client:  client,
	}
}

// ForwardRequest re-issues the inbound request against the downstream
// service under the given path.
func (p *ServiceProxy) ForwardRequest(ctx context.Context, r *http.Request, path string) (*http.Response, error) {
	return p.Send(ctx, r.Method, path, r.Header.Get("Content-Type"), r.Body)
}

// Send issues a downstream request with an explicit body. The context
// carries any dispatch deadline, so cancellation reaches the downstream
// call itself instead of racing a timer against it.
func (p *ServiceProxy) Send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return p.client.Do(req)
}
