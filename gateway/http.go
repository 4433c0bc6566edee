package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"roomservice/order"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPGateway submits orders to a real fulfillment endpoint over HTTP.
// Transport and remote failures fold into Rejected per the boundary contract.
type HTTPGateway struct {
	endpoint   string
	httpClient doer
}

func NewHTTPGateway(endpoint string, httpClient doer) *HTTPGateway {
	return &HTTPGateway{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

func (g *HTTPGateway) Place(ctx context.Context, o order.Order) (Outcome, error) {
	payload, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return Rejected{Message: fmt.Sprintf("room service system unreachable: %v", err)}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rejected{Message: fmt.Sprintf("failed to read room service response: %v", err)}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return Rejected{Message: fmt.Sprintf("room service system refused the order: %s: %s", resp.Status, bytes.TrimSpace(body))}, nil
	}

	var placed Placed
	if err := json.Unmarshal(body, &placed); err != nil {
		return Rejected{Message: fmt.Sprintf("malformed room service response: %v", err)}, nil
	}
	return placed, nil
}
