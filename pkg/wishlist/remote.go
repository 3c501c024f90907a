package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/identity"
)

// Remote is the role-scoped wishlist store. Every call returns the full
// list as the server holds it after the call.
type Remote interface {
	List(ctx context.Context, id identity.Identity) ([]catalog.Product, error)
	Add(ctx context.Context, id identity.Identity, productID string) ([]catalog.Product, error)
	Remove(ctx context.Context, id identity.Identity, productID string) ([]catalog.Product, error)
}

// ListResponse is the body of every wishlist endpoint.
type ListResponse struct {
	Items []catalog.Product `json:"items"`
}

// AddRequest is the body of POST /wishlist/:role.
type AddRequest struct {
	ProductID string `json:"product_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPRemote talks to the wishlist endpoints over JSON/HTTP with bearer auth.
type HTTPRemote struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRemote builds a remote against baseURL (for example the gateway
// root). The timeout bounds a whole request including the body read.
func NewHTTPRemote(baseURL string, timeout time.Duration) *HTTPRemote {
	return &HTTPRemote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (r *HTTPRemote) List(ctx context.Context, id identity.Identity) ([]catalog.Product, error) {
	return r.do(ctx, id, http.MethodGet, "/wishlist/"+id.Role(), nil)
}

func (r *HTTPRemote) Add(ctx context.Context, id identity.Identity, productID string) ([]catalog.Product, error) {
	body, err := json.Marshal(AddRequest{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return r.do(ctx, id, http.MethodPost, "/wishlist/"+id.Role(), body)
}

func (r *HTTPRemote) Remove(ctx context.Context, id identity.Identity, productID string) ([]catalog.Product, error) {
	path := "/wishlist/" + id.Role() + "/" + url.PathEscape(productID)
	return r.do(ctx, id, http.MethodDelete, path, nil)
}

func (r *HTTPRemote) do(ctx context.Context, id identity.Identity, method, path string, body []byte) ([]catalog.Product, error) {
	if id.IsAnonymous() || id.Token == "" {
		return nil, ErrAuthMissing
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+id.Token)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var eb errorResponse
		_ = json.Unmarshal(raw, &eb)
		return nil, &Error{Kind: KindNetwork, Message: eb.Error, Status: resp.StatusCode}
	}

	var out ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, classify(fmt.Errorf("decode wishlist: %w", err))
	}
	if out.Items == nil {
		out.Items = []catalog.Product{}
	}
	return out.Items, nil
}
