package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// PaymentMethodClient implements ports.PaymentMethodBackend.
type PaymentMethodClient struct {
	c *Client
}

func NewPaymentMethodClient(c *Client) *PaymentMethodClient {
	return &PaymentMethodClient{c: c}
}

func (p *PaymentMethodClient) List(ctx context.Context, token string, filter domain.PaymentMethodFilter) ([]domain.PaymentMethodRecord, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Type != "" {
		q.Set("paymentMethod", string(filter.Type))
	}
	if filter.IncludeDeleted {
		q.Set("includeDeleted", "true")
	}
	path := "/payment-methods"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []domain.PaymentMethodRecord
	if err := p.c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PaymentMethodClient) Get(ctx context.Context, token, id string) (*domain.PaymentMethodRecord, error) {
	var out domain.PaymentMethodRecord
	if err := p.c.do(ctx, http.MethodGet, itemPath(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PaymentMethodClient) Create(ctx context.Context, token string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error) {
	var out domain.PaymentMethodRecord
	if err := p.c.do(ctx, http.MethodPost, "/payment-methods", token, rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PaymentMethodClient) Update(ctx context.Context, token, id string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error) {
	var out domain.PaymentMethodRecord
	if err := p.c.do(ctx, http.MethodPut, itemPath(id), token, rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PaymentMethodClient) Delete(ctx context.Context, token, id string) error {
	return p.c.do(ctx, http.MethodDelete, itemPath(id), token, nil, nil)
}

func itemPath(id string) string {
	return "/payment-methods/" + url.PathEscape(id)
}
