// Package backend adapts the scholarship REST backend to the core ports.
// Every call goes through the portal instance's gateway client, so it
// carries that instance's bearer credential.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
)

// Client implements the RoleSource, ScholarshipCatalog, ApplicationDesk,
// ReviewBoard, UserDirectory, Payments and Analytics ports.
type Client struct {
	api *gateway.Client
}

func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

// classify keeps the *gateway.APIError reachable and adds the matching
// domain sentinel.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch gateway.StatusOf(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func seg(s string) string { return url.PathEscape(s) }

// FetchRole reads GET /user/{email}/role. A body without a role field
// yields "".
func (c *Client) FetchRole(ctx context.Context, email string) (string, error) {
	var out struct {
		Role string `json:"role"`
	}
	if err := c.api.Get(ctx, "/user/"+seg(email)+"/role", nil, &out); err != nil {
		return "", classify("fetch role", err)
	}
	return out.Role, nil
}

func (c *Client) UpsertUser(ctx context.Context, u *domain.UserRecord) (domain.UpsertOutcome, error) {
	var out struct {
		InsertedID string `json:"insertedId"`
		Message    string `json:"message"`
	}
	err := c.api.Post(ctx, "/users", u, &out)
	if err != nil {
		if gateway.StatusOf(err) == http.StatusConflict {
			return domain.UpsertAlreadyExists, nil
		}
		return "", classify("upsert user", err)
	}
	if out.InsertedID == "" {
		return domain.UpsertAlreadyExists, nil
	}
	return domain.UpsertInserted, nil
}

func (c *Client) ListUsers(ctx context.Context, role domain.Role) ([]domain.UserRecord, error) {
	var q url.Values
	if role.Resolved() {
		q = url.Values{"role": {role.String()}}
	}
	var out []domain.UserRecord
	if err := c.api.Get(ctx, "/users", q, &out); err != nil {
		return nil, classify("list users", err)
	}
	return out, nil
}

func (c *Client) SetUserRole(ctx context.Context, email string, role domain.Role) error {
	body := map[string]string{"role": role.String()}
	return classify("set user role", c.api.Patch(ctx, "/users/"+seg(email)+"/role", body, nil))
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return classify("delete user", c.api.Delete(ctx, "/users/"+seg(id), nil))
}

type scholarshipList struct {
	Items []domain.Scholarship `json:"scholarships"`
	Total int64                `json:"total"`
}

func (c *Client) ListScholarships(ctx context.Context, f ports.ScholarshipFilter) ([]domain.Scholarship, int64, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("subject", f.Subject)
	set("degree", f.Degree)
	set("country", f.Country)
	set("sort", f.Sort)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var out scholarshipList
	if err := c.api.Get(ctx, "/scholarships", q, &out); err != nil {
		return nil, 0, classify("list scholarships", err)
	}
	return out.Items, out.Total, nil
}

func (c *Client) GetScholarship(ctx context.Context, id string) (*domain.Scholarship, error) {
	var out domain.Scholarship
	if err := c.api.Get(ctx, "/scholarships/"+seg(id), nil, &out); err != nil {
		return nil, classify("get scholarship", err)
	}
	return &out, nil
}

func (c *Client) CreateScholarship(ctx context.Context, s *domain.Scholarship) (*domain.Scholarship, error) {
	var out struct {
		InsertedID string `json:"insertedId"`
	}
	if err := c.api.Post(ctx, "/scholarships", s, &out); err != nil {
		return nil, classify("create scholarship", err)
	}
	created := *s
	created.ID = out.InsertedID
	return &created, nil
}

func (c *Client) UpdateScholarship(ctx context.Context, id string, s *domain.Scholarship) (*domain.Scholarship, error) {
	if err := c.api.Put(ctx, "/scholarships/"+seg(id), s, nil); err != nil {
		return nil, classify("update scholarship", err)
	}
	updated := *s
	updated.ID = id
	return &updated, nil
}

func (c *Client) DeleteScholarship(ctx context.Context, id string) error {
	return classify("delete scholarship", c.api.Delete(ctx, "/scholarships/"+seg(id), nil))
}

func (c *Client) CreateApplication(ctx context.Context, a *domain.Application) (*domain.Application, error) {
	var out struct {
		InsertedID string `json:"insertedId"`
	}
	if err := c.api.Post(ctx, "/applications", a, &out); err != nil {
		return nil, classify("create application", err)
	}
	created := *a
	created.ID = out.InsertedID
	return &created, nil
}

func (c *Client) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var out domain.Application
	if err := c.api.Get(ctx, "/applications/"+seg(id), nil, &out); err != nil {
		return nil, classify("get application", err)
	}
	return &out, nil
}

func (c *Client) ListApplicationsByUser(ctx context.Context, email string) ([]domain.Application, error) {
	var out []domain.Application
	if err := c.api.Get(ctx, "/applications/user/"+seg(email), nil, &out); err != nil {
		return nil, classify("list user applications", err)
	}
	return out, nil
}

func (c *Client) ListApplications(ctx context.Context, f ports.ApplicationFilter) ([]domain.Application, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	var out []domain.Application
	if err := c.api.Get(ctx, "/applications", q, &out); err != nil {
		return nil, classify("list applications", err)
	}
	return out, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus, feedback string) error {
	body := struct {
		Status   domain.ApplicationStatus `json:"status"`
		Feedback string                   `json:"feedback,omitempty"`
	}{status, feedback}
	return classify("update application status", c.api.Patch(ctx, "/applications/"+seg(id)+"/status", body, nil))
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	return classify("delete application", c.api.Delete(ctx, "/applications/"+seg(id), nil))
}

func (c *Client) CreateReview(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	var out struct {
		InsertedID string `json:"insertedId"`
	}
	if err := c.api.Post(ctx, "/reviews", r, &out); err != nil {
		return nil, classify("create review", err)
	}
	created := *r
	created.ID = out.InsertedID
	return &created, nil
}

func (c *Client) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	var out domain.Review
	if err := c.api.Get(ctx, "/reviews/"+seg(id), nil, &out); err != nil {
		return nil, classify("get review", err)
	}
	return &out, nil
}

func (c *Client) ListReviewsByScholarship(ctx context.Context, scholarshipID string) ([]domain.Review, error) {
	var out []domain.Review
	q := url.Values{"scholarshipId": {scholarshipID}}
	if err := c.api.Get(ctx, "/reviews", q, &out); err != nil {
		return nil, classify("list scholarship reviews", err)
	}
	return out, nil
}

func (c *Client) ListReviewsByUser(ctx context.Context, email string) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.api.Get(ctx, "/reviews/user/"+seg(email), nil, &out); err != nil {
		return nil, classify("list user reviews", err)
	}
	return out, nil
}

func (c *Client) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.api.Get(ctx, "/reviews", nil, &out); err != nil {
		return nil, classify("list reviews", err)
	}
	return out, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return classify("delete review", c.api.Delete(ctx, "/reviews/"+seg(id), nil))
}

// CreatePaymentIntent posts the amount in cents to /create-payment-intent.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int64) (*domain.PaymentIntent, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("create payment intent: amount %d: %w", amountCents, domain.ErrInvalidInput)
	}
	var out domain.PaymentIntent
	body := map[string]int64{"amount": amountCents}
	if err := c.api.Post(ctx, "/create-payment-intent", body, &out); err != nil {
		return nil, classify("create payment intent", err)
	}
	if out.ClientSecret == "" {
		return nil, errors.New("create payment intent: backend returned no client secret")
	}
	if out.AmountCents == 0 {
		out.AmountCents = amountCents
	}
	return &out, nil
}

func (c *Client) FetchAnalytics(ctx context.Context) (*domain.Analytics, error) {
	var out domain.Analytics
	if err := c.api.Get(ctx, "/analytics", nil, &out); err != nil {
		return nil, classify("fetch analytics", err)
	}
	return &out, nil
}

var (
	_ ports.RoleSource         = (*Client)(nil)
	_ ports.ScholarshipCatalog = (*Client)(nil)
	_ ports.ApplicationDesk    = (*Client)(nil)
	_ ports.ReviewBoard        = (*Client)(nil)
	_ ports.UserDirectory      = (*Client)(nil)
	_ ports.Payments           = (*Client)(nil)
	_ ports.Analytics          = (*Client)(nil)
)
