package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const (
	DefaultScholarshipLimit = 9
	MaxScholarshipLimit     = 48
)

// ScholarshipSort is a listing order.
type ScholarshipSort string

const (
	SortDateDesc ScholarshipSort = "date_desc"
	SortDateAsc  ScholarshipSort = "date_asc"
	SortFeesAsc  ScholarshipSort = "fees_asc"
	SortFeesDesc ScholarshipSort = "fees_desc"
)

var validSorts = map[ScholarshipSort]struct{}{
	SortDateDesc: {}, SortDateAsc: {}, SortFeesAsc: {}, SortFeesDesc: {},
}

// ScholarshipQuery is the filter/sort/page state of the listing view, kept in
// the browser's query string.
type ScholarshipQuery struct {
	Search   string
	Category string
	Subject  string
	Degree   string
	Country  string
	Sort     ScholarshipSort
	Page     int
	Limit    int
}

// ParseScholarshipQuery normalises a query string: unknown sorts fall back
// to newest first, page is at least 1, limit defaults to 9 and is capped at 48.
func ParseScholarshipQuery(v url.Values) ScholarshipQuery {
	q := ScholarshipQuery{
		Search:   strings.TrimSpace(v.Get("search")),
		Category: strings.TrimSpace(v.Get("category")),
		Subject:  strings.TrimSpace(v.Get("subject")),
		Degree:   strings.TrimSpace(v.Get("degree")),
		Country:  strings.TrimSpace(v.Get("country")),
		Sort:     ScholarshipSort(strings.ToLower(strings.TrimSpace(v.Get("sort")))),
		Page:     atoiOr(v.Get("page"), 1),
		Limit:    atoiOr(v.Get("limit"), DefaultScholarshipLimit),
	}
	return q.normalized()
}

func (q ScholarshipQuery) normalized() ScholarshipQuery {
	if _, ok := validSorts[q.Sort]; !ok {
		q.Sort = SortDateDesc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultScholarshipLimit
	}
	if q.Limit > MaxScholarshipLimit {
		q.Limit = MaxScholarshipLimit
	}
	return q
}

// Values encodes the query canonically, omitting defaults, so equal
// queries always produce the same URL.
func (q ScholarshipQuery) Values() url.Values {
	q = q.normalized()
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("subject", q.Subject)
	set("degree", q.Degree)
	set("country", q.Country)
	if q.Sort != SortDateDesc {
		v.Set("sort", string(q.Sort))
	}
	if q.Page != 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit != DefaultScholarshipLimit {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// WithPage returns a copy pointing at another page.
func (q ScholarshipQuery) WithPage(page int) ScholarshipQuery {
	q.Page = page
	return q.normalized()
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ScholarshipInput is the moderator/admin form for a listing.
type ScholarshipInput struct {
	Name            string
	University      string
	Country         string
	City            string
	WorldRank       int
	SubjectCategory string
	Category        string
	Degree          string
	TuitionFees     float64
	ApplicationFees float64
	ServiceCharge   float64
	Deadline        time.Time
	Description     string
	// ImageURL keeps the current image when no new upload is supplied.
	ImageURL string
}

// ScholarshipService serves the listing, detail and management views.
type ScholarshipService struct {
	catalog  ports.ScholarshipCatalog
	reviews  ports.ReviewBoard
	uploader ports.ImageUploader
	log      zerolog.Logger
	now      func() time.Time
}

func NewScholarshipService(catalog ports.ScholarshipCatalog, reviews ports.ReviewBoard, uploader ports.ImageUploader, log zerolog.Logger) *ScholarshipService {
	return &ScholarshipService{catalog: catalog, reviews: reviews, uploader: uploader, log: log, now: time.Now}
}

// List returns one page of the listing.
func (s *ScholarshipService) List(ctx context.Context, q ScholarshipQuery) (*domain.ScholarshipPage, error) {
	q = q.normalized()
	items, total, err := s.catalog.ListScholarships(ctx, ports.ScholarshipFilter{
		Search:   q.Search,
		Category: q.Category,
		Subject:  q.Subject,
		Degree:   q.Degree,
		Country:  q.Country,
		Sort:     string(q.Sort),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	if items == nil {
		items = []domain.Scholarship{}
	}

	totalPages := int(total) / q.Limit
	if int(total)%q.Limit != 0 {
		totalPages++
	}

	return &domain.ScholarshipPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *ScholarshipService) Get(ctx context.Context, id string) (*domain.Scholarship, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	sch, err := s.catalog.GetScholarship(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get scholarship: %w", err)
	}
	return sch, nil
}

// Reviews lists the reviews of one scholarship, newest first as the backend returns them.
func (s *ScholarshipService) Reviews(ctx context.Context, id string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListReviewsByScholarship(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list scholarship reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// Create uploads the university image, then publishes the listing.
func (s *ScholarshipService) Create(ctx context.Context, author *domain.Identity, in ScholarshipInput, filename string, image io.Reader) (*domain.Scholarship, error) {
	if author == nil {
		return nil, domain.ErrNotSignedIn
	}
	imageURL := in.ImageURL
	if image != nil {
		uploaded, err := s.uploader.Upload(ctx, filename, image)
		if err != nil {
			return nil, fmt.Errorf("create scholarship: %w", err)
		}
		imageURL = uploaded
	}
	if imageURL == "" {
		return nil, fmt.Errorf("create scholarship: university image: %w", domain.ErrInvalidInput)
	}

	sch := toScholarship(in)
	sch.UniversityImage = imageURL
	sch.PostedBy = author.Email
	sch.PostedAt = s.now().UTC()

	created, err := s.catalog.CreateScholarship(ctx, sch)
	if err != nil {
		return nil, fmt.Errorf("create scholarship: %w", err)
	}
	s.log.Info().Str("scholarship", created.ID).Str("by", author.Email).Msg("scholarship published")
	return created, nil
}

// Update replaces a listing, uploading a new image when one is supplied.
func (s *ScholarshipService) Update(ctx context.Context, id string, in ScholarshipInput, filename string, image io.Reader) (*domain.Scholarship, error) {
	current, err := s.catalog.GetScholarship(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update scholarship: %w", err)
	}

	sch := toScholarship(in)
	sch.ID = current.ID
	sch.PostedBy = current.PostedBy
	sch.PostedAt = current.PostedAt
	sch.UniversityImage = current.UniversityImage
	if in.ImageURL != "" {
		sch.UniversityImage = in.ImageURL
	}
	if image != nil {
		uploaded, err := s.uploader.Upload(ctx, filename, image)
		if err != nil {
			return nil, fmt.Errorf("update scholarship: %w", err)
		}
		sch.UniversityImage = uploaded
	}

	updated, err := s.catalog.UpdateScholarship(ctx, id, sch)
	if err != nil {
		return nil, fmt.Errorf("update scholarship: %w", err)
	}
	return updated, nil
}

func (s *ScholarshipService) Delete(ctx context.Context, id string) error {
	if err := s.catalog.DeleteScholarship(ctx, id); err != nil {
		return fmt.Errorf("delete scholarship: %w", err)
	}
	return nil
}

func toScholarship(in ScholarshipInput) *domain.Scholarship {
	return &domain.Scholarship{
		Name:            strings.TrimSpace(in.Name),
		University:      strings.TrimSpace(in.University),
		Country:         in.Country,
		City:            in.City,
		WorldRank:       in.WorldRank,
		SubjectCategory: in.SubjectCategory,
		Category:        in.Category,
		Degree:          in.Degree,
		TuitionFees:     in.TuitionFees,
		ApplicationFees: in.ApplicationFees,
		ServiceCharge:   in.ServiceCharge,
		Deadline:        in.Deadline,
		Description:     in.Description,
	}
}
