package domain

import "time"

// Scholarship is a listing published by a moderator or admin.
type Scholarship struct {
	ID              string    `json:"_id"`
	Name            string    `json:"scholarshipName"`
	University      string    `json:"universityName"`
	UniversityImage string    `json:"universityImage"`
	Country         string    `json:"universityCountry"`
	City            string    `json:"universityCity"`
	WorldRank       int       `json:"universityWorldRank"`
	SubjectCategory string    `json:"subjectCategory"`
	Category        string    `json:"scholarshipCategory"`
	Degree          string    `json:"degree"`
	TuitionFees     float64   `json:"tuitionFees,omitempty"`
	ApplicationFees float64   `json:"applicationFees"`
	ServiceCharge   float64   `json:"serviceCharge"`
	Deadline        time.Time `json:"applicationDeadline"`
	PostedAt        time.Time `json:"scholarshipPostDate"`
	PostedBy        string    `json:"postedUserEmail"`
	Description     string    `json:"scholarshipDescription,omitempty"`
	AverageRating   float64   `json:"averageRating,omitempty"`
}

// TotalCharge is what the applicant pays up front.
func (s Scholarship) TotalCharge() float64 {
	return s.ApplicationFees + s.ServiceCharge
}

// ScholarshipPage is one page of a listing.
type ScholarshipPage struct {
	Items      []Scholarship `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// ApplicationStatus is the moderation state of an application.
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationProcessing ApplicationStatus = "processing"
	ApplicationCompleted  ApplicationStatus = "completed"
	ApplicationRejected   ApplicationStatus = "rejected"
)

// Cancellable reports whether the applicant may still withdraw.
func (s ApplicationStatus) Cancellable() bool { return s == ApplicationPending }

// Application is a student's submitted application for a scholarship.
type Application struct {
	ID              string            `json:"_id,omitempty"`
	ScholarshipID   string            `json:"scholarshipId"`
	ScholarshipName string            `json:"scholarshipName,omitempty"`
	University      string            `json:"universityName,omitempty"`
	UserName        string            `json:"userName"`
	UserEmail       string            `json:"userEmail"`
	UserID          string            `json:"userId"`
	Phone           string            `json:"phone"`
	Photo           string            `json:"photo"`
	Address         string            `json:"address"`
	Gender          string            `json:"gender"`
	Degree          string            `json:"degree"`
	SSCResult       string            `json:"sscResult"`
	HSCResult       string            `json:"hscResult"`
	StudyGap        string            `json:"studyGap,omitempty"`
	PaymentID       string            `json:"paymentId"`
	AmountPaid      float64           `json:"amountPaid"`
	Status          ApplicationStatus `json:"status"`
	Feedback        string            `json:"feedback,omitempty"`
	AppliedAt       time.Time         `json:"appliedAt"`
}

// Review is a student's rating of a scholarship.
type Review struct {
	ID              string    `json:"_id,omitempty"`
	ScholarshipID   string    `json:"scholarshipId"`
	ScholarshipName string    `json:"scholarshipName,omitempty"`
	University      string    `json:"universityName,omitempty"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	ReviewerName    string    `json:"reviewerName"`
	ReviewerEmail   string    `json:"reviewerEmail"`
	ReviewerImage   string    `json:"reviewerImage,omitempty"`
	ReviewedAt      time.Time `json:"reviewDate"`
}

// UserRecord is the backend's copy of a portal user.
type UserRecord struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// PaymentIntent is returned by the backend's payment provider glue.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amount"`
}

// Analytics are the admin dashboard figures.
type Analytics struct {
	TotalUsers             int64            `json:"totalUsers"`
	TotalScholarships      int64            `json:"totalScholarships"`
	TotalApplications      int64            `json:"totalApplications"`
	TotalReviews           int64            `json:"totalReviews"`
	FeesCollected          float64          `json:"feesCollected"`
	ApplicationsByStatus   map[string]int64 `json:"applicationsByStatus"`
	ApplicationsByCategory map[string]int64 `json:"applicationsByCategory"`
}
