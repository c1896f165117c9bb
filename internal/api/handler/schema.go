package handler

import (
	"time"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=80"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// googleRequest is posted by the browser after the Google popup. Error is
// set instead of IDToken when the popup failed or was closed.
type googleRequest struct {
	IDToken string `json:"idToken"`
	Error   string `json:"error"`
}

type profileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=80"`
	PhotoURL    *string `json:"photoURL"    validate:"omitempty,url"`
}

type identityView struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	Provider    string `json:"provider"`
}

func toIdentityView(id *domain.Identity) *identityView {
	if id == nil {
		return nil
	}
	return &identityView{
		UID:         id.UID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		PhotoURL:    id.PhotoURL,
		Provider:    id.Provider,
	}
}

type authResponse struct {
	Identity *identityView `json:"identity"`
	// Upsert reports the backend user record outcome: "inserted" or "already_exists".
	Upsert      string `json:"upsert,omitempty"`
	UpsertError string `json:"upsertError,omitempty"`
	Message     string `json:"message"`
}

// --- Session ---

type sessionResponse struct {
	Resolving   bool          `json:"resolving"`
	Identity    *identityView `json:"identity"`
	Role        string        `json:"role,omitempty"`
	RoleLoading bool          `json:"roleLoading"`
	RoleError   string        `json:"roleError,omitempty"`
	Version     uint64        `json:"version"`
}

type streamMessage struct {
	Session  *sessionResponse `json:"session,omitempty"`
	Notices  []domain.Notice  `json:"notices,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

// --- Scholarships ---

type scholarshipListResponse struct {
	*domain.ScholarshipPage
	// Query is the canonical query string of this page for the browser URL.
	Query string `json:"query"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
}

// scholarshipForm is bound from a multipart form; the university image is
// the "image" file part.
type scholarshipForm struct {
	Name            string  `form:"scholarshipName"     validate:"required,max=160"`
	University      string  `form:"universityName"      validate:"required,max=160"`
	Country         string  `form:"universityCountry"   validate:"required"`
	City            string  `form:"universityCity"      validate:"required"`
	WorldRank       int     `form:"universityWorldRank" validate:"gte=0"`
	SubjectCategory string  `form:"subjectCategory"     validate:"required"`
	Category        string  `form:"scholarshipCategory" validate:"required"`
	Degree          string  `form:"degree"              validate:"required"`
	TuitionFees     float64 `form:"tuitionFees"         validate:"gte=0"`
	ApplicationFees float64 `form:"applicationFees"     validate:"gte=0"`
	ServiceCharge   float64 `form:"serviceCharge"       validate:"gte=0"`
	Deadline        string  `form:"applicationDeadline" validate:"required,datetime=2006-01-02"`
	Description     string  `form:"scholarshipDescription" validate:"max=4000"`
	ImageURL        string  `form:"universityImage"     validate:"omitempty,url"`
}

func (f scholarshipForm) deadline() time.Time {
	t, _ := time.Parse(time.DateOnly, f.Deadline)
	return t
}

// --- Applications ---

type paymentIntentRequest struct {
	ScholarshipID string `json:"scholarshipId" validate:"required"`
}

type applyRequest struct {
	ScholarshipID string `json:"scholarshipId" validate:"required"`
	PaymentID     string `json:"paymentId"     validate:"required"`
	Phone         string `json:"phone"         validate:"required"`
	Photo         string `json:"photo"         validate:"required,url"`
	Address       string `json:"address"       validate:"required"`
	Gender        string `json:"gender"        validate:"required"`
	Degree        string `json:"degree"        validate:"required"`
	SSCResult     string `json:"sscResult"     validate:"required"`
	HSCResult     string `json:"hscResult"     validate:"required"`
	StudyGap      string `json:"studyGap"`
}

type moderateRequest struct {
	Status   string `json:"status"   validate:"required,oneof=pending processing completed rejected"`
	Feedback string `json:"feedback" validate:"max=1000"`
}

// --- Reviews ---

type reviewRequest struct {
	ScholarshipID string `json:"scholarshipId" validate:"required"`
	Rating        int    `json:"rating"        validate:"required,min=1,max=5"`
	Comment       string `json:"comment"       validate:"required,max=2000"`
}

// --- Users ---

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student moderator admin"`
}

type messageResponse struct {
	Message string `json:"message"`
}
