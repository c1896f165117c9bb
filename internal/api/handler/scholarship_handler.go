package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarhub/portal-gateway/internal/core/service"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/imgbb"
)

type ScholarshipHandler struct{}

func NewScholarshipHandler() *ScholarshipHandler { return &ScholarshipHandler{} }

// List returns one page of scholarships.
//
// @Summary      List scholarships
// @Tags         scholarships
// @Produce      json
// @Param        search    query     string  false  "Name, university or degree"
// @Param        category  query     string  false  "Scholarship category"
// @Param        subject   query     string  false  "Subject category"
// @Param        degree    query     string  false  "Degree"
// @Param        country   query     string  false  "University country"
// @Param        sort      query     string  false  "date_desc, date_asc, fees_asc or fees_desc"
// @Param        page      query     int     false  "Page, from 1"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  scholarshipListResponse
// @Router       /api/scholarships [get]
func (h *ScholarshipHandler) List(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	q := service.ParseScholarshipQuery(c.QueryParams())

	page, err := inst.Scholarships.List(c.Request().Context(), q)
	if err != nil {
		return err
	}

	out := scholarshipListResponse{ScholarshipPage: page, Query: q.Values().Encode()}
	if page.Page < page.TotalPages {
		out.Next = q.WithPage(page.Page + 1).Values().Encode()
	}
	if page.Page > 1 {
		out.Prev = q.WithPage(page.Page - 1).Values().Encode()
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one scholarship.
//
// @Summary      Scholarship detail
// @Tags         scholarships
// @Produce      json
// @Param        id   path      string  true  "Scholarship ID"
// @Success      200  {object}  domain.Scholarship
// @Failure      404  {object}  errorResponse
// @Router       /api/scholarships/{id} [get]
func (h *ScholarshipHandler) Get(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	sch, err := inst.Scholarships.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sch)
}

// Reviews lists the reviews of one scholarship.
//
// @Summary      Scholarship reviews
// @Tags         scholarships
// @Produce      json
// @Param        id   path      string  true  "Scholarship ID"
// @Success      200  {array}   domain.Review
// @Router       /api/scholarships/{id}/reviews [get]
func (h *ScholarshipHandler) Reviews(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	reviews, err := inst.Scholarships.Reviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create publishes a scholarship. The university image is the "image" file part.
//
// @Summary      Add scholarship
// @Tags         moderation
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  false  "University image"
// @Success      201    {object}  domain.Scholarship
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  middleware.ViewResponse
// @Router       /api/moderator/scholarships [post]
// @Router       /api/admin/scholarships [post]
func (h *ScholarshipHandler) Create(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	author, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	var form scholarshipForm
	if err := bindValid(c, &form); err != nil {
		return err
	}
	name, image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	sch, err := inst.Scholarships.Create(c.Request().Context(), author, form.input(), name, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sch)
}

// Update replaces a scholarship, keeping its image unless a new one is sent.
//
// @Summary      Update scholarship
// @Tags         moderation
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true   "Scholarship ID"
// @Param        image  formData  file    false  "New university image"
// @Success      200    {object}  domain.Scholarship
// @Failure      404    {object}  errorResponse
// @Router       /api/admin/scholarships/{id} [patch]
func (h *ScholarshipHandler) Update(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var form scholarshipForm
	if err := bindValid(c, &form); err != nil {
		return err
	}
	name, image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	sch, err := inst.Scholarships.Update(c.Request().Context(), c.Param("id"), form.input(), name, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sch)
}

// Delete removes a scholarship.
//
// @Summary      Delete scholarship
// @Tags         moderation
// @Produce      json
// @Param        id   path      string  true  "Scholarship ID"
// @Success      200  {object}  messageResponse
// @Router       /api/admin/scholarships/{id} [delete]
func (h *ScholarshipHandler) Delete(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	if err := inst.Scholarships.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Scholarship deleted."})
}

// formImage opens the optional "image" part. With no part the reader is nil.
func formImage(c echo.Context) (string, io.Reader, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil, func() {}, nil
		}
		return "", nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	if fh.Size > imgbb.MaxImageSize {
		return "", nil, nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	return fh.Filename, f, func() { _ = f.Close() }, nil
}

func (f scholarshipForm) input() service.ScholarshipInput {
	return service.ScholarshipInput{
		Name:            f.Name,
		University:      f.University,
		Country:         f.Country,
		City:            f.City,
		WorldRank:       f.WorldRank,
		SubjectCategory: f.SubjectCategory,
		Category:        f.Category,
		Degree:          f.Degree,
		TuitionFees:     f.TuitionFees,
		ApplicationFees: f.ApplicationFees,
		ServiceCharge:   f.ServiceCharge,
		Deadline:        f.deadline(),
		Description:     f.Description,
		ImageURL:        f.ImageURL,
	}
}
