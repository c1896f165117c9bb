package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/core/service"
)

type ApplicationHandler struct{}

func NewApplicationHandler() *ApplicationHandler { return &ApplicationHandler{} }

// PaymentIntent starts the payment for a scholarship's fees.
//
// @Summary      Create payment intent
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      paymentIntentRequest  true  "Scholarship"
// @Success      200   {object}  domain.PaymentIntent
// @Failure      404   {object}  errorResponse
// @Router       /api/payments/intent [post]
func (h *ApplicationHandler) PaymentIntent(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req paymentIntentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	intent, err := inst.Applications.CreatePaymentIntent(c.Request().Context(), req.ScholarshipID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, intent)
}

// Apply submits an application after payment.
//
// @Summary      Apply for a scholarship
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      applyRequest  true  "Application form"
// @Success      201   {object}  domain.Application
// @Failure      400   {object}  errorResponse
// @Failure      402   {object}  errorResponse
// @Router       /api/applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	applicant, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	app, err := inst.Applications.Apply(c.Request().Context(), applicant, service.ApplyInput{
		ScholarshipID: req.ScholarshipID,
		PaymentID:     req.PaymentID,
		Phone:         req.Phone,
		Photo:         req.Photo,
		Address:       req.Address,
		Gender:        req.Gender,
		Degree:        req.Degree,
		SSCResult:     req.SSCResult,
		HSCResult:     req.HSCResult,
		StudyGap:      req.StudyGap,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// ListMine returns the caller's applications.
//
// @Summary      My applications
// @Tags         applications
// @Produce      json
// @Success      200  {array}  domain.Application
// @Router       /api/my/applications [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	me, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	apps, err := inst.Applications.ListMine(c.Request().Context(), me.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// Cancel withdraws one of the caller's pending applications.
//
// @Summary      Cancel application
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  messageResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/my/applications/{id} [delete]
func (h *ApplicationHandler) Cancel(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	me, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	if err := inst.Applications.Cancel(c.Request().Context(), me.Email, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Application cancelled."})
}

// ListAll returns every application for moderation.
//
// @Summary      All applications
// @Tags         moderation
// @Produce      json
// @Param        status  query     string  false  "pending, processing, completed or rejected"
// @Param        sort    query     string  false  "applied_desc or applied_asc"
// @Success      200     {array}   domain.Application
// @Router       /api/moderator/applications [get]
// @Router       /api/admin/applications [get]
func (h *ApplicationHandler) ListAll(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	apps, err := inst.Applications.ListAll(c.Request().Context(), ports.ApplicationFilter{
		Status: c.QueryParam("status"),
		Sort:   c.QueryParam("sort"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// Moderate sets an application's status and feedback.
//
// @Summary      Moderate application
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Application ID"
// @Param        body  body      moderateRequest  true  "Decision"
// @Success      200   {object}  messageResponse
// @Router       /api/moderator/applications/{id} [patch]
// @Router       /api/admin/applications/{id} [patch]
func (h *ApplicationHandler) Moderate(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req moderateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	err = inst.Applications.Moderate(c.Request().Context(), c.Param("id"), domain.ApplicationStatus(req.Status), req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Application updated."})
}
