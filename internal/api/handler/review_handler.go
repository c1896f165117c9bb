package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarhub/portal-gateway/internal/core/service"
)

type ReviewHandler struct{}

func NewReviewHandler() *ReviewHandler { return &ReviewHandler{} }

// Submit posts a review as the caller.
//
// @Summary      Submit review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body      reviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  errorResponse
// @Router       /api/reviews [post]
func (h *ReviewHandler) Submit(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	author, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	review, err := inst.Reviews.Submit(c.Request().Context(), author, service.ReviewInput{
		ScholarshipID: req.ScholarshipID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// ListMine returns the caller's reviews.
//
// @Summary      My reviews
// @Tags         reviews
// @Produce      json
// @Success      200  {array}  domain.Review
// @Router       /api/my/reviews [get]
func (h *ReviewHandler) ListMine(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	me, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	reviews, err := inst.Reviews.ListMine(c.Request().Context(), me.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// DeleteMine removes one of the caller's reviews.
//
// @Summary      Delete my review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/my/reviews/{id} [delete]
func (h *ReviewHandler) DeleteMine(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	me, err := identityOf(c, inst)
	if err != nil {
		return err
	}
	if err := inst.Reviews.DeleteMine(c.Request().Context(), me.Email, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted."})
}

// @Summary      All reviews
// @Tags         moderation
// @Produce      json
// @Success      200  {array}  domain.Review
// @Router       /api/moderator/reviews [get]
// @Router       /api/admin/reviews [get]
func (h *ReviewHandler) ListAll(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	reviews, err := inst.Reviews.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// @Summary      Delete review
// @Tags         moderation
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  messageResponse
// @Router       /api/moderator/reviews/{id} [delete]
// @Router       /api/admin/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	if err := inst.Reviews.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted."})
}
