package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type paymentService interface {
	Options() []models.PaymentOption
	CheckoutURL(slug string) (string, error)
}

// PaymentHandler exposes package quotes and checkout redirects.
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler constructs handler.
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Options godoc
// @Summary Course packages with prices
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.payments.Options(), nil)
}

// Checkout godoc
// @Summary Redirect to the hosted checkout page
// @Tags Payments
// @Param slug path string true "Package slug (level-1, level-2, level-3, level-3-workshop)"
// @Success 302
// @Failure 404 {object} response.Envelope
// @Router /payments/{slug}/checkout [get]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	url, err := h.payments.CheckoutURL(c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
