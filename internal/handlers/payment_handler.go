package handlers

import (
	"html/template"
	"io"
	"net/http"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"
	"fanstero_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody - Stripe шлет события заметно меньше
const maxWebhookBody = 1 << 16

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
	userService    services.UserService
	payoutService  services.PayoutService
	botUsername    string
}

func NewPaymentHandler(
	base *BaseHandler,
	paymentService services.PaymentService,
	userService services.UserService,
	payoutService services.PayoutService,
	botUsername string,
) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
		userService:    userService,
		payoutService:  payoutService,
		botUsername:    botUsername,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("/checkout", h.guards.Bot, h.CreateCheckout)
		// старый путь бота
		payments.POST("/stripe/session", h.guards.Bot, h.CreateCheckout)

		// Stripe: подпись проверяется в сервисе
		payments.POST("/stripe/webhook", h.StripeWebhook)
		payments.GET("/stripe/success", h.StripeSuccess)
		payments.GET("/stripe/cancel", h.StripeCancel)
	}

	me := payments.Group("/me")
	me.Use(h.guards.Auth)
	{
		me.GET("/summary", h.GetSummary)
		me.POST("/payout-settings", h.UpdatePayoutSettings)
		me.POST("/payout-request", h.RequestPayout)
		me.GET("/payouts", h.ListMyPayouts)
	}
}

// CreateCheckout godoc
// @Summary Создать Stripe Checkout Session на план (бот)
// @Tags payments
// @Param request body dto.CreateCheckoutRequest true "Запрос"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 502 {object} apperrors.ErrorResponse
// @Router /payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req dto.CreateCheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	checkout, err := h.paymentService.CreateCheckout(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkout)
}

// StripeWebhook godoc
// @Summary Вебхук Stripe
// @Tags payments
// @Param Stripe-Signature header string true "Подпись"
// @Success 200 {object} dto.WebhookResult
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /payments/stripe/webhook [post]
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to read webhook body", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Cannot read request body"))
		return
	}

	result, err := h.paymentService.HandleWebhook(c.Request.Context(), h.GetDB(c), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var resultPage = template.Must(template.New("result").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family:sans-serif;text-align:center;padding-top:15vh">
<h2>{{.Title}}</h2>
<p>{{.Text}}</p>
{{if .BotURL}}<p><a href="{{.BotURL}}">Open Telegram</a></p>{{end}}
</body></html>`))

type resultPageData struct {
	Title  string
	Text   string
	BotURL string
}

func (h *PaymentHandler) renderResult(c *gin.Context, status int, data resultPageData) {
	if h.botUsername != "" {
		data.BotURL = "https://t.me/" + h.botUsername
	}
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := resultPage.Execute(c.Writer, data); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to render result page", err)
	}
}

// StripeSuccess godoc
// @Summary Страница после оплаты
// @Tags payments
// @Param session_id query string false "Checkout Session id"
// @Produce html
// @Router /payments/stripe/success [get]
func (h *PaymentHandler) StripeSuccess(c *gin.Context) {
	data := resultPageData{
		Title: "Payment received",
		Text:  "Your invite link will arrive in Telegram in a moment.",
	}

	if sessionID := c.Query("session_id"); sessionID != "" {
		payment, err := h.paymentService.GetBySessionID(c.Request.Context(), h.GetDB(c), sessionID)
		if err == nil && payment.Status == models.PaymentStatusPaid {
			data.Text = "Payment confirmed. Check your Telegram messages for the invite link."
		} else if err == nil && payment.Status == models.PaymentStatusFailed {
			data.Title = "Payment failed"
			data.Text = "The payment did not go through. You can try again from the bot."
		}
	}
	h.renderResult(c, http.StatusOK, data)
}

// StripeCancel godoc
// @Summary Страница отмены оплаты
// @Tags payments
// @Produce html
// @Router /payments/stripe/cancel [get]
func (h *PaymentHandler) StripeCancel(c *gin.Context) {
	h.renderResult(c, http.StatusOK, resultPageData{
		Title: "Payment canceled",
		Text:  "No money was charged. You can pick a plan again in the bot.",
	})
}

// GetSummary godoc
// @Summary Баланс и заработок создателя
// @Tags payments
// @Security BearerAuth
// @Success 200 {object} dto.BalanceSummary
// @Router /payments/me/summary [get]
func (h *PaymentHandler) GetSummary(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	summary, err := h.userService.GetBalanceSummary(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdatePayoutSettings godoc
// @Summary Реквизиты для выплат
// @Tags payments
// @Security BearerAuth
// @Param request body dto.PayoutSettingsRequest true "Реквизиты"
// @Success 200 {object} models.User
// @Router /payments/me/payout-settings [post]
func (h *PaymentHandler) UpdatePayoutSettings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PayoutSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdatePayoutSettings(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RequestPayout godoc
// @Summary Запросить выплату всего баланса
// @Tags payments
// @Security BearerAuth
// @Success 201 {object} models.PayoutRequest
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /payments/me/payout-request [post]
func (h *PaymentHandler) RequestPayout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	payout, err := h.payoutService.RequestPayout(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payout)
}

// ListMyPayouts godoc
// @Summary Мои заявки на выплату
// @Tags payments
// @Security BearerAuth
// @Success 200 {array} models.PayoutRequest
// @Router /payments/me/payouts [get]
func (h *PaymentHandler) ListMyPayouts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	payouts, err := h.payoutService.ListForUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}
