package router

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"yoohoo/internal/auth"
	"yoohoo/internal/config"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/handler"
	mw "yoohoo/internal/middleware"
)

// bodyLimit caps request bodies; document uploads are capped separately.
const (
	bodyLimit   = "2M"
	uploadLimit = "11M"
)

// Handlers groups every route handler.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Admin        *handler.AdminHandler
	Users        *handler.UserHandler
	Skills       *handler.SkillHandler
	Exchanges    *handler.ExchangeHandler
	Notification *handler.NotificationHandler
	Compliance   *handler.ComplianceHandler
	Payments     *handler.PaymentHandler
	Categories   *handler.CategoryHandler
	Insurance    *handler.InsuranceHandler
	Angels       *handler.AngelHandler
	Gurus        *handler.GuruHandler
}

// Security carries what the auth middleware needs.
type Security struct {
	Verifier   auth.TokenVerifier
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, sec Security, h Handlers) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(mw.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Stripe-Signature"},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: bodyLimit,
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodPost && c.Path() == "/api/documents"
		},
	}))

	e.GET("/health", h.Health.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", RateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow))

	required := mw.FirebaseAuth(sec.Verifier, log)
	optional := mw.OptionalAuth(sec.Verifier)
	adminRole := []echo.MiddlewareFunc{required, mw.RequireAdminRole}
	adminSession := mw.AdminSession(sec.JWT, sec.TokenStore)

	// Stripe needs the raw body, so the webhook sits outside the rate limit.
	e.POST("/api/webhooks/stripe", h.Payments.StripeWebhook)

	api.GET("/feature-flags", h.Admin.PublicFlags)
	flags := api.Group("/feature-flags/admin", adminSession...)
	flags.GET("", h.Admin.AllFlags)
	flags.PATCH("/:flagName", h.Admin.UpdateFlag)

	api.POST("/admin/login", h.Admin.Login)
	api.POST("/admin/logout", h.Admin.Logout)
	console := api.Group("/admin", adminSession...)
	console.GET("/ping", h.Admin.Ping)
	console.GET("/dashboard", h.Admin.Dashboard)

	api.GET("/admin/documents/pending", h.Compliance.PendingDocuments, adminRole...)
	api.POST("/admin/documents/:uid/:docId/status", h.Compliance.ReviewDocument, adminRole...)

	api.POST("/auth/verify", h.Auth.Verify)
	api.GET("/auth/profile", h.Auth.Profile, required)
	api.PUT("/auth/profile", h.Auth.UpdateProfile, required)

	users := api.Group("/users")
	users.GET("", h.Users.ListUsers)
	users.GET("/search/skills", h.Users.SearchBySkills)
	users.GET("/:id", h.Users.GetUser)
	users.GET("/:id/stats", h.Users.Stats)
	users.PUT("/:id/tier", h.Users.UpdateTier, required)

	skills := api.Group("/skills")
	skills.GET("", h.Skills.List)
	skills.GET("/categories", h.Skills.Categories)
	skills.GET("/suggestions/autocomplete", h.Skills.Autocomplete)
	skills.GET("/exchange-pairs", h.Skills.ExchangePairs)
	skills.GET("/matches/:userId", h.Skills.Matches)
	skills.GET("/:skillName", h.Skills.Get)

	exchanges := api.Group("/exchanges", required)
	exchanges.POST("", h.Exchanges.Create)
	exchanges.GET("", h.Exchanges.List)
	exchanges.GET("/:id", h.Exchanges.Get)
	exchanges.PATCH("/:id", h.Exchanges.Update)
	exchanges.GET("/:id/messages", h.Exchanges.Messages)
	exchanges.POST("/:id/messages", h.Exchanges.SendMessage)

	notifications := api.Group("/notifications", required)
	notifications.GET("", h.Notification.List)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)
	notifications.POST("/read-all", h.Notification.MarkAllRead)

	compliance := api.Group("/compliance")
	compliance.GET("/requirements/:category", h.Compliance.Requirements)
	compliance.GET("/status/:category", h.Compliance.Status, required)
	compliance.GET("/dashboard", h.Compliance.Dashboard, required)
	compliance.PUT("/verification/:userId", h.Compliance.SetVerification, adminRole...)
	compliance.POST("/categories", h.Compliance.SelectCategories, required)

	documents := api.Group("/documents", required)
	documents.POST("", h.Compliance.UploadDocument, middleware.BodyLimit(uploadLimit))
	documents.GET("", h.Compliance.ListDocuments)
	documents.DELETE("/:id", h.Compliance.DeleteDocument)

	badges := api.Group("/badges")
	badges.GET("/types", h.Compliance.BadgeTypes)
	badges.GET("/user/:userId", h.Compliance.UserBadges)
	badges.GET("/requirements/:category", h.Compliance.BadgeRequirements, optional)
	badges.POST("/request", h.Compliance.RequestBadge, required)
	badges.GET("/my-badges", h.Compliance.MyBadges, required)
	badges.PUT("/admin/review/:requestId", h.Compliance.ReviewBadge, adminRole...)

	liability := api.Group("/liability")
	liability.GET("/check", h.Compliance.CheckWaiver)
	liability.POST("/waiver", h.Compliance.AcceptWaiver, required)
	liability.GET("/waivers", h.Compliance.ListWaivers, required)

	payments := api.Group("/payments")
	payments.GET("/config", h.Payments.Config)
	payments.POST("/create-payment-intent", h.Payments.CreatePaymentIntent, required)
	payments.GET("", h.Payments.ListPayments, required)
	payments.GET("/subscription/:userId", h.Payments.Subscription, required)

	connect := api.Group("/connect", required)
	connect.POST("/start", h.Payments.ConnectStart)
	connect.GET("/status", h.Payments.ConnectStatus)
	connect.POST("/express-login", h.Payments.ExpressLogin)

	payouts := api.Group("/payouts", required)
	payouts.GET("/balance", h.Payments.Balance)
	payouts.POST("/instant", h.Payments.InstantPayout)

	api.GET("/categories", h.Categories.List)

	insurance := api.Group("/insurance")
	insurance.GET("/types", h.Insurance.Types)
	insurance.POST("/submit", h.Insurance.Submit, required)
	insurance.GET("/status", h.Insurance.Status, required)
	insurance.GET("/requirements/:skillCategory", h.Insurance.Requirements)
	insurance.PUT("/admin/verify/:insuranceId", h.Insurance.Verify, adminRole...)
	insurance.GET("/expiring", h.Insurance.Expiring, required)
	insurance.GET("/reminder-preferences", h.Insurance.ReminderPreferences, required)
	insurance.PUT("/reminder-preferences", h.Insurance.UpdateReminderPreferences, required)
	insurance.GET("/stats", h.Insurance.Stats, adminRole...)

	angels := api.Group("/angels")
	angels.POST("/jobs", h.Angels.CreateJob, required)
	angels.GET("/jobs", h.Angels.ListJobs, optional)
	angels.GET("/jobs/:jobId", h.Angels.GetJob, optional)
	angels.POST("/jobs/:jobId/apply", h.Angels.Apply, required)
	angels.GET("/jobs/:jobId/applications", h.Angels.Applications, required)
	angels.PUT("/jobs/:jobId/applications/:applicantId", h.Angels.Respond, required)
	angels.PUT("/jobs/:jobId/complete", h.Angels.Complete, required)
	angels.GET("/my-activity", h.Angels.MyActivity, required)

	gurus := api.Group("/gurus/:subdomain", mw.GuruSite())
	gurus.GET("/home", h.Gurus.Home)
	gurus.GET("/posts", h.Gurus.Posts)
	gurus.GET("/posts/:slug", h.Gurus.Post)
	gurus.POST("/leads", h.Gurus.SubmitLead)
	gurus.GET("/services", h.Gurus.Services)
	gurus.GET("/about", h.Gurus.About)
	gurus.POST("/posts", h.Gurus.CreatePost, adminRole...)
	gurus.POST("/services", h.Gurus.CreateService, adminRole...)
	gurus.PUT("/about", h.Gurus.SaveAbout, adminRole...)
}

// RateLimiter allows limit requests per window per client IP.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	if limit <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(limit) / window.Seconds()),
		Burst:     limit,
		ExpiresIn: window,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.New(apperrors.CodeForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return &echo.HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests, please try again later."}
		},
	})
}

// ErrorHandler renders every failure in the error envelope.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		var res *apperrors.HTTPError
		if errors.As(err, &he) {
			msg, _ := he.Message.(string)
			if msg == "" {
				msg = http.StatusText(he.Code)
			}
			res = apperrors.NewHTTPError(he.Code, msg, strings.ToLower(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")))
		} else {
			res = apperrors.MapErrorToHTTP(err)
		}
		if res.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
		}

		body := res.ToErrorResponse()
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(res.StatusCode)
			return
		}
		_ = c.JSON(res.StatusCode, body)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator. Field names in messages follow
// the json tags.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(err, apperrors.CodeInvalid, "Validation failed")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.Invalid("Validation failed").WithMeta("fields", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
