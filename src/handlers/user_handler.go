package handlers

import (
	"context"
	"net/http"
	"regexp"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/security"
	"github.com/walidBc-blip/finance-dashboard/src/services"
	"github.com/walidBc-blip/finance-dashboard/src/utils"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^.{6,}$`)

// UserHandler owns registration, login and session lifecycle, plus the auth
// middleware the protected routes hang off.
type UserHandler struct {
	authService      *security.AuthService
	analyticsService services.AnalyticsService
}

func NewUserHandler(authService *security.AuthService, analyticsService services.AnalyticsService) *UserHandler {
	return &UserHandler{
		authService:      authService,
		analyticsService: analyticsService,
	}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	utils.SendJSONError(w, message, statusCode)
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}
