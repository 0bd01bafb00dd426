package server

import (
	"chat-notify/auth"
	"chat-notify/domain"
	chaterrors "chat-notify/errors"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	userIDKey       = "userId"
	// Browsers cannot set headers on an EventSource, so the token may also
	// travel as a query parameter.
	accessTokenParam = "access_token"
)

// RequestID propagates the client's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Set(requestIDKey, reqID)
		c.Next()
	}
}

// AccessLog writes one JSON line per request to out.
func AccessLog(out io.Writer) gin.HandlerFunc {
	hostname, _ := os.Hostname()
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: out,
		Formatter: func(param gin.LogFormatterParams) string {
			entry := struct {
				Timestamp string  `json:"ts"`
				Hostname  string  `json:"host"`
				RequestID string  `json:"request_id,omitempty"`
				ClientIP  string  `json:"ip"`
				Method    string  `json:"method"`
				Path      string  `json:"path"`
				Status    int     `json:"status"`
				LatencyMs float64 `json:"latency_ms"`
				UserAgent string  `json:"ua"`
				Error     string  `json:"error,omitempty"`
			}{
				Timestamp: param.TimeStamp.UTC().Format(time.RFC3339Nano),
				Hostname:  hostname,
				RequestID: param.Request.Header.Get(requestIDHeader),
				ClientIP:  param.ClientIP,
				Method:    param.Method,
				Path:      param.Path,
				Status:    param.StatusCode,
				LatencyMs: float64(param.Latency) / float64(time.Millisecond),
				UserAgent: param.Request.UserAgent(),
				Error:     param.ErrorMessage,
			}
			b, _ := json.Marshal(entry)
			return string(b) + "\n"
		},
	})
}

// Authenticate resolves the bearer token into a user id.
// A missing credential is answered with 401, a rejected one with 403.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := credential(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": chaterrors.ErrInvalidToken.Error()})
			return
		}
		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func credential(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.BearerToken(header)
	}
	if token := c.Query(accessTokenParam); token != "" {
		return token, nil
	}
	return "", chaterrors.ErrUnauthenticated
}

// LimitConnects refuses new sessions of a user beyond its connect budget.
func LimitConnects(limiter *auth.ConnectLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(mustUserID(c)) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": chaterrors.ErrTooManyConnect.Error()})
			return
		}
		c.Next()
	}
}

func mustUserID(c *gin.Context) domain.UserID {
	return c.MustGet(userIDKey).(domain.UserID)
}
