package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxUser = "user"

// recovery turns a handler panic into a 500 envelope.
func (b *Backend) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				b.log.Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", err),
					"stack":  string(debug.Stack()),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// record logs the request and echoes or assigns X-Request-Id.
func (b *Backend) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        c.Request.Method,
			Path:          strings.TrimPrefix(c.Request.URL.EscapedPath(), APIPrefix),
			Query:         c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
			ContentType:   c.GetHeader("Content-Type"),
			RequestID:     id,
			Body:          body,
		})
		b.mu.Unlock()
		c.Next()
	}
}

// stubbed answers scripted routes before any real handler runs.
func (b *Backend) stubbed() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + strings.TrimPrefix(c.Request.URL.EscapedPath(), APIPrefix)
		b.mu.Lock()
		s, ok := b.stubs[key]
		var stub Stub
		if ok {
			stub = *s
			if s.Times > 0 {
				s.Times--
				if s.Times == 0 {
					delete(b.stubs, key)
				}
			}
		}
		b.mu.Unlock()
		if !ok {
			c.Next()
			return
		}

		if stub.Delay > 0 {
			select {
			case <-time.After(stub.Delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if stub.Status == 0 {
			c.Next()
			return
		}
		c.Data(stub.Status, "application/json", []byte(stub.Body))
		c.Abort()
	}
}

// authenticated requires a live bearer token and stores the user.
func (b *Backend) authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}
		if _, err := b.issuer.verify(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		b.mu.Lock()
		userID, live := b.state.access[token]
		var u *user
		for _, candidate := range b.state.users {
			if candidate.ID == userID {
				u = candidate
			}
		}
		b.mu.Unlock()
		if !live || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		}
		c.Set(ctxUser, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *user {
	return c.MustGet(ctxUser).(*user)
}

// pro rejects FREE accounts with 403.
func pro() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).SubscriptionStatus != "PRO" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Pro subscription required"})
			return
		}
		c.Next()
	}
}
