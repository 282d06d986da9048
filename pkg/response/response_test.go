package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.ErrorKind != "" {
		t.Errorf("expected no error_kind, got %q", resp.ErrorKind)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["name"] != "test" {
		t.Errorf("unexpected data: %#v", resp.Data)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if !resp.Success {
		t.Error("expected success=true")
	}
}

func TestMessage(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Message(c, "member removed")
	})

	resp := parseResponse(t, w)
	if !resp.Success || resp.Message != "member removed" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Data != nil {
		t.Errorf("expected no data, got %#v", resp.Data)
	}
}

func TestConvenienceHelpers(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(c *gin.Context)
		status int
		kind   Kind
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "invalid input") }, http.StatusBadRequest, KindValidation},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "token expired") }, http.StatusUnauthorized, KindUnauthenticated},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "owner only") }, http.StatusForbidden, KindForbidden},
		{"not found", func(c *gin.Context) { NotFound(c, "project not found") }, http.StatusNotFound, KindNotFound},
		{"server error", func(c *gin.Context) { ServerError(c, "internal error") }, http.StatusInternalServerError, KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(tt.fn)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			resp := parseResponse(t, w)
			if resp.Success {
				t.Error("expected success=false")
			}
			if resp.ErrorKind != tt.kind {
				t.Errorf("expected error_kind %q, got %q", tt.kind, resp.ErrorKind)
			}
		})
	}
}

func TestError_WithAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewConflict("already a member"))
	})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.ErrorKind != KindConflict {
		t.Errorf("expected error_kind conflict, got %q", resp.ErrorKind)
	}
	if resp.Message != "already a member" {
		t.Errorf("expected message 'already a member', got %q", resp.Message)
	}
}

func TestError_WithWrappedAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, fmt.Errorf("remove member: %w", NewForbidden("only the owner can remove members")))
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestError_WithGenericErrorHidesDetail(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("pq: relation \"projects\" does not exist"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.ErrorKind != KindUnexpected {
		t.Errorf("expected error_kind unexpected, got %q", resp.ErrorKind)
	}
	if resp.Message != "internal server error" {
		t.Errorf("store detail leaked: %q", resp.Message)
	}
}

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewNotFound("user not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("did not expect errors.Is to match ErrForbidden")
	}
	if NewNotFound("user not found").Error() != "user not found" {
		t.Error("Error() should return the message")
	}
}
