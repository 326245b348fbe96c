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

func TestErrorUsesRealStatusAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeConflict, "User with this email or username already exists")

	if w.Code != http.StatusConflict {
		t.Fatalf("http status want 409 got %d", w.Code)
	}
	var resp struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeConflict {
		t.Fatalf("status_code want 409 got %d", resp.StatusCode)
	}
	if resp.Data["request_id"] != "req-1" {
		t.Fatalf("request_id want req-1 got %v", resp.Data)
	}
}

func TestCreatedAndInvalidCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Created(c, "", gin.H{"post": gin.H{"id": 1}})
	if w.Code != http.StatusCreated {
		t.Fatalf("http status want 201 got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	Error(c2, 0, "boom")
	if w2.Code != http.StatusInternalServerError {
		t.Fatalf("invalid code should fall back to 500, got %d", w2.Code)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("stage import: %w", NewAPIError(CodePayloadTooLarge, "Import payload too large", cause))

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError in chain")
	}
	if apiErr.Status != CodePayloadTooLarge || apiErr.Public != "Import payload too large" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable through errors.Is")
	}
	if NewAPIError(200, "ok", nil).Status != CodeInternal {
		t.Fatalf("non-error status should become 500")
	}
	if _, ok := AsAPIError(cause); ok {
		t.Fatalf("plain error is not an APIError")
	}
}
