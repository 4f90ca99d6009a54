package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestIntQueryMissingUsesFallback(t *testing.T) {
	c := testContext(t, "/videos?query=cats")

	got, err := intQuery(c, "page", 1)
	if err != nil {
		t.Fatalf("intQuery returned error for missing param: %v", err)
	}
	if got != 1 {
		t.Errorf("intQuery = %d, want fallback 1", got)
	}
}

func TestIntQueryParsesValue(t *testing.T) {
	c := testContext(t, "/videos?page=7")

	got, err := intQuery(c, "page", 1)
	if err != nil {
		t.Fatalf("intQuery returned error: %v", err)
	}
	if got != 7 {
		t.Errorf("intQuery = %d, want 7", got)
	}
}

func TestIntQueryRejectsMalformedValue(t *testing.T) {
	for _, raw := range []string{"abc", "1.5", "2x"} {
		c := testContext(t, "/videos?page="+raw)

		if _, err := intQuery(c, "page", 1); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("intQuery(%q) error = %v, want ErrInvalidArgument", raw, err)
		}
	}
}
