package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestSuccessFlattensPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	OK(c, "Course Added", Payload{"courseId": "abc-123"})

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if body["message"] != "Course Added" {
		t.Errorf("message = %v", body["message"])
	}
	if body["courseId"] != "abc-123" {
		t.Errorf("payload not flattened into envelope: %v", body)
	}
	if _, nested := body["data"]; nested {
		t.Error("payload must not be nested under a data key")
	}
}

func TestSuccessOmitsEmptyMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	OK(c, "", Payload{"courses": []string{}})

	body := decodeBody(t, rec)
	if _, ok := body["message"]; ok {
		t.Error("empty message must be omitted")
	}
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, http.StatusNotFound, "Course not found.")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v", body["success"])
	}
	if body["message"] != "Course not found." {
		t.Errorf("message = %v", body["message"])
	}
}
