package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Extract(c)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 20, Skip: 0}},
		{"explicit", "page=3&limit=10", Params{Page: 3, Limit: 10, Skip: 20}},
		{"limit capped", "limit=500", Params{Page: 1, Limit: 100, Skip: 0}},
		{"negative page", "page=-2", Params{Page: 1, Limit: 20, Skip: 0}},
		{"garbage", "page=abc&limit=xyz", Params{Page: 1, Limit: 20, Skip: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paramsFor(t, tt.query); got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMetadataFrom(t *testing.T) {
	meta := MetadataFrom(45, Params{Page: 2, Limit: 20})

	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Errorf("page 2 of 3 should have both neighbours: %+v", meta)
	}

	last := MetadataFrom(45, Params{Page: 3, Limit: 20})
	if last.HasNextPage {
		t.Error("last page must not report a next page")
	}

	empty := MetadataFrom(0, Params{Page: 1, Limit: 20})
	if empty.TotalPages != 0 || empty.HasNextPage {
		t.Errorf("empty result metadata = %+v", empty)
	}
}
