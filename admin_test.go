package inkwell

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-engine/inkwell/blog"
)

func bindFormFromJSON(t *testing.T, body string) (blog.FormData, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/api/posts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	return bindForm(c)
}

func TestBindFormRejectsEmptyTitle(t *testing.T) {
	_, err := bindFormFromJSON(t, `{"title":"  ","content":"<p>x</p>"}`)
	if err == nil {
		t.Error("blank title should be rejected")
	}
}

func TestBindFormRejectsPlaceholderContent(t *testing.T) {
	bodies := []string{
		`{"title":"t","content":""}`,
		`{"title":"t","content":"  "}`,
		`{"title":"t","content":"<p></p>"}`,
		`{"title":"t","content":"<p><br></p>"}`,
	}
	for _, body := range bodies {
		if _, err := bindFormFromJSON(t, body); err == nil {
			t.Errorf("placeholder content should be rejected: %s", body)
		}
	}
}

func TestBindFormDefaultsStatusToDraft(t *testing.T) {
	form, err := bindFormFromJSON(t, `{"title":"t","content":"<p>x</p>","status":"scheduled"}`)
	if err != nil {
		t.Fatalf("bindForm failed: %v", err)
	}
	if form.Status != blog.StatusDraft {
		t.Errorf("Status = %q, want draft for unknown status", form.Status)
	}

	form, err = bindFormFromJSON(t, `{"title":"t","content":"<p>x</p>","status":"published"}`)
	if err != nil {
		t.Fatalf("bindForm failed: %v", err)
	}
	if form.Status != blog.StatusPublished {
		t.Errorf("Status = %q, want published", form.Status)
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		input []string
		want  []string
	}{
		{[]string{"Go", "go", " GO "}, []string{"go"}},
		{[]string{"", "  ", "web"}, []string{"web"}},
		{[]string{"a", "b", "a", "c"}, []string{"a", "b", "c"}},
		{nil, []string{}},
	}
	for _, tt := range tests {
		if got := normalizeTags(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("normalizeTags(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeTagsCapsCount(t *testing.T) {
	var many []string
	for _, r := range "abcdefghijklmnop" {
		many = append(many, string(r))
	}
	if got := normalizeTags(many); len(got) != 10 {
		t.Errorf("normalizeTags kept %d tags, want cap of 10", len(got))
	}
}
