package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

const attributesPage = `<html><body>
<table class="dataentrytable">
	<tr><th>Course</th><th>2AR</th><th>2SC</th><th>HUM</th><th>LSC</th><th>SCI</th><th>SOC</th><th>UT</th><th>Start</th></tr>
	<tr><td>CPSC 1150</td><td></td><td>Y</td><td></td><td></td><td>Y</td><td></td><td>Y</td><td>199920</td></tr>
	<tr><td>ENGL 1127</td><td>Y</td><td></td><td>Y</td><td></td><td></td><td></td><td>Y</td><td>199920</td></tr>
	<tr><td>ABST 1100</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td>200510</td></tr>
	<tr><td colspan="9">Legend: Y = attribute applies</td></tr>
</table>
</body></html>`

func TestParseAttributes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != attributesPath {
			t.Errorf("expected path %s, got %s", attributesPath, r.URL.Path)
		}
		w.Write([]byte(attributesPage))
	}))
	defer server.Close()

	attrs, err := NewClient(server.URL).FetchAttributes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []CourseAttributes{
		{Code: "CPSC 1150", Attributes: []string{"2SC", "SCI", "UT"}},
		{Code: "ENGL 1127", Attributes: []string{"2AR", "HUM", "UT"}},
		{Code: "ABST 1100", Attributes: []string{}},
	}
	if !reflect.DeepEqual(attrs, expected) {
		t.Errorf("expected %v, got %v", expected, attrs)
	}
}

func TestFetchAttributes_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchAttributes(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", statusErr.StatusCode)
	}
}
