package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{200, StatusOK},
		{204, StatusOK},
		{301, StatusRedirect},
		{404, StatusClientError},
		{500, StatusServerError},
		{0, StatusUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.code); got != tc.want {
			t.Errorf("Classify(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestProber_Check_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(2 * time.Second)
	ls := p.Check(context.Background(), srv.URL)
	if ls.Status != StatusOK || ls.Code != http.StatusOK {
		t.Errorf("got %+v, want ok/200", ls)
	}
	if ls.LastCheckedAt.IsZero() {
		t.Error("LastCheckedAt not stamped")
	}
}

func TestProber_Check_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewProber(2 * time.Second)
	ls := p.Check(context.Background(), srv.URL)
	if ls.Status != StatusClientError || ls.Code != http.StatusNotFound {
		t.Errorf("got %+v, want client_error/404", ls)
	}
}

func TestProber_Check_Unreachable(t *testing.T) {
	p := NewProber(200 * time.Millisecond)
	ls := p.Check(context.Background(), "http://127.0.0.1:1")
	if ls.Status != StatusTimeout {
		t.Errorf("got %+v, want timeout", ls)
	}
}

func TestProber_Check_InvalidURL(t *testing.T) {
	p := NewProber(time.Second)
	ls := p.Check(context.Background(), "::not-a-url")
	if ls.Status != StatusTimeout {
		t.Errorf("got %+v, want timeout", ls)
	}
}
