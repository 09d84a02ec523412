package nextcloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/skillsenselab/data2csv/internal/errors"
	"github.com/skillsenselab/data2csv/internal/logger"
)

// fakeNextcloud records WebDAV and OCS requests and serves canned responses.
type fakeNextcloud struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	mkcols   []string
	shareXML string
	shareHit bool
}

func newFakeNextcloud(shareXML string) *fakeNextcloud {
	return &fakeNextcloud{uploads: map[string][]byte{}, shareXML: shareXML}
}

func (f *fakeNextcloud) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == "MKCOL":
			f.mkcols = append(f.mkcols, r.URL.Path)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			f.uploads[r.URL.Path] = body
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "files_sharing"):
			if r.Header.Get("OCS-APIRequest") != "true" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if _, _, ok := r.BasicAuth(); !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			f.shareHit = true
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, f.shareXML)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

const shareOKXML = `<?xml version="1.0"?>
<ocs>
 <meta><status>ok</status><statuscode>200</statuscode><message>OK</message></meta>
 <data><id>42</id><url>https://cloud.example.com/s/AbCdEf</url></data>
</ocs>`

const shareFailXML = `<?xml version="1.0"?>
<ocs>
 <meta><status>failure</status><statuscode>404</statuscode><message>Wrong path</message></meta>
 <data/>
</ocs>`

func newTestClient(t *testing.T, fake *fakeNextcloud) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	log := logger.New(&logger.Config{Level: "error", Format: "json"}, "test")
	return NewClient(Config{
		Enabled:  true,
		URL:      srv.URL,
		Username: "admin",
		Password: "secret",
	}, log)
}

func TestUploadAndShare(t *testing.T) {
	fake := newFakeNextcloud(shareOKXML)
	client := newTestClient(t, fake)

	res, err := client.UploadAndShare(context.Background(), "employees.csv", []byte("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("UploadAndShare() error = %v", err)
	}

	if res.RemotePath != "data2csv_exports/employees.csv" {
		t.Errorf("remote path = %q", res.RemotePath)
	}
	if res.ShareURL != "https://cloud.example.com/s/AbCdEf" {
		t.Errorf("share url = %q", res.ShareURL)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if !fake.shareHit {
		t.Error("OCS share endpoint was never called")
	}
	var uploaded bool
	for p, body := range fake.uploads {
		if strings.HasSuffix(p, "/data2csv_exports/employees.csv") {
			uploaded = true
			if string(body) != "a,b\n1,2\n" {
				t.Errorf("uploaded body = %q", body)
			}
		}
	}
	if !uploaded {
		t.Errorf("file not uploaded to export dir, got %v", fake.uploads)
	}
}

func TestCreatePublicShareFailure(t *testing.T) {
	fake := newFakeNextcloud(shareFailXML)
	client := newTestClient(t, fake)

	_, err := client.UploadAndShare(context.Background(), "data.csv", []byte("x\n"))
	if err == nil {
		t.Fatal("expected error for failed share")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("want AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrCodeExternalService {
		t.Errorf("code = %v, want %v", appErr.Code, apperrors.ErrCodeExternalService)
	}
	if !strings.Contains(appErr.Error(), "Wrong path") {
		t.Errorf("error should carry OCS message, got %v", appErr)
	}
}

func TestUploadFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	log := logger.New(&logger.Config{Level: "error", Format: "json"}, "test")
	client := NewClient(Config{Enabled: true, URL: srv.URL, Username: "u", Password: "p"}, log)

	if _, err := client.Upload(context.Background(), "x.csv", []byte("x")); err == nil {
		t.Error("expected error when WebDAV server rejects requests")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled needs nothing", Config{}, false},
		{"enabled complete", Config{Enabled: true, URL: "https://c", Username: "u", Password: "p"}, false},
		{"enabled missing url", Config{Enabled: true, Username: "u", Password: "p"}, true},
		{"enabled missing password", Config{Enabled: true, URL: "https://c", Username: "u"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
