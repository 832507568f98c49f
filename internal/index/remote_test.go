package index_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"branec/internal/index"
	"branec/internal/types"
)

func TestNewRemoteValidatesEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		ok       bool
	}{
		{"http://localhost:8080", true},
		{"https://index.example.com/api", true},
		{"ftp://nope", false},
		{"http://", false},
		{"://garbage", false},
	}
	for _, tt := range tests {
		_, err := index.NewRemote(tt.endpoint, time.Second)
		if (err == nil) != tt.ok {
			t.Errorf("NewRemote(%q) err = %v, want ok=%v", tt.endpoint, err, tt.ok)
		}
	}
}

func TestRemotePackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/hello_world":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"name": "hello_world",
				"version": "1.0.0",
				"functions": [
					{"name": "hello_world", "params": [], "ret": "String"},
					{"name": "shout", "params": ["String", "Int"], "ret": "String"}
				]
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r, err := index.NewRemote(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	info, found, err := r.Package(context.Background(), "hello_world", "")
	if err != nil || !found {
		t.Fatalf("Package = %v, %v", found, err)
	}
	if info.Version != "1.0.0" || len(info.Functions) != 2 {
		t.Fatalf("info = %+v", info)
	}
	if !info.Functions[1].Params[0].Equals(types.StringType) {
		t.Errorf("param type = %v", info.Functions[1].Params[0])
	}

	_, found, err = r.Package(context.Background(), "missing", "")
	if err != nil {
		t.Fatalf("not-found must not be an error: %v", err)
	}
	if found {
		t.Fatal("missing package reported found")
	}
}

func TestRemoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := index.NewRemote(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = r.Package(context.Background(), "anything", "")
	if err == nil {
		t.Fatal("server error must surface as an error")
	}
}

func TestMemoryVersionPin(t *testing.T) {
	m := index.NewMemory().AddPackage(index.PackageInfo{Name: "pkg", Version: "2.0.0"})
	if _, found, _ := m.Package(context.Background(), "pkg", "1.0.0"); found {
		t.Error("wrong version pin resolved")
	}
	if _, found, _ := m.Package(context.Background(), "pkg", "2.0.0"); !found {
		t.Error("matching version pin failed")
	}
	if _, found, _ := m.Package(context.Background(), "pkg", ""); !found {
		t.Error("unpinned lookup failed")
	}
}
