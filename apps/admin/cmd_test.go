package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/admin"
	"github.com/adaptivin/adaptivin-admin/core/school"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	writeEnvelope := func(w http.ResponseWriter, status int, data interface{}, message string) {
		verdict := "error"
		if status >= 200 && status < 300 {
			verdict = "success"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": status >= 200 && status < 300,
			"status":  verdict,
			"data":    data,
			"message": message,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["password"] != "Kunci#Rahasia9" {
			writeEnvelope(w, http.StatusUnauthorized, nil, "email atau kata sandi salah")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"token": "issued-token",
			"user":  admin.Admin{ID: 1, Email: payload["email"], Role: admin.RoleSuperadmin},
		}, "")
	})
	mux.HandleFunc("/schools", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer issued-token" {
			writeEnvelope(w, http.StatusUnauthorized, nil, "unauthorized")
			return
		}
		writeEnvelope(w, http.StatusOK, []school.School{{ID: 1, Name: "SDN Melati 01", Address: "Jl. Melati No. 4"}}, "")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T) *commandLine {
	t.Helper()

	srv := fakeBackend(t)
	conf := &core.Config{Backend: core.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}}
	tokens := &staticTokenSource{}
	client, err := backend.NewClient(conf, tokens, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &commandLine{conf: conf, client: client, tokens: tokens}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t)
	outPath := filepath.Join(t.TempDir(), "sekolah.xlsx")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "ping", args: []string{"ping"}},
		{name: "export: no args", args: []string{"export"}, wantErr: errHelp},
		{name: "export: no password", args: []string{"export", "-resource", "sekolah", "-out", outPath, "-email", "super@adaptivin.id"}, wantErr: errHelp},
		{name: "export", args: []string{"export", "-resource", "sekolah", "-out", outPath, "-email", "super@adaptivin.id"}, pwd: "Kunci#Rahasia9"},
		{name: "dropsession without store", args: []string{"dropsession", "-id", "sess-1"}, wantErr: nil},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch tt.name {
			case "dropsession without store":
				if err == nil {
					t.Error("cli.run() expected an error without a store")
				}
			case "export":
				if err != nil {
					t.Fatalf("cli.run() unexpected error = %v", err)
				}
				if _, err := os.Stat(outPath); err != nil {
					t.Errorf("export did not write %s: %v", outPath, err)
				}
			default:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func Test_commandLine_export_badCredentials(t *testing.T) {
	cli := setup(t)
	outPath := filepath.Join(t.TempDir(), "sekolah.xlsx")

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("wrong"), nil }

	err := cli.run([]string{"admin", "export", "-resource", "sekolah", "-out", outPath, "-email", "super@adaptivin.id"})
	if err == nil {
		t.Fatal("cli.run() expected a login error")
	}
}
