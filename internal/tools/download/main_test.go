package main

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	body := "\x00asm\x01\x00\x00\x00"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sassc.wasm" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	sum := sha256.Sum256([]byte(body))
	good := hex.EncodeToString(sum[:])

	t.Run("ok", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "sassc.wasm")
		if err := fetch(srv.Client(), srv.URL+"/sassc.wasm", out, good); err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(out)
		if err != nil || string(got) != body {
			t.Errorf("output = %q, %v", got, err)
		}
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "sassc.wasm")
		err := fetch(srv.Client(), srv.URL+"/sassc.wasm", out, strings.Repeat("0", 64))
		if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
			t.Fatalf("unexpected error: %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("files left behind: %v", entries)
		}
	})

	t.Run("not found", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "x")
		err := fetch(srv.Client(), srv.URL+"/missing", out, "")
		if err == nil || !strings.Contains(err.Error(), "404") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
