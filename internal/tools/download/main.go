// Command download fetches a file once, for go:generate.
//
//	download [-sha256 hex] [-url-env NAME] [url] output
//
// An existing output is left alone. With -url-env the URL is read from the
// named environment variable, and an unset variable skips the download.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

func main() {
	sum := flag.String("sha256", "", "expected SHA-256 of the file, hex encoded")
	urlEnv := flag.String("url-env", "", "read the URL from this environment variable")
	flag.Parse()

	var url, output string
	switch {
	case *urlEnv != "" && flag.NArg() == 1:
		url, output = os.Getenv(*urlEnv), flag.Arg(0)
		if url == "" {
			fmt.Fprintf(os.Stderr, "download: %s not set, skipping %s\n", *urlEnv, output)
			return
		}
	case *urlEnv == "" && flag.NArg() == 2:
		url, output = flag.Arg(0), flag.Arg(1)
	default:
		fmt.Fprintln(os.Stderr, "usage: download [-sha256 hex] [-url-env NAME] [url] output")
		os.Exit(2)
	}

	if _, err := os.Stat(output); err == nil {
		return
	}
	if err := fetch(http.DefaultClient, url, output, *sum); err != nil {
		fmt.Fprintln(os.Stderr, "download:", err)
		os.Exit(1)
	}
}

// fetch writes url to output through a temporary file in the same
// directory, so a failed or mismatched download leaves nothing behind.
func fetch(client *http.Client, url, output, wantSum string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if wantSum != "" {
		if got := hex.EncodeToString(h.Sum(nil)); got != wantSum {
			return fmt.Errorf("checksum mismatch for %s: got %s, want %s", url, got, wantSum)
		}
	}
	return os.Rename(tmp.Name(), output)
}
