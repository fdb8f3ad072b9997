package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/sasscmd"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for compilation",
	Long: `Start an HTTP server that compiles through the sass command.

Endpoints:
  POST   /compile   Compile {"type":"data","options":{...},"source":"..."}
  GET    /version   Compiler library and version
  GET    /health    Health check

Requests are compiled one at a time. File sources are refused unless
--allow-files is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "Per-request compile timeout")
	serveCmd.Flags().Bool("allow-files", false, "Allow file sources (paths on the server)")
	rootCmd.AddCommand(serveCmd)
}

type compileRequest struct {
	Type    string         `json:"type,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	Source  string         `json:"source"`
}

type compileResponse struct {
	ErrorStatus     int     `json:"errorStatus"`
	OutputString    *string `json:"outputString,omitempty"`
	SourceMapString *string `json:"sourceMapString,omitempty"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
	ErrorLine       int     `json:"errorLine,omitempty"`
	ErrorColumn     int     `json:"errorColumn,omitempty"`
}

type versionResponse struct {
	Library string `json:"library"`
	Version string `json:"version"`
}

type server struct {
	cmd        *sasscmd.Command
	defaults   []string
	timeout    time.Duration
	allowFiles bool
	logger     *slog.Logger

	// mu serializes compilations; an engine is not safe for overlapping
	// contexts.
	mu sync.Mutex
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	allowFiles, _ := cmd.Flags().GetBool("allow-files")

	h, err := openHost(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer h.Close()

	srv := &server{
		cmd:        h.pkg.Command(),
		defaults:   h.cfg.Defaults,
		timeout:    timeout,
		allowFiles: allowFiles,
		logger:     h.logger,
	}

	addr := fmt.Sprintf(":%d", port)
	httpSrv := &http.Server{Addr: addr, Handler: srv.handler()}
	go func() {
		<-cmd.Context().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("gosass server listening", "addr", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/compile", s.handleCompile)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

func (s *server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		http.Error(w, "source required", http.StatusBadRequest)
		return
	}

	origin := engine.OriginData
	if req.Type != "" {
		o, err := sasscmd.ResolveOrigin(req.Type)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		origin = o
	}
	if origin == engine.OriginFile && !s.allowFiles {
		http.Error(w, "file sources are disabled", http.StatusForbidden)
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.mu.Lock()
	res, err := s.cmd.Compile(ctx, compileWords(origin, requestOptions(s.defaults, req.Options), req.Source))
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp compileResponse
	switch v := res.(type) {
	case *sasscmd.Success:
		resp.OutputString = &v.Output
		resp.SourceMapString = v.SourceMap
	case *sasscmd.Failure:
		resp.ErrorStatus = v.Status
		resp.ErrorMessage = v.Message
		resp.ErrorLine = v.Line
		resp.ErrorColumn = v.Column
	}
	s.logger.Debug("compile request", "type", origin, "status", resp.ErrorStatus, "duration", time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pair, err := s.cmd.Dispatch(r.Context(), []string{sasscmd.CommandName, "version"})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(versionResponse{Library: pair[0], Version: pair[1]})
}

// requestOptions lays the request's options over the defaults. Request
// names are applied in sorted order.
func requestOptions(defaults []string, opts map[string]any) []string {
	var list optionList
	for i := 0; i+1 < len(defaults); i += 2 {
		list.set(defaults[i], defaults[i+1])
	}
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		list.set(name, fmt.Sprint(opts[name]))
	}
	return list.pairs()
}
