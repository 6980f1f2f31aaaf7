//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/diapason"
	"github.com/farcloser/diapason/internal/output"
)

const (
	defaultAddr = ":8080"

	// Full-length masters over slow links take a while.
	downloadTimeout = 120 * time.Second

	readHeaderTimeout = 10 * time.Second
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the comparison HTTP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   defaultAddr,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			addr := cmd.String("addr")

			mux := http.NewServeMux()
			mux.HandleFunc("GET /healthz", handleHealthz)
			mux.HandleFunc("GET /analyze", handleAnalyze)

			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			slog.Info("listening", "addr", addr)

			return server.ListenAndServe()
		},
	}
}

func handleHealthz(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write([]byte(`{"status":"ok"}` + "\n"))
}

// handleAnalyze fetches both URLs, decodes them, and returns the full
// comparison report as JSON.
func handleAnalyze(writer http.ResponseWriter, request *http.Request) {
	beforeURL := request.URL.Query().Get("before")
	afterURL := request.URL.Query().Get("after")

	if beforeURL == "" || afterURL == "" {
		httpError(writer, http.StatusBadRequest, "both before and after query parameters are required")

		return
	}

	ctx := request.Context()

	beforePath, cleanupBefore, err := download(ctx, beforeURL)
	if err != nil {
		slog.Error("download failed", "url", beforeURL, "error", err)
		httpError(writer, http.StatusBadGateway, "fetching before input failed")

		return
	}
	defer cleanupBefore()

	afterPath, cleanupAfter, err := download(ctx, afterURL)
	if err != nil {
		slog.Error("download failed", "url", afterURL, "error", err)
		httpError(writer, http.StatusBadGateway, "fetching after input failed")

		return
	}
	defer cleanupAfter()

	before, after, err := loadPair(ctx, beforePath, afterPath, 0)
	if err != nil {
		slog.Error("decode failed", "error", err)
		httpError(writer, http.StatusUnprocessableEntity, err.Error())

		return
	}

	report, err := diapason.Compare(before, after, diapason.DefaultOptions())
	if err != nil {
		slog.Error("comparison failed", "error", err)
		httpError(writer, http.StatusUnprocessableEntity, err.Error())

		return
	}

	writer.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(writer).Encode(output.ReportToMap(report)); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func httpError(writer http.ResponseWriter, status int, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	_ = json.NewEncoder(writer).Encode(map[string]string{"error": message})
}

// download fetches a URL to a temp file and returns its path plus a
// cleanup func. ffprobe and ffmpeg both want a seekable local file.
func download(ctx context.Context, rawURL string) (string, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", nil, err
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return "", nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("unexpected status %s fetching %s", response.Status, rawURL) //nolint:err113
	}

	tempDir, err := os.MkdirTemp("", "diapason-")
	if err != nil {
		return "", nil, err
	}

	cleanup := func() { _ = os.RemoveAll(tempDir) }

	filePath := filepath.Join(tempDir, "input")

	file, err := os.Create(filePath) //nolint:gosec // path is under our own temp dir
	if err != nil {
		cleanup()

		return "", nil, err
	}
	defer file.Close()

	if _, err = file.ReadFrom(response.Body); err != nil {
		cleanup()

		return "", nil, err
	}

	return filePath, cleanup, nil
}
