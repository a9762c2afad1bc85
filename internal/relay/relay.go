// Package relay forwards GET requests to third-party hosts on behalf of
// clients that cannot reach them directly, either as a JSON passthrough or
// as a download byte stream.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
)

const defaultFilename = "download"

// Mode selects how the upstream response is handed back.
type Mode struct {
	Download bool
	Filename string
}

// JSONMode forwards the upstream body as a JSON document.
var JSONMode = Mode{}

// StreamMode forwards the upstream body as an attachment named filename.
func StreamMode(filename string) Mode {
	return Mode{Download: true, Filename: filename}
}

// Result is the relay's answer. Exactly one of JSON and Stream is set.
// Err holds the transport error behind a fetch-failed envelope.
type Result struct {
	Status int
	Header http.Header
	JSON   json.RawMessage
	Stream io.ReadCloser
	Err    error
}

// Relay fetches target URLs. It is stateless and safe for concurrent use.
type Relay struct {
	// client is used for JSON requests with an overall timeout
	client *http.Client
	// streamClient is used for media streams without an overall timeout
	streamClient *http.Client
	userAgent    string
	maxJSONBytes int64
	logger       *slog.Logger
}

// New creates a relay from configuration.
func New(cfg config.RelayConfig, logger *slog.Logger) *Relay {
	streamTransport := http.DefaultTransport.(*http.Transport).Clone()
	streamTransport.ResponseHeaderTimeout = cfg.HeaderTimeout

	if logger == nil {
		logger = slog.Default()
	}

	return &Relay{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		streamClient: &http.Client{
			Transport: streamTransport,
		},
		userAgent:    cfg.UserAgent,
		maxJSONBytes: cfg.MaxJSONBytes,
		logger:       logger,
	}
}

// Do fetches target and converts the outcome into a Result. It never
// returns an error: every failure becomes a JSON envelope with a status.
func (r *Relay) Do(ctx context.Context, target string, mode Mode) *Result {
	if strings.TrimSpace(target) == "" {
		return envelope(http.StatusBadRequest, domain.ErrorEnvelope{Error: "Missing URL"})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fetchFailed(err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	client := r.streamClient
	if !mode.Download {
		// Media origins may reject content negotiation, so only JSON mode asks for it.
		req.Header.Set("Accept", "application/json")
		client = r.client
	}

	resp, err := client.Do(req)
	if err != nil {
		r.logger.Warn("relay fetch failed", "target", target, "error", err)
		return fetchFailed(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, r.maxJSONBytes))
		text := string(body)
		return envelope(resp.StatusCode, domain.ErrorEnvelope{
			Error: fmt.Sprintf("API returned status %d", resp.StatusCode),
			Data:  &text,
		})
	}

	if mode.Download {
		return r.stream(resp, mode.Filename)
	}
	return r.json(resp)
}

func (r *Relay) json(resp *http.Response) *Result {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxJSONBytes))
	if err != nil {
		return fetchFailed(err)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		text := string(body)
		return envelope(http.StatusInternalServerError, domain.ErrorEnvelope{
			Error: "non-JSON upstream response",
			Data:  &text,
		})
	}

	return &Result{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		JSON:   json.RawMessage(trimmed),
	}
}

func (r *Relay) stream(resp *http.Response, filename string) *Result {
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return envelope(http.StatusInternalServerError, domain.ErrorEnvelope{Error: domain.ErrNoBody.Error()})
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", ContentDisposition(filename))
	if resp.ContentLength >= 0 {
		header.Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}

	return &Result{
		Status: http.StatusOK,
		Header: header,
		Stream: resp.Body,
	}
}

// ContentDisposition builds an attachment header for filename. Quotes,
// backslashes and control characters are dropped.
func ContentDisposition(filename string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, filename)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		clean = defaultFilename
	}
	return `attachment; filename="` + clean + `"`
}

// Write sends the result to w. Streams are flushed after every chunk when
// the writer supports it.
func (res *Result) Write(w http.ResponseWriter) error {
	for k, vs := range res.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	if res.Stream == nil {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(res.Status)
		_, err := w.Write(res.JSON)
		return err
	}

	defer res.Stream.Close()
	w.WriteHeader(res.Status)

	rc := http.NewResponseController(w)
	buf := make([]byte, 32*1024)
	for {
		n, err := res.Stream.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func envelope(status int, env domain.ErrorEnvelope) *Result {
	body, _ := json.Marshal(env)
	return &Result{
		Status: status,
		Header: http.Header{"Content-Type": {"application/json"}},
		JSON:   body,
	}
}

func fetchFailed(err error) *Result {
	res := envelope(http.StatusInternalServerError, domain.ErrorEnvelope{
		Error:   domain.FetchFailed,
		Details: err.Error(),
	})
	res.Err = err
	return res
}
