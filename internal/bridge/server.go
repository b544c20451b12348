// Package bridge is the request router between the presentation process and
// the data-access service: named channels, one request one response, results
// carried as a tagged ok/error envelope over a loopback-only listener.
//
// The bridge performs no authorization, no input validation and no rate
// limiting. Both endpoints run on the same machine inside the same trust
// boundary; everything it receives is forwarded to the service verbatim and
// every error coming back is logged and re-signaled unchanged.
package bridge

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/henryt56/expense-tracker/internal/log"
	"github.com/henryt56/expense-tracker/internal/services"
)

const maxPayloadBytes = 1 << 20 // 1MB, far beyond any legitimate payload

type Server struct {
	http.Server
	tracker  *services.Tracker
	logger   *log.Logger
	handlers map[string]channelHandler
}

// NewServer wires every channel onto POST /invoke/{channel} plus a
// /healthz liveness probe. addr should be a loopback address; config
// validation enforces that before it gets here.
func NewServer(addr string, tracker *services.Tracker, logger *log.Logger) *Server {
	s := &Server{
		tracker: tracker,
		logger:  logger.WithComponent(log.ComponentBridge),
	}
	s.handlers = s.channels()

	r := mux.NewRouter()
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/invoke/{channel}", s.withRequestLog(s.handleInvoke)).Methods(http.MethodPost)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	channel := mux.Vars(r)["channel"]

	handler, ok := s.handlers[channel]
	if !ok {
		s.logger.WarnContext(r.Context(), "Unknown channel invoked", log.FieldChannel, channel)
		s.respond(w, channel, failure(CodeUnknownChannel, "no such channel: "+channel))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		s.respond(w, channel, failure(CodeBadRequest, "read payload: "+err.Error()))
		return
	}

	data, err := handler(r.Context(), payload)
	if err != nil {
		code := errorCode(err)
		s.logger.ErrorContext(r.Context(), "Channel invocation failed",
			log.FieldChannel, channel,
			log.FieldErrorCode, code,
			log.FieldError, err)
		s.respond(w, channel, failure(code, err.Error()))
		return
	}

	s.respond(w, channel, success(data))
}

func (s *Server) respond(w http.ResponseWriter, channel string, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if !env.OK {
		w.WriteHeader(statusFor(env.Error.Code))
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("Encode response failed", log.FieldChannel, channel, log.FieldError, err)
	}
}

// withRequestLog stamps each invocation with a request ID and logs start and
// completion with the status code and duration.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		channel := mux.Vars(r)["channel"]

		s.logger.InfoContext(r.Context(), "Invocation started",
			log.FieldRequestID, requestID,
			log.FieldChannel, channel)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(r.Context(), "Invocation completed",
			log.FieldRequestID, requestID,
			log.FieldChannel, channel,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
