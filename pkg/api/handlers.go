package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/codec"
	"github.com/ssargent/snsrecords/pkg/instruction"
	"github.com/ssargent/snsrecords/pkg/records"
)

// MaxBatchKeys bounds the keys accepted by one batch request
const MaxBatchKeys = 1000

// Server holds the API server state
type Server struct {
	reader  RecordReader
	builder *instruction.Builder
	config  ServerConfig
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer creates a new API server. Metrics are registered with
// config.Registry (or the default registry) when metrics is nil.
func NewServer(reader RecordReader, builder *instruction.Builder, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if builder == nil {
		builder = instruction.Default()
	}
	if metrics == nil {
		if config.Registry != nil {
			metrics = NewMetrics(config.Registry)
		} else {
			metrics = NewMetrics(prometheus.DefaultRegisterer)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		reader:  reader,
		builder: builder,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{
		"status":        "healthy",
		"program_id":    s.builder.ProgramID().String(),
		"central_state": s.centralState(),
	})
}

func (s *Server) centralState() string {
	cs, err := s.builder.CentralState()
	if err != nil {
		return ""
	}
	return cs.String()
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	key, ok := s.pathKey(w, r, "key")
	if !ok {
		return
	}

	rec, err := s.reader.Retrieve(r.Context(), key)
	if err != nil {
		s.sendLookupError(w, r, "get", err)
		return
	}

	resp, err := NewRecordResponse(key, rec)
	if err != nil {
		s.sendLookupError(w, r, "get", err)
		return
	}
	s.metrics.RecordLookup("get", statusSuccess)
	sendSuccess(w, resp)
}

func (s *Server) handleGetHeader(w http.ResponseWriter, r *http.Request) {
	key, ok := s.pathKey(w, r, "key")
	if !ok {
		return
	}

	header, err := s.reader.RetrieveHeader(r.Context(), key)
	if err != nil {
		s.sendLookupError(w, r, "header", err)
		return
	}
	s.metrics.RecordLookup("header", statusSuccess)
	sendSuccess(w, NewHeaderResponse(header))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if len(req.Keys) > MaxBatchKeys {
		sendError(w, fmt.Sprintf("At most %d keys per batch", MaxBatchKeys), http.StatusBadRequest)
		return
	}

	keys := make([]solana.PublicKey, len(req.Keys))
	for i, k := range req.Keys {
		key, err := solana.PublicKeyFromBase58(k)
		if err != nil {
			sendError(w, fmt.Sprintf("Invalid key at index %d: %v", i, err), http.StatusBadRequest)
			return
		}
		keys[i] = key
	}
	s.metrics.RecordBatchSize(len(keys))

	recs, err := s.reader.RetrieveBatch(r.Context(), keys)
	if err != nil {
		s.sendLookupError(w, r, "batch", err)
		return
	}

	// Absent records stay null so positions line up with the request.
	out := make([]*RecordResponse, len(recs))
	for i, rec := range recs {
		if rec == nil {
			continue
		}
		resp, err := NewRecordResponse(keys[i], rec)
		if err != nil {
			s.sendLookupError(w, r, "batch", err)
			return
		}
		out[i] = resp
	}
	s.metrics.RecordLookup("batch", statusSuccess)
	sendSuccess(w, out)
}

func (s *Server) handleGetByName(w http.ResponseWriter, r *http.Request) {
	domain, ok := s.pathKey(w, r, "domain")
	if !ok {
		return
	}
	name := chi.URLParam(r, "record")
	if name == "" {
		sendError(w, "Record name is required", http.StatusBadRequest)
		return
	}

	key, rec, err := s.reader.RetrieveByName(r.Context(), domain, name)
	if err != nil {
		s.sendLookupError(w, r, "by_name", err)
		return
	}

	resp, err := NewRecordResponse(key, rec)
	if err != nil {
		s.sendLookupError(w, r, "by_name", err)
		return
	}
	s.metrics.RecordLookup("by_name", statusSuccess)
	sendSuccess(w, resp)
}

func (s *Server) handleEncodeInstruction(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	tag, err := instruction.ParseTag(op)
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}

	var body InstructionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.RecordInstruction(op, false)
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	req, err := body.Build(tag)
	if err != nil {
		s.metrics.RecordInstruction(op, false)
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ix, err := s.builder.Encode(req)
	if err != nil {
		s.metrics.RecordInstruction(op, false)
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := NewInstructionResponse(tag, ix)
	if err != nil {
		s.metrics.RecordInstruction(op, false)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordInstruction(op, true)
	sendSuccess(w, resp)
}

func (s *Server) pathKey(w http.ResponseWriter, r *http.Request, param string) (solana.PublicKey, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		sendError(w, fmt.Sprintf("%s is required", param), http.StatusBadRequest)
		return solana.PublicKey{}, false
	}
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		sendError(w, fmt.Sprintf("Invalid %s: %v", param, err), http.StatusBadRequest)
		return solana.PublicKey{}, false
	}
	return key, true
}

// sendLookupError maps a lookup failure to a status code. Malformed accounts
// are 422, transport failures 502.
func (s *Server) sendLookupError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var decErr *codec.DecodeError
	switch {
	case errors.Is(err, records.ErrNotFound):
		s.metrics.RecordLookup(operation, statusNotFound)
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &decErr):
		s.metrics.RecordLookup(operation, statusError)
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.metrics.RecordLookup(operation, statusError)
		s.logger.Error("record lookup failed",
			zap.String("operation", operation),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		sendError(w, err.Error(), http.StatusBadGateway)
	}
}
