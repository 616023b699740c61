package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/model"
)

const (
	MethodAddElementAt    = "add_element_at"
	MethodRemoveElementAt = "remove_element_at"
	MethodUpdateElementAt = "update_element_at"
	MethodListAll         = "list_all"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object. IndexOutOfBounds is never one of these;
// it travels as a result value.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) label() string {
	switch e.Code {
	case codeParseError:
		return "parse_error"
	case codeInvalidRequest:
		return "invalid_request"
	case codeMethodNotFound:
		return "method_not_found"
	case codeInvalidParams:
		return "invalid_params"
	}
	return "internal_error"
}

const maxRPCBodyBytes int64 = 1 << 20 // 1 MiB

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.limiter.allow(clientKey(r), time.Now()) {
		s.metrics.RateLimited()
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRPCBodyBytes)
	var raw json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeRPC(w, rpcResponse{JSONRPC: "2.0", Error: &Error{Code: codeParseError, Message: "parse error"}})
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeRPC(w, rpcResponse{JSONRPC: "2.0", Error: &Error{Code: codeInvalidRequest, Message: "invalid request"}})
		return
	}
	// well-formed JSON that is not a single request object, batches included
	var req rpcRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeRPC(w, rpcResponse{JSONRPC: "2.0", Error: &Error{Code: codeInvalidRequest, Message: "invalid request: expected a single request object"}})
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeRPC(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &Error{Code: codeInvalidRequest, Message: "invalid request"}})
		return
	}
	// a request without an id is a notification: it runs, nothing is returned
	notification := len(req.ID) == 0

	reqID := uuid.NewString()
	started := time.Now()
	s.log.Debug("rpc request", zap.String("request_id", reqID), zap.String("method", req.Method), zap.ByteString("rpc_id", req.ID))

	result, rpcErr := s.dispatch(req.Method, req.Params)
	took := time.Since(started)
	if rpcErr != nil {
		method := req.Method
		if rpcErr.Code == codeMethodNotFound {
			method = "unknown"
		}
		s.metrics.ObserveCall(method, rpcErr.label(), took)
		s.log.Warn("rpc failed",
			zap.String("request_id", reqID),
			zap.String("method", req.Method),
			zap.Int("rpc_code", rpcErr.Code),
			zap.Duration("latency", took))
	} else {
		outcome := model.ResultOK.String()
		if res, ok := result.(model.Result); ok {
			outcome = res.String()
		}
		s.metrics.ObserveCall(req.Method, outcome, took)
		s.log.Info("rpc response",
			zap.String("request_id", reqID),
			zap.String("method", req.Method),
			zap.String("outcome", outcome),
			zap.Duration("latency", took))
	}
	if notification {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeRPC(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result, Error: rpcErr})
}

func (s *Server) dispatch(method string, raw json.RawMessage) (any, *Error) {
	switch method {
	case MethodAddElementAt:
		index, elem, err := decodeIndexElementParams(raw)
		if err != nil {
			return nil, invalidParams(err)
		}
		return mutationResult(s.store.InsertAt(index, elem))
	case MethodRemoveElementAt:
		index, err := decodeIndexParams(raw)
		if err != nil {
			return nil, invalidParams(err)
		}
		return mutationResult(s.store.RemoveAt(index))
	case MethodUpdateElementAt:
		index, elem, err := decodeIndexElementParams(raw)
		if err != nil {
			return nil, invalidParams(err)
		}
		return mutationResult(s.store.UpdateAt(index, elem))
	case MethodListAll:
		if err := decodeNoParams(raw); err != nil {
			return nil, invalidParams(err)
		}
		return s.store.ListAll(), nil
	}
	return nil, &Error{Code: codeMethodNotFound, Message: "method not found"}
}

func mutationResult(err error) (any, *Error) {
	res, err := model.ResultOf(err)
	if err != nil {
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}
	return res, nil
}

func invalidParams(err error) *Error {
	return &Error{Code: codeInvalidParams, Message: err.Error()}
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
