package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"JerseyFM/logger"
	"JerseyFM/model"
)

const (
	rpcMethod = "mintCompressedNft"
	rpcID     = "mint-jerseyfm"

	explorerTxURL = "https://xray.helius.xyz/tx/%s?network=mainnet"
)

// RPCError covers every way a mint call can fail: transport, an RPC error
// object, or a result that is missing or unusable.
type RPCError struct {
	Code    int // JSON-RPC error code, 0 when not applicable
	Message string
	Err     error
}

func (e *RPCError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("mint rpc: %s: %v", e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("mint rpc: %v", e.Err)
	case e.Code != 0:
		return fmt.Sprintf("mint rpc: error code=%d message=%s", e.Code, e.Message)
	default:
		return "mint rpc: " + e.Message
	}
}

func (e *RPCError) Unwrap() error { return e.Err }

// ExplorerLink is the transaction page for a mint signature.
func ExplorerLink(signature string) string {
	return fmt.Sprintf(explorerTxURL, signature)
}

type rpcRequest struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      string             `json:"id"`
	Method  string             `json:"method"`
	Params  *model.MintPayload `json:"params"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type mintResult struct {
	Signature string `json:"signature"`
	AssetID   string `json:"assetId"`
	Minted    *bool  `json:"minted,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *mintResult     `json:"result"`
	Error   *rpcErrorBody   `json:"error,omitempty"`
}

// Submitter sends mintCompressedNft calls to a Helius-style RPC endpoint.
type Submitter struct {
	endpoint   string
	httpClient *http.Client
}

// NewSubmitter creates a submitter for endpoint (an RPC URL with api key).
func NewSubmitter(endpoint string) *Submitter {
	return &Submitter{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetHTTPClient replaces the underlying transport.
func (s *Submitter) SetHTTPClient(hc *http.Client) {
	s.httpClient = hc
}

// Submit sends one mint and treats the response as final: no polling, no
// retry.
func (s *Submitter) Submit(ctx context.Context, payload *model.MintPayload) (*model.MintOutcome, error) {
	if s.endpoint == "" {
		return nil, &RPCError{Message: "endpoint not configured"}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      rpcID,
		Method:  rpcMethod,
		Params:  payload,
	})
	if err != nil {
		return nil, &RPCError{Message: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RPCError{Message: "new request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &RPCError{Message: "http do", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RPCError{Message: "read response", Err: err}
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, &RPCError{
			Message: fmt.Sprintf("decode response (status=%d)", resp.StatusCode),
			Err:     err,
		}
	}
	if rr.Error != nil {
		return nil, &RPCError{Code: rr.Error.Code, Message: rr.Error.Message}
	}
	if rr.Result == nil {
		return nil, &RPCError{Message: fmt.Sprintf("response has no result (status=%d)", resp.StatusCode)}
	}
	if err := rr.Result.validate(); err != nil {
		return nil, &RPCError{Message: "invalid result", Err: err}
	}

	out := &model.MintOutcome{
		AssetID:      rr.Result.AssetID,
		Signature:    rr.Result.Signature,
		ExplorerLink: ExplorerLink(rr.Result.Signature),
	}
	logger.Info("View transaction: "+out.ExplorerLink,
		logger.String("assetId", out.AssetID),
		logger.String("signature", out.Signature))
	return out, nil
}

func (r *mintResult) validate() error {
	if r.Minted != nil && !*r.Minted {
		return errors.New("provider reported minted=false")
	}
	if strings.TrimSpace(r.Signature) == "" {
		return errors.New("result has no signature")
	}
	if strings.TrimSpace(r.AssetID) == "" {
		return errors.New("result has no assetId")
	}
	return nil
}
