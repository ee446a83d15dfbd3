package mint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitSuccess(t *testing.T) {
	var seen map[string]any
	srv := rpcServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":"mint-jerseyfm","result":{"signature":"S1","minted":true,"assetId":"A1"}}`, &seen)

	out, err := NewSubmitter(srv.URL).Submit(context.Background(), BuildPayload(sampleRequest(), "U1", "U2"))
	require.NoError(t, err)
	require.Equal(t, "A1", out.AssetID)
	require.Equal(t, "S1", out.Signature)
	require.Equal(t, "https://xray.helius.xyz/tx/S1?network=mainnet", out.ExplorerLink)

	require.Equal(t, "2.0", seen["jsonrpc"])
	require.Equal(t, "mint-jerseyfm", seen["id"])
	require.Equal(t, "mintCompressedNft", seen["method"])
	params := seen["params"].(map[string]any)
	require.Equal(t, "Track - DJ X", params["name"])
	require.Equal(t, float64(1000), params["sellerFeeBasisPoints"])
	require.Equal(t, []any{map[string]any{"address": "Addr1", "share": float64(100)}}, params["creators"])
	require.Equal(t, "U1", params["imageUrl"])
}

func TestSubmitFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"no result", http.StatusOK, `{"jsonrpc":"2.0","id":"mint-jerseyfm"}`, "no result"},
		{"null result", http.StatusOK, `{"jsonrpc":"2.0","id":"mint-jerseyfm","result":null}`, "no result"},
		{"missing signature", http.StatusOK, `{"result":{"assetId":"A1"}}`, "no signature"},
		{"missing asset id", http.StatusOK, `{"result":{"signature":"S1"}}`, "no assetId"},
		{"not minted", http.StatusOK, `{"result":{"signature":"S1","assetId":"A1","minted":false}}`, "minted=false"},
		{"rpc error", http.StatusOK, `{"error":{"code":-32602,"message":"invalid owner"}}`, "invalid owner"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "status=502"},
		{"numeric id, error", http.StatusUnauthorized, `{"jsonrpc":"2.0","id":1,"error":{"code":-32401,"message":"invalid api key"}}`, "invalid api key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := rpcServer(t, tc.status, tc.body, nil)

			out, err := NewSubmitter(srv.URL).Submit(context.Background(), BuildPayload(sampleRequest(), "c", "a"))
			require.Nil(t, out)

			var rpcErr *RPCError
			require.True(t, errors.As(err, &rpcErr), "got %T", err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewSubmitter(url).Submit(context.Background(), BuildPayload(sampleRequest(), "c", "a"))
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	require.Contains(t, err.Error(), "http do")
}

func TestSubmitUnconfigured(t *testing.T) {
	_, err := NewSubmitter(" ").Submit(context.Background(), BuildPayload(sampleRequest(), "c", "a"))
	require.ErrorContains(t, err, "endpoint not configured")
}

func TestExplorerLink(t *testing.T) {
	require.Equal(t, "https://xray.helius.xyz/tx/abc?network=mainnet", ExplorerLink("abc"))
}
