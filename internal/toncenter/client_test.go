package toncenter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

const (
	testAddress = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"
	testHashB64 = "E8LbY9kJCgCfUsc9g7sjNylBLn3SexVA9Tco8wIL7Cg="
)

func okResult(result any) []byte {
	b, _ := json.Marshal(result)
	out, _ := json.Marshal(map[string]any{"ok": true, "result": json.RawMessage(b)})
	return out
}

func errResult(msg string, code int) []byte {
	out, _ := json.Marshal(map[string]any{"ok": false, "error": msg, "code": code})
	return out
}

func testServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func rawTx(hash, lt string, value string) map[string]any {
	return map[string]any{
		"@type":          "raw.transaction",
		"utime":          1700000000,
		"transaction_id": map[string]any{"lt": lt, "hash": hash},
		"in_msg": map[string]any{
			"source":      "EQsource",
			"destination": testAddress,
			"value":       value,
		},
	}
}

// ---------------------------------------------------------------------------
// TransactionsQuery
// ---------------------------------------------------------------------------

func TestValidateRequiresAddress(t *testing.T) {
	assert.ErrorIs(t, TransactionsQuery{}.Validate(), ErrAddressRequired)
	assert.ErrorIs(t, TransactionsQuery{Address: "  "}.Validate(), ErrAddressRequired)
}

func TestValidateCursorPair(t *testing.T) {
	assert.ErrorIs(t, TransactionsQuery{Address: testAddress, Lt: 5}.Validate(), ErrCursorPair)
	assert.ErrorIs(t, TransactionsQuery{Address: testAddress, Hash: "h"}.Validate(), ErrCursorPair)
	assert.NoError(t, TransactionsQuery{Address: testAddress, Lt: 5, Hash: "h"}.Validate())
	assert.NoError(t, TransactionsQuery{Address: testAddress}.Validate())
}

func TestQueryValuesDefaults(t *testing.T) {
	v := TransactionsQuery{Address: testAddress}.values()
	assert.Equal(t, testAddress, v.Get("address"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "0", v.Get("to_lt"))
	assert.Equal(t, "false", v.Get("archival"))
	assert.False(t, v.Has("lt"))
	assert.False(t, v.Has("hash"))
}

// ---------------------------------------------------------------------------
// GetTransactions
// ---------------------------------------------------------------------------

func TestGetTransactionsSendsQueryAndKey(t *testing.T) {
	var got *http.Request
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write(okResult([]any{rawTx(testHashB64, "47597573000001", "1500000000")})) //nolint:errcheck
	})

	c := New(srv.URL+"/", "secret")
	txs, err := c.GetTransactions(context.Background(), TransactionsQuery{
		Address:  testAddress,
		Limit:    3,
		Lt:       47597573000001,
		Hash:     testHashB64,
		ToLt:     7,
		Archival: true,
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, testHashB64, txs[0].ID())
	assert.Equal(t, int64(47597573000001), txs[0].LogicalTime())

	require.NotNil(t, got)
	assert.Equal(t, "/getTransactions", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, testAddress, q.Get("address"))
	assert.Equal(t, "3", q.Get("limit"))
	assert.Equal(t, "47597573000001", q.Get("lt"))
	assert.Equal(t, testHashB64, q.Get("hash"))
	assert.Equal(t, "7", q.Get("to_lt"))
	assert.Equal(t, "true", q.Get("archival"))
	assert.Equal(t, "secret", got.Header.Get("X-API-Key"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestGetTransactionsNoKeyHeaderWhenEmpty(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-Key"))
		w.Write(okResult([]any{})) //nolint:errcheck
	})
	txs, err := New(srv.URL, "").GetTransactions(context.Background(), TransactionsQuery{Address: testAddress})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestGetTransactionsValidationSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})
	c := New(srv.URL, "")
	_, err := c.GetTransactions(context.Background(), TransactionsQuery{Address: testAddress, Lt: 1})
	assert.ErrorIs(t, err, ErrCursorPair)
	_, err = c.GetTransactions(context.Background(), TransactionsQuery{})
	assert.ErrorIs(t, err, ErrAddressRequired)
	assert.Zero(t, calls.Load())
}

func TestGetTransactionsAPIErrorEnvelope(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(errResult("Incorrect address", 416)) //nolint:errcheck
	})
	_, err := New(srv.URL, "").GetTransactions(context.Background(), TransactionsQuery{Address: "bad"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect address", apiErr.Message)
	assert.Equal(t, 416, apiErr.Code)
	assert.Contains(t, err.Error(), "Incorrect address")
}

func TestGetTransactionsNon2xxWithJSON(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write(errResult("API key does not exist", 401)) //nolint:errcheck
	})
	_, err := New(srv.URL, "nope").GetTransactions(context.Background(), TransactionsQuery{Address: testAddress})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "API key does not exist")
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestGetTransactionsNon2xxWithoutJSON(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>") //nolint:errcheck
	})
	_, err := New(srv.URL, "").GetTransactions(context.Background(), TransactionsQuery{Address: testAddress})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Bad Gateway")
}

func TestGetTransactionsMalformedJSON(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "{not json") //nolint:errcheck
	})
	_, err := New(srv.URL, "").GetTransactions(context.Background(), TransactionsQuery{Address: testAddress})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing toncenter response")
}

func TestGetTransactionsUnexpectedResultShape(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(okResult("not a list")) //nolint:errcheck
	})
	_, err := New(srv.URL, "").GetTransactions(context.Background(), TransactionsQuery{Address: testAddress})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing transaction list")
}

func TestGetTransactionsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, "").GetTransactions(context.Background(), TransactionsQuery{Address: testAddress})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toncenter request failed")
}

// ---------------------------------------------------------------------------
// SendBoc
// ---------------------------------------------------------------------------

func TestSendBocReturnsHash(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sendBocReturnHash", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "te6cckEBAQEA", body["boc"])
		w.Write(okResult(map[string]string{"@type": "ext.message.info", "hash": testHashB64})) //nolint:errcheck
	})
	hash, err := New(srv.URL, "k").SendBoc(context.Background(), " te6cckEBAQEA\n")
	require.NoError(t, err)
	assert.Equal(t, testHashB64, hash)
}

func TestSendBocEmpty(t *testing.T) {
	_, err := New("http://unused", "").SendBoc(context.Background(), "")
	assert.ErrorIs(t, err, ErrBocRequired)
}

func TestSendBocRejected(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(errResult("Failed to unpack account state", 500)) //nolint:errcheck
	})
	_, err := New(srv.URL, "").SendBoc(context.Background(), "te6")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to unpack account state", apiErr.Message)
}

// ---------------------------------------------------------------------------
// WaitForTransaction
// ---------------------------------------------------------------------------

func TestWaitForTransactionEventuallyConfirmed(t *testing.T) {
	var calls atomic.Int32
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("archival"))
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.Write(okResult([]any{rawTx("b3RoZXJvdGhlcm90aGVyb3RoZXJvdGhlcm90aGVyb3Q=", "1", "0")})) //nolint:errcheck
		default:
			w.Write(okResult([]any{rawTx(testHashB64, "2", "90000")})) //nolint:errcheck
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tx, err := New(srv.URL, "").WaitForTransaction(ctx, testAddress, testHashB64, 5*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, testHashB64, tx.ID())
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestWaitForTransactionMatchesInMsgHash(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		tx := rawTx("b3RoZXJvdGhlcm90aGVyb3RoZXJvdGhlcm90aGVyb3Q=", "1", "0")
		tx["in_msg"].(map[string]any)["hash"] = testHashB64
		w.Write(okResult([]any{tx})) //nolint:errcheck
	})
	tx, err := New(srv.URL, "").WaitForTransaction(context.Background(), testAddress, testHashB64, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, tx)
}

func TestWaitForTransactionTimeout(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(okResult([]any{})) //nolint:errcheck
	})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL, "").WaitForTransaction(ctx, testAddress, testHashB64, 5*time.Millisecond)
	assert.True(t, errors.Is(err, ErrNotConfirmed))
}

func TestWaitForTransactionRejectsBadHash(t *testing.T) {
	_, err := New("http://unused", "").WaitForTransaction(context.Background(), testAddress, "xyz", time.Millisecond)
	require.Error(t, err)
	_, err = New("http://unused", "").WaitForTransaction(context.Background(), "", testHashB64, time.Millisecond)
	assert.ErrorIs(t, err, ErrAddressRequired)
}
