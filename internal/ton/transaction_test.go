package ton_test

import (
	"encoding/json"
	"testing"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTxs(t *testing.T, payload string) []ton.RawTransaction {
	t.Helper()
	var txs []ton.RawTransaction
	require.NoError(t, json.Unmarshal([]byte(payload), &txs))
	return txs
}

func TestExtractRecordsMissingInMsg(t *testing.T) {
	txs := decodeTxs(t, `[
		{"hash": "h1", "lt": 100, "utime": 1700000000, "success": true,
		 "in_msg": {"source": "EQsender", "destination": "EQreceiver", "value": 5000000000}},
		{"hash": "h2", "lt": 99, "utime": 1699999999}
	]`)

	recs := ton.ExtractRecords(txs)
	require.Len(t, recs, 2)

	assert.Equal(t, "h1", recs[0].Hash)
	assert.Equal(t, int64(100), recs[0].Lt)
	require.NotNil(t, recs[0].Sender)
	assert.Equal(t, "EQsender", *recs[0].Sender)
	require.NotNil(t, recs[0].Receiver)
	assert.Equal(t, "EQreceiver", *recs[0].Receiver)
	assert.Equal(t, 5.0, recs[0].Amount)
	assert.Equal(t, int64(1700000000), recs[0].Timestamp)
	assert.True(t, recs[0].Success)

	assert.Equal(t, "h2", recs[1].Hash)
	assert.Nil(t, recs[1].Sender)
	assert.Nil(t, recs[1].Receiver)
	assert.Equal(t, 0.0, recs[1].Amount)
	assert.False(t, recs[1].Success)
}

func TestExtractRecordsPreservesOrder(t *testing.T) {
	txs := decodeTxs(t, `[{"hash": "c"}, {"hash": "a"}, {"hash": "b"}]`)
	recs := ton.ExtractRecords(txs)
	require.Len(t, recs, 3)
	assert.Equal(t, "c", recs[0].Hash)
	assert.Equal(t, "a", recs[1].Hash)
	assert.Equal(t, "b", recs[2].Hash)
}

func TestExtractRecordsEmpty(t *testing.T) {
	recs := ton.ExtractRecords(nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestExtractRecordPartialInMsg(t *testing.T) {
	txs := decodeTxs(t, `[{"hash": "h", "in_msg": {"destination": "EQdst"}}]`)
	rec := ton.ExtractRecord(txs[0])
	assert.Nil(t, rec.Sender)
	require.NotNil(t, rec.Receiver)
	assert.Equal(t, "EQdst", *rec.Receiver)
	assert.Equal(t, 0.0, rec.Amount)
}

func TestExtractRecordToncenterShape(t *testing.T) {
	// toncenter v2 nests the id under transaction_id and sends numbers as strings.
	txs := decodeTxs(t, `[{
		"@type": "raw.transaction",
		"utime": 1717000000,
		"transaction_id": {"@type": "internal.transactionId", "lt": "47597573000001", "hash": "E8LbY9kJCgCfUsc9g7sjNylBLn3SexVA9Tco8wIL7Cg="},
		"fee": "2367417",
		"in_msg": {
			"@type": "raw.message",
			"source": "",
			"destination": "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N",
			"value": "1500000000",
			"message": "danya"
		},
		"out_msgs": []
	}]`)
	rec := ton.ExtractRecord(txs[0])
	assert.Equal(t, "E8LbY9kJCgCfUsc9g7sjNylBLn3SexVA9Tco8wIL7Cg=", rec.Hash)
	assert.Equal(t, int64(47597573000001), rec.Lt)
	require.NotNil(t, rec.Sender)
	assert.Equal(t, "", *rec.Sender)
	assert.Equal(t, 1.5, rec.Amount)
	assert.Equal(t, "danya", rec.Comment)
	assert.Equal(t, int64(1717000000), rec.Timestamp)
}

func TestExtractRecordTopLevelWinsOverTransactionID(t *testing.T) {
	txs := decodeTxs(t, `[{"hash": "top", "lt": 7, "transaction_id": {"hash": "nested", "lt": "8"}}]`)
	rec := ton.ExtractRecord(txs[0])
	assert.Equal(t, "top", rec.Hash)
	assert.Equal(t, int64(7), rec.Lt)
}

func TestExtractRecordNullInMsgFields(t *testing.T) {
	txs := decodeTxs(t, `[{"in_msg": {"source": null, "destination": null, "value": null}}]`)
	rec := ton.ExtractRecord(txs[0])
	assert.Nil(t, rec.Sender)
	assert.Nil(t, rec.Receiver)
	assert.Equal(t, 0.0, rec.Amount)
}

func TestRecordJSONShape(t *testing.T) {
	sender := "EQs"
	rec := ton.TransactionRecord{Hash: "h", Lt: 1, Sender: &sender, Amount: 0.5, Timestamp: 2, Success: true}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash":"h","lt":1,"sender":"EQs","receiver":null,"amount":0.5,"timestamp":2,"status":true}`, string(b))
}
