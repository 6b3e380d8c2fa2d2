package ton

// RawTransaction is one item of a toncenter getTransactions result. Every
// nested field is optional: the API omits in_msg for some transactions and
// leaves source empty for external messages.
type RawTransaction struct {
	Hash          *string        `json:"hash,omitempty"`
	Lt            *Int           `json:"lt,omitempty"`
	TransactionID *TransactionID `json:"transaction_id,omitempty"`
	Utime         *int64         `json:"utime,omitempty"`
	Fee           *Nano          `json:"fee,omitempty"`
	InMsg         *RawMessage    `json:"in_msg,omitempty"`
	OutMsgs       []RawMessage   `json:"out_msgs,omitempty"`
	Success       *bool          `json:"success,omitempty"`
}

// TransactionID is the (lt, hash) pair identifying a transaction; it doubles
// as the pagination cursor of getTransactions.
type TransactionID struct {
	Lt   *Int    `json:"lt,omitempty"`
	Hash *string `json:"hash,omitempty"`
}

// RawMessage is an incoming or outgoing message of a RawTransaction.
type RawMessage struct {
	Hash        *string `json:"hash,omitempty"`
	Source      *string `json:"source,omitempty"`
	Destination *string `json:"destination,omitempty"`
	Value       *Nano   `json:"value,omitempty"`
	Message     *string `json:"message,omitempty"`
}

// TransactionRecord is the flattened view of a transaction written to the
// output file.
type TransactionRecord struct {
	Hash      string  `json:"hash"`
	Lt        int64   `json:"lt"`
	Sender    *string `json:"sender"`
	Receiver  *string `json:"receiver"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
	Success   bool    `json:"status"`
	Comment   string  `json:"comment,omitempty"`
}

// ID returns the transaction hash, preferring the top-level field.
func (tx RawTransaction) ID() string {
	if tx.Hash != nil {
		return *tx.Hash
	}
	if tx.TransactionID != nil && tx.TransactionID.Hash != nil {
		return *tx.TransactionID.Hash
	}
	return ""
}

// LogicalTime returns the transaction lt, preferring the top-level field.
func (tx RawTransaction) LogicalTime() int64 {
	if tx.Lt != nil {
		return int64(*tx.Lt)
	}
	if tx.TransactionID != nil && tx.TransactionID.Lt != nil {
		return int64(*tx.TransactionID.Lt)
	}
	return 0
}

// ExtractRecord flattens a raw transaction. Missing fields fall back to
// absent or zero values; it never fails.
func ExtractRecord(tx RawTransaction) TransactionRecord {
	rec := TransactionRecord{
		Hash: tx.ID(),
		Lt:   tx.LogicalTime(),
	}
	if tx.Utime != nil {
		rec.Timestamp = *tx.Utime
	}
	if tx.Success != nil {
		rec.Success = *tx.Success
	}
	if in := tx.InMsg; in != nil {
		rec.Sender = copyString(in.Source)
		rec.Receiver = copyString(in.Destination)
		if in.Value != nil {
			rec.Amount = in.Value.TON()
		}
		if in.Message != nil {
			rec.Comment = *in.Message
		}
	}
	return rec
}

// ExtractRecords flattens txs, preserving length and order.
func ExtractRecords(txs []RawTransaction) []TransactionRecord {
	out := make([]TransactionRecord, len(txs))
	for i, tx := range txs {
		out[i] = ExtractRecord(tx)
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
