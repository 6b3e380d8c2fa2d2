package ton

import (
	"bytes"
	"encoding/json"
)

// UnknownSender is returned by SenderAddress when no source is present.
const UnknownSender = "Unknown"

// TraceNode is one transaction of a trace together with the transactions
// triggered by its outgoing messages.
type TraceNode struct {
	Transaction *TraceTransaction `json:"transaction,omitempty"`
	Messages    []TraceMessage    `json:"messages,omitempty"`
	Transfers   []TraceTransfer   `json:"transfers,omitempty"`
	Interfaces  []string          `json:"interfaces,omitempty"`
	Children    []*TraceNode      `json:"children,omitempty"`
}

// TraceTransaction is the transaction carried by a TraceNode.
type TraceTransaction struct {
	Hash            string      `json:"hash,omitempty"`
	Lt              Int         `json:"lt,omitempty"`
	Account         *AccountRef `json:"account,omitempty"`
	Success         *bool       `json:"success,omitempty"`
	Value           *Nano       `json:"value,omitempty"`
	Utime           int64       `json:"utime,omitempty"`
	TransactionType string      `json:"transaction_type,omitempty"`
}

// Succeeded reports whether success is explicitly true. An absent flag is a
// failure.
func (t *TraceTransaction) Succeeded() bool {
	return t != nil && t.Success != nil && *t.Success
}

// TraceMessage is a message attached to a trace node.
type TraceMessage struct {
	Source      *AccountRef `json:"source,omitempty"`
	Destination *AccountRef `json:"destination,omitempty"`
	Value       *Nano       `json:"value,omitempty"`
}

// TraceTransfer is a value transfer attached to a trace node.
type TraceTransfer struct {
	From  *AccountRef `json:"from,omitempty"`
	To    *AccountRef `json:"to,omitempty"`
	Value *Nano       `json:"value,omitempty"`
}

// AccountRef is an account address. tonapi sends accounts as objects
// ({"address": "0:..."}) while older payloads use a bare string.
type AccountRef struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

func (a *AccountRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.Address)
	}
	type plain AccountRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = AccountRef(p)
	return nil
}

func (a *AccountRef) String() string {
	if a == nil {
		return ""
	}
	return a.Address
}

// TraceVerdict is the outcome of CheckTrace: either success, or a failure
// pointing at the first failing node in depth-first pre-order.
type TraceVerdict struct {
	// Failed is the first failing node; nil on success. It is also nil when
	// the failing entry was a null node in the payload.
	Failed *TraceNode
	// Path is the child-index path from the root to Failed.
	Path []int
	ok   bool
}

// OK reports whether every node of the trace succeeded.
func (v TraceVerdict) OK() bool { return v.ok }

// ErrorTransaction returns the failing node's transaction, or nil on success
// or when the failing node carries no transaction.
func (v TraceVerdict) ErrorTransaction() *TraceTransaction {
	if v.ok || v.Failed == nil {
		return nil
	}
	return v.Failed.Transaction
}

type frame struct {
	node   *TraceNode
	parent *frame
	index  int
	depth  int
}

// path rebuilds the child-index path from the root by following parents.
func (f *frame) path() []int {
	p := make([]int, f.depth)
	for cur := f; cur.parent != nil; cur = cur.parent {
		p[cur.depth-1] = cur.index
	}
	return p
}

// pushChildren pushes f's children in reverse so the leftmost is popped first.
func pushChildren(stack []*frame, f *frame) []*frame {
	for i := len(f.node.Children) - 1; i >= 0; i-- {
		stack = append(stack, &frame{node: f.node.Children[i], parent: f, index: i, depth: f.depth + 1})
	}
	return stack
}

// CheckTrace walks the trace depth-first, pre-order, left to right. A node
// whose own transaction failed (or is absent) is reported without looking at
// its children; the first failure found ends the walk.
func CheckTrace(root *TraceNode) TraceVerdict {
	stack := []*frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == nil || !f.node.Transaction.Succeeded() {
			return TraceVerdict{Failed: f.node, Path: f.path()}
		}
		stack = pushChildren(stack, f)
	}
	return TraceVerdict{ok: true}
}

// FlatNode is a trace node with its position in the tree.
type FlatNode struct {
	Node  *TraceNode
	Depth int
	// Parent is the index of the parent in the flattened slice, -1 for the root.
	Parent int
	// Index is the node's position among its parent's children.
	Index int
}

// Flatten lists every non-nil node of the trace in depth-first pre-order.
func Flatten(root *TraceNode) []FlatNode {
	var out []FlatNode
	pos := make(map[*frame]int)
	stack := []*frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		parent := -1
		if f.parent != nil {
			parent = pos[f.parent]
		}
		pos[f] = len(out)
		out = append(out, FlatNode{Node: f.node, Depth: f.depth, Parent: parent, Index: f.index})
		stack = pushChildren(stack, f)
	}
	return out
}

// TransactionAmount returns the node's transferred amount in TON, checking
// messages, then transfers, then the transaction's own value. Returns 0 when
// none is present.
func TransactionAmount(n *TraceNode) float64 {
	if n == nil {
		return 0
	}
	for _, m := range n.Messages {
		if m.Value != nil {
			return m.Value.TON()
		}
	}
	for _, t := range n.Transfers {
		if t.Value != nil {
			return t.Value.TON()
		}
	}
	if tx := n.Transaction; tx != nil && tx.Value != nil && *tx.Value != 0 {
		return tx.Value.TON()
	}
	return 0
}

// SenderAddress returns the first message source, then the first transfer
// sender, falling back to UnknownSender.
func SenderAddress(n *TraceNode) string {
	if n == nil {
		return UnknownSender
	}
	for _, m := range n.Messages {
		if m.Source != nil {
			return m.Source.Address
		}
	}
	for _, t := range n.Transfers {
		if t.From != nil {
			return t.From.Address
		}
	}
	return UnknownSender
}
