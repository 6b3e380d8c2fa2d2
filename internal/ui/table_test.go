package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// KeyValueBlock
// ---------------------------------------------------------------------------

func TestKeyValueBlockContainsTitleAndPairs(t *testing.T) {
	result := KeyValueBlock("Trace", [][2]string{
		{"Sender", "EQsender"},
		{"Amount", "2.5 TON"},
	})
	assert.Contains(t, result, "Trace")
	assert.Contains(t, result, "Sender")
	assert.Contains(t, result, "EQsender")
	assert.Contains(t, result, "2.5 TON")
}

func TestKeyValueBlockMultiplePairsPreservesOrder(t *testing.T) {
	result := KeyValueBlock("Config", [][2]string{
		{"First", "AAA"},
		{"Second", "BBB"},
		{"Third", "CCC"},
	})
	idxFirst := strings.Index(result, "First")
	idxSecond := strings.Index(result, "Second")
	idxThird := strings.Index(result, "Third")
	require.Greater(t, idxFirst, -1)
	assert.Less(t, idxFirst, idxSecond)
	assert.Less(t, idxSecond, idxThird)
}

func TestKeyValueBlockHasBorder(t *testing.T) {
	result := KeyValueBlock("Bordered", [][2]string{{"Key", "Val"}})
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func TestNewTableCreatesEmptyTable(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Hash", Width: 10}, {Title: "Amount", Width: 12}})
	assert.Len(t, tbl.Columns, 2)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, -1, tbl.SelIdx)
}

func TestTableRenderContainsHeadersAndRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Hash", Width: 10}, {Title: "Status", Width: 10}})
	tbl.AddRow(Row{"abc", "success"})
	tbl.AddRow(Row{"def", "failed"})

	result := tbl.Render()
	for _, s := range []string{"Hash", "Status", "abc", "success", "def", "failed", "----------"} {
		assert.Contains(t, result, s)
	}
}

func TestTableRenderRowShorterThanColumns(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 5}, {Title: "B", Width: 5}})
	tbl.AddRow(Row{"only1"})
	assert.Contains(t, tbl.Render(), "only1")
}

func TestTableRenderPreservesRowOrder(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Item", Width: 10}})
	tbl.AddRow(Row{"first"})
	tbl.AddRow(Row{"second"})
	result := tbl.Render()
	assert.Less(t, strings.Index(result, "first"), strings.Index(result, "second"))
}

func TestFitPadsAndCuts(t *testing.T) {
	assert.Equal(t, "ab   ", fit("ab", 5))
	assert.Equal(t, "abcde", fit("abcde", 5))
	assert.Equal(t, "abcd…", fit("abcdefgh", 5))
	assert.Equal(t, "Пер… ", fit("Пер…", 5), "width counts runes, not bytes")
	assert.Equal(t, "a", fit("abc", 1))
}

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

func TestMessageHelpersKeepText(t *testing.T) {
	assert.Contains(t, Success("done"), "done")
	assert.Contains(t, Warn("careful"), "careful")
	assert.Contains(t, Err("failed"), "failed")
	assert.Contains(t, Info("note"), "note")
	assert.Contains(t, Hint("try this"), "try this")
	assert.Contains(t, NetworkName("testnet"), "testnet")
}

func TestStatus(t *testing.T) {
	assert.Contains(t, Status(true), "success")
	assert.Contains(t, Status(false), "failed")
	assert.Equal(t, "success", StatusText(true))
	assert.Equal(t, "failed", StatusText(false))
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "EQshort", TruncateAddr("EQshort"))
	assert.Equal(t, "EQD4FP…_3kaPd", TruncateAddr("EQD4FPq-PRDieyQKkizFTRtSDyucUIqrj0v_zXJmqaDp6_3kaPd"))
}

func TestBanner(t *testing.T) {
	result := Banner("1.2.3")
	assert.Contains(t, result, "1.2.3")
	assert.Contains(t, result, "traces")
}
