package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/evadfa/evacrypto"
	"github.com/evadfa/evacrypto/campaign"
)

func renderRoundKeys(out io.Writer, c evacrypto.Cipher) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(c.Name())
	t.AppendHeader(table.Row{"Round", "Key"})
	for r, rk := range c.RoundKeys() {
		t.AppendRow(table.Row{r, hex.EncodeToString(rk.Bytes())})
	}
	t.Render()
}

// renderStatistics prints the values never observed at each position of
// the raw ciphertexts.
func renderStatistics(out io.Writer, c evacrypto.Cipher, res *campaign.Result) {
	h := res.Histogram

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("%s, %d blocks", c.Name(), res.Blocks))
	t.AppendHeader(table.Row{"Position", "Missing"})
	for pos := 0; pos < evacrypto.BlockSize; pos++ {
		t.AppendRow(table.Row{pos, hexList(h.Missing(pos))})
	}
	t.Render()
}

// renderRecovery prints the values never observed at each position of
// the peeled ciphertexts, the equivalent key candidates they leave and,
// when they are unique, the last round key.
func renderRecovery(out io.Writer, c evacrypto.Cipher, res *campaign.Result, cands [evacrypto.BlockSize][]byte, rk evacrypto.Matrix, ok bool) {
	h := res.Histogram

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("%s, %d blocks", c.Name(), res.Blocks))
	t.AppendHeader(table.Row{"Position", "Missing", "Key candidates"})
	for pos := range cands {
		t.AppendRow(table.Row{pos, hexList(h.Missing(pos)), hexList(cands[pos])})
	}
	t.AppendFooter(table.Row{"", "Residual entropy", fmt.Sprintf("%.2f bits", h.ResidualEntropy())})
	if ok {
		t.AppendFooter(table.Row{"", "Last round key", hex.EncodeToString(rk.Bytes())})
	}
	t.Render()
}

func hexList(b []byte) string {
	if len(b) == 0 {
		return "-"
	}
	s := make([]string, 0, len(b))
	for _, v := range b {
		s = append(s, fmt.Sprintf("%02x", v))
	}
	return strings.Join(s, " ")
}
