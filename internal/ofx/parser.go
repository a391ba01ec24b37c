// Package ofx converts OFX/QFX bank exports into transactions for import.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML files sometimes leave a bare opening tag without its bracket.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var payeePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
}

// Entry is one statement line ready to be created as a transaction.
type Entry struct {
	FitID   string
	Account string
	Payee   string
	Data    model.CreateTransactionData
}

// Key identifies the entry across files from the same institution.
func (e Entry) Key() string {
	return e.Account + "/" + e.FitID
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile parses a statement file. Each line becomes a completed
// transaction carrying the absolute amount; zero-amount lines are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var statements int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			statements++
			entries = p.appendEntries(entries, string(stmt.BankAcctFrom.AcctID), stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			statements++
			entries = p.appendEntries(entries, string(stmt.CCAcctFrom.AcctID), stmt.BankTranList.Transactions)
		}
	}

	slog.Info("Parsed OFX file",
		"entries", len(entries),
		"statements", statements)

	return entries, nil
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(normalize(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

func (p *Parser) appendEntries(entries []Entry, account string, txns []ofxgo.Transaction) []Entry {
	for _, txn := range txns {
		amount, _ := txn.TrnAmt.Float64()
		if amount < 0 {
			amount = -amount
		}
		if amount == 0 {
			slog.Debug("Skipping zero-amount statement line", "fitid", txn.FiTID)
			continue
		}

		entries = append(entries, Entry{
			FitID:   string(txn.FiTID),
			Account: account,
			Payee:   payee(txn),
			Data: model.CreateTransactionData{
				Amount: amount,
				Status: model.StatusCompleted,
				Date:   txn.DtPosted.Time,
			},
		})
	}
	return entries
}

// Dedupe drops entries whose Key was already seen, keeping the first.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		out = append(out, e)
	}
	return out
}

// normalize fixes formatting quirks some banks emit.
func normalize(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

func payee(txn ofxgo.Transaction) string {
	if txn.Payee != nil && txn.Payee.Name != "" {
		return string(txn.Payee.Name)
	}

	name := strings.TrimSpace(string(txn.Name))
	upper := strings.ToUpper(name)
	for _, prefix := range payeePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	return name
}
