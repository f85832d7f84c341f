package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// MaxCodeAttempts bounds allocation retries for both the sequential-scan
// and the random-suffix schemes.
const MaxCodeAttempts = 5

// SequenceAllocator computes the next human-readable code (IND-001, UI001,
// CORP-000001, ...) for a scope. The scan ignores codes that don't match
// the exact prefix+width pattern, so differently formatted legacy codes do
// not affect the next-number computation.
//
// Allocation and insert are not one atomic step: the compound unique index
// on (scope, code) is the correctness backstop, and callers retry with a
// freshly recomputed code when the insert hits a duplicate key.
type SequenceAllocator struct {
	db          *gorm.DB
	table       string
	codeColumn  string
	scopeColumn string
}

// NewSequenceAllocator creates an allocator over one table/scope pair
func NewSequenceAllocator(db *gorm.DB, table, codeColumn, scopeColumn string) *SequenceAllocator {
	return &SequenceAllocator{
		db:          db,
		table:       table,
		codeColumn:  codeColumn,
		scopeColumn: scopeColumn,
	}
}

// Next returns prefix + the next unused numeric suffix within the scope,
// zero-padded to width digits. The returned code is best-effort unique
// until confirmed by a successful insert.
func (a *SequenceAllocator) Next(ctx context.Context, scopeValue interface{}, prefix string, width int) (string, error) {
	pattern := fmt.Sprintf("^%s[0-9]{%d}$", regexp.QuoteMeta(prefix), width)

	var lastCode string
	err := a.db.WithContext(ctx).Table(a.table).
		Select(a.codeColumn).
		Where(a.scopeColumn+" = ? AND "+a.codeColumn+" REGEXP ?", scopeValue, pattern).
		Order(a.codeColumn + " DESC").
		Limit(1).
		Scan(&lastCode).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	next := 1
	if lastCode != "" {
		suffix := strings.TrimPrefix(lastCode, prefix)
		if n, perr := strconv.Atoi(suffix); perr == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, width, next), nil
}

// RandomCode returns prefix + n random digits from 1-9 (COR-xyz scheme)
func RandomCode(prefix string, n int) (string, error) {
	var sb strings.Builder
	sb.WriteString(prefix)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(9))
		if err != nil {
			return "", err
		}
		sb.WriteString(strconv.FormatInt(d.Int64()+1, 10))
	}
	return sb.String(), nil
}

// IsDuplicateKey reports whether err is a uniqueness violation. GORM's
// error translation covers most cases; the MySQL error code check covers
// connections opened without translation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Error 1062") ||
		strings.Contains(err.Error(), "Duplicate entry")
}
