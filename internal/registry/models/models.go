// Package models holds the registry's domain values. A University is created
// only by a successful registration and is never mutated or deleted afterward.
package models

// University is the record held by both indices. The wire shape is fixed:
// {name, account_id}, both non-empty.
type University struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
}

// AccountEntry pairs an account id with its record for full-index snapshots.
// The account id repeats the record's AccountID field; the pair shape is the
// public contract of the all-universities read.
type AccountEntry struct {
	AccountID  string     `json:"account_id"`
	University University `json:"university"`
}

// IntegrityReport is the outcome of recomputing the cross-index invariant:
// the multiset of records reachable through the name index must equal the
// multiset of records in the primary index.
type IntegrityReport struct {
	Consistent bool `json:"consistent"`

	// Accounts is the number of records in the primary index.
	Accounts int `json:"accounts"`
	// NameEntries is the total number of records across all name sequences.
	NameEntries int `json:"name_entries"`

	// MissingFromNameIndex lists account ids present in the primary index but
	// absent from their name's sequence.
	MissingFromNameIndex []string `json:"missing_from_name_index,omitempty"`
	// MissingFromPrimary lists account ids reachable through the name index
	// but absent from the primary index.
	MissingFromPrimary []string `json:"missing_from_primary,omitempty"`
}
