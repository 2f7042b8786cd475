// Package models defines the core domain records for SplitLedger.
//
// # Models
//
//   - User: registered account, identified by a UUID and a unique email
//   - Group: a set of members sharing costs, owned by its creator
//   - Expense: a financial activity record with a set of splits and a
//     one-way soft-delete transition
//   - Split: one member's exact share of an expense
//   - Settlement: a direct payment between two members
//
// # Design principles
//
//  1. Monetary amounts are shopspring decimals with at most two fractional
//     digits, never float64. Split sums and balances are compared with
//     exact equality.
//  2. Records are immutable once validated. Editing an expense is modeled
//     as re-creating its amount and split set, revalidated from scratch.
//  3. Soft-deleted expenses are retained but excluded from every aggregate.
//  4. Relationships use ID strings instead of pointers to avoid circular
//     references.
package models
