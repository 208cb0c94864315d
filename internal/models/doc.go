// Package models defines the core domain models for Splitmate.
//
// # Models
//
//   - Friend: a counterparty in a user's expense-sharing list, with a
//     running balance
//   - User: a registered account; the account email is the partition key
//     for that user's friend collection
//
// # Design Principles
//
// 1. **Single owner per collection**: each user owns exactly one friend
// collection, keyed by email. Friends are never shared across users.
//
// 2. **Balances are derived**: a friend's balance only ever changes by the
// signed delta of a split; there is no independent mutation path.
//
// 3. **Whole-unit integers**: all amounts are signed int64 whole currency
// units. No floating point anywhere in balance arithmetic.
package models
