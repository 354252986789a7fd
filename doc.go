// Package costbasis tracks the cost basis of security holdings bought over
// several purchase events, called lots.
//
// The core functionalities include:
//   - Lots: every buy opens a Lot with a fixed total cost in the reporting
//     currency, given directly or derived from a price and an exchange rate.
//   - Splits: a split multiplies the share counts of every lot acquired on or
//     before its date, leaving costs untouched.
//   - Sales: a sale consumes lots in first-in-first-out order at their current
//     average cost and records a per lot breakdown of quantity, cost, proceeds
//     and gain.
//   - Valuation: unrealized value, profit and return of the shares still held.
//   - Ledger: buys, sells and splits recorded as JSONL transactions that can
//     be replayed to rebuild a Portfolio.
//
// Amounts are exact decimals. Money and Rate carry their currencies, so a
// price in USD cannot be mistaken for a cost in EUR.
package costbasis
