// Package models defines the core domain models for BadSession.
//
// # Models
//
//   - User: a club member account (Admin, Player or Guest role)
//   - Session: a scheduled badminton session at a location
//   - Attendance: a check-in of a player or a vouched-for guest
//   - Donation: money received (income, guest fees, monthly dues)
//   - Expense: money spent by the club
//   - FinanceSettings: the singleton rates row
//   - Match, MatchPlayer: team-based match scorekeeping within a session
//
// # Design Principles
//
//  1. **Integer IDs**: rows are keyed by SQLite rowids, so references are int64
//  2. **Unix timestamps**: every point in time is stored as Unix seconds
//  3. **Nullable columns are pointers**: a nil pointer marshals to JSON null
//  4. **Derived fields are read-only**: names and counts resolved by joins are
//     never written back
package models
