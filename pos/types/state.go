// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import "fmt"

// ValidatorState is the lifecycle state of a validator. The zero value means no state was recorded.
type ValidatorState uint8

const (
	// Pending validators are registered but not yet consensus eligible.
	Pending ValidatorState = iota + 1
	// Candidate validators are eligible and members of the active or inactive set.
	Candidate
	Inactive
	Jailed
)

func (s ValidatorState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Candidate:
		return "candidate"
	case Inactive:
		return "inactive"
	case Jailed:
		return "jailed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Valid reports whether s is a state that can be recorded.
func (s ValidatorState) Valid() bool {
	return s >= Pending && s <= Jailed
}
