// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validatorset

import (
	"io"
	"maps"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/thor"
)

const degree = 16

var (
	ErrDuplicateValidator  = errors.New("validator already in set")
	ErrValidatorNotFound   = errors.New("validator not in set")
	ErrVotingPowerOverflow = errors.New("total voting power overflow")
)

type member struct {
	power  types.VotingPower
	active bool
}

// Set partitions the known validators into the active set, capped in size and consensus eligible,
// and the inactive set. Both partitions are kept in ranking order.
type Set struct {
	active   *btree.BTreeG[WeightedValidator]
	inactive *btree.BTreeG[WeightedValidator]
	members  map[thor.Address]member
}

// New returns an empty set.
func New() *Set {
	return &Set{
		active:   btree.NewG(degree, rankLess),
		inactive: btree.NewG(degree, rankLess),
		members:  make(map[thor.Address]member),
	}
}

// FromValidators builds a set from a complete list of validators, keeping the maxActive
// highest ranked ones active.
func FromValidators(validators []WeightedValidator, maxActive uint64) (*Set, error) {
	s := New()
	for _, v := range validators {
		if _, ok := s.members[v.Address]; ok {
			return nil, errors.Wrapf(ErrDuplicateValidator, "address %v", v.Address)
		}
		s.put(v, true)
	}
	s.demoteExcess(maxActive)
	return s, nil
}

func (s *Set) put(v WeightedValidator, active bool) {
	if active {
		s.active.ReplaceOrInsert(v)
	} else {
		s.inactive.ReplaceOrInsert(v)
	}
	s.members[v.Address] = member{power: v.VotingPower, active: active}
}

func (s *Set) delete(v WeightedValidator, active bool) {
	if active {
		s.active.Delete(v)
	} else {
		s.inactive.Delete(v)
	}
	delete(s.members, v.Address)
}

func (s *Set) demoteExcess(maxActive uint64) {
	for uint64(s.active.Len()) > maxActive {
		weakest, _ := s.active.DeleteMax()
		s.put(weakest, false)
	}
}

// rebalance restores the set invariants after a change of membership or voting power.
func (s *Set) rebalance(maxActive uint64) {
	s.demoteExcess(maxActive)
	for uint64(s.active.Len()) < maxActive {
		strongest, ok := s.inactive.DeleteMin()
		if !ok {
			return
		}
		s.put(strongest, true)
	}
	for {
		strongest, ok := s.inactive.Min()
		if !ok {
			return
		}
		weakest, ok := s.active.Max()
		if !ok || strongest.VotingPower <= weakest.VotingPower {
			return
		}
		s.delete(strongest, false)
		s.delete(weakest, true)
		s.put(strongest, true)
		s.put(weakest, false)
	}
}

// Insert adds v as active if the active set has room or v has strictly more voting power
// than its weakest member, demoting the weakest members until the active set fits maxActive.
// Otherwise v is inactive, so a sitting member is never displaced by an equal-power newcomer.
func (s *Set) Insert(v WeightedValidator, maxActive uint64) error {
	if _, ok := s.members[v.Address]; ok {
		return errors.Wrapf(ErrDuplicateValidator, "address %v", v.Address)
	}
	active := uint64(s.active.Len()) < maxActive
	if !active {
		if weakest, ok := s.active.Max(); ok && v.VotingPower > weakest.VotingPower {
			active = true
		}
	}
	s.put(v, active)
	s.demoteExcess(maxActive)
	return nil
}

// InsertInactive adds v to the inactive set without rebalancing. It becomes active once an update
// of its voting power ranks it among the active members.
func (s *Set) InsertInactive(v WeightedValidator) error {
	if _, ok := s.members[v.Address]; ok {
		return errors.Wrapf(ErrDuplicateValidator, "address %v", v.Address)
	}
	s.put(v, false)
	return nil
}

// Remove drops addr from the set, promoting the strongest inactive member if an active slot frees up.
func (s *Set) Remove(addr thor.Address, maxActive uint64) error {
	m, ok := s.members[addr]
	if !ok {
		return errors.Wrapf(ErrValidatorNotFound, "address %v", addr)
	}
	s.delete(WeightedValidator{VotingPower: m.power, Address: addr}, m.active)
	if m.active {
		s.rebalance(maxActive)
	}
	return nil
}

// Update changes the voting power of addr and re-ranks both partitions.
func (s *Set) Update(addr thor.Address, power types.VotingPower, maxActive uint64) error {
	m, ok := s.members[addr]
	if !ok {
		return errors.Wrapf(ErrValidatorNotFound, "address %v", addr)
	}
	s.delete(WeightedValidator{VotingPower: m.power, Address: addr}, m.active)
	s.put(WeightedValidator{VotingPower: power, Address: addr}, m.active)
	s.rebalance(maxActive)
	return nil
}

// Get returns the member with the given address and whether it is active.
func (s *Set) Get(addr thor.Address) (v WeightedValidator, active bool, ok bool) {
	m, ok := s.members[addr]
	if !ok {
		return WeightedValidator{}, false, false
	}
	return WeightedValidator{VotingPower: m.power, Address: addr}, m.active, true
}

func (s *Set) Contains(addr thor.Address) bool {
	_, ok := s.members[addr]
	return ok
}

// Active returns the active members in ranking order.
func (s *Set) Active() []WeightedValidator {
	return collect(s.active)
}

// Inactive returns the inactive members in ranking order.
func (s *Set) Inactive() []WeightedValidator {
	return collect(s.inactive)
}

func collect(tree *btree.BTreeG[WeightedValidator]) []WeightedValidator {
	list := make([]WeightedValidator, 0, tree.Len())
	tree.Ascend(func(v WeightedValidator) bool {
		list = append(list, v)
		return true
	})
	return list
}

func (s *Set) Len() int {
	return len(s.members)
}

func (s *Set) ActiveLen() int {
	return s.active.Len()
}

// TotalVotingPower sums the voting power of every member, active and inactive.
func (s *Set) TotalVotingPower() (types.VotingPower, error) {
	var total uint64
	for _, m := range s.members {
		var overflow bool
		if total, overflow = math.SafeAdd(total, uint64(m.power)); overflow {
			return 0, ErrVotingPowerOverflow
		}
	}
	return types.VotingPower(total), nil
}

// Clone returns a copy of the set. The partitions are cloned lazily, copy-on-write.
func (s *Set) Clone() *Set {
	return &Set{
		active:   s.active.Clone(),
		inactive: s.inactive.Clone(),
		members:  maps.Clone(s.members),
	}
}

// Hash returns the blake2b digest of the set's rlp encoding.
func (s *Set) Hash() thor.Bytes32 {
	data, err := rlp.EncodeToBytes(s)
	if err != nil {
		panic(err) // encoding fixed-size fields does not fail
	}
	return thor.Blake2b(data)
}

// Validate checks the set invariants against maxActive.
func (s *Set) Validate(maxActive uint64) error {
	if uint64(s.active.Len()) > maxActive {
		return errors.Errorf("active set has %d members, max %d", s.active.Len(), maxActive)
	}
	if s.active.Len()+s.inactive.Len() != len(s.members) {
		return errors.New("partitions overlap or index is out of sync")
	}
	weakest, hasActive := s.active.Max()
	strongest, hasInactive := s.inactive.Min()
	if hasActive && hasInactive && strongest.VotingPower > weakest.VotingPower {
		return errors.Errorf("inactive %v has more power than active %v", strongest, weakest)
	}
	return nil
}

type setRLP struct {
	Active   []WeightedValidator
	Inactive []WeightedValidator
}

func (s *Set) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &setRLP{
		Active:   s.Active(),
		Inactive: s.Inactive(),
	})
}

func (s *Set) DecodeRLP(stream *rlp.Stream) error {
	var dec setRLP
	if err := stream.Decode(&dec); err != nil {
		return err
	}
	decoded := New()
	for i, list := range [][]WeightedValidator{dec.Active, dec.Inactive} {
		for _, v := range list {
			if decoded.Contains(v.Address) {
				return errors.Wrapf(ErrDuplicateValidator, "address %v", v.Address)
			}
			decoded.put(v, i == 0)
		}
	}
	*s = *decoded
	return nil
}
