package mealsync

import "calsnap/internal/models"

type mutationState int

const (
	statePending mutationState = iota
	stateConfirmed
	stateRolledBack
)

func (s mutationState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateConfirmed:
		return "confirmed"
	case stateRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

type pendingMeal struct {
	placeholder models.Meal
	state       mutationState
	realID      string
}

// pendingTable tracks optimistic inserts by temp id. Transitions only go
// Pending -> Confirmed or Pending -> RolledBack. Callers hold the tracker lock.
type pendingTable map[string]*pendingMeal

func (p pendingTable) begin(placeholder models.Meal) {
	p[placeholder.ID] = &pendingMeal{placeholder: placeholder, state: statePending}
}

func (p pendingTable) confirm(tempID, realID string) bool {
	entry, ok := p[tempID]
	if !ok || entry.state != statePending {
		return false
	}
	entry.state = stateConfirmed
	entry.realID = realID
	return true
}

func (p pendingTable) rollback(tempID string) bool {
	entry, ok := p[tempID]
	if !ok || entry.state != statePending {
		return false
	}
	entry.state = stateRolledBack
	return true
}

func (p pendingTable) forget(tempID string) {
	delete(p, tempID)
}

func (p pendingTable) state(tempID string) (mutationState, bool) {
	entry, ok := p[tempID]
	if !ok {
		return 0, false
	}
	return entry.state, true
}

// outstanding returns placeholders still waiting on the store, newest first.
func (p pendingTable) outstanding() []models.Meal {
	var meals []models.Meal
	for _, entry := range p {
		if entry.state == statePending {
			meals = append(meals, entry.placeholder)
		}
	}
	sortNewestFirst(meals)
	return meals
}
