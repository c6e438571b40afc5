// Package nav holds the selection state that decides which report view is
// shown. A State value belongs to one session; transitions are pure.
package nav

// View identifies which of the two screens a State renders.
type View int

const (
	ViewHome View = iota
	ViewCustomerDetail
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewCustomerDetail:
		return "customer-detail"
	default:
		return "unknown"
	}
}

// State is either Home or CustomerDetail(customer). The zero value is Home.
type State struct {
	customer string
	detail   bool
}

// Home returns the initial state.
func Home() State { return State{} }

// CustomerDetail returns the drill-down state for customer.
func CustomerDetail(customer string) State {
	return State{customer: customer, detail: true}
}

// View reports the active screen.
func (s State) View() View {
	if s.detail {
		return ViewCustomerDetail
	}
	return ViewHome
}

// Customer returns the selected customer and whether one is selected.
func (s State) Customer() (string, bool) {
	return s.customer, s.detail
}

// Action is a user action that may move the state.
type Action interface {
	apply(State) State
}

// SelectCustomer drills into one customer's invoices. It only fires from Home.
type SelectCustomer struct {
	Customer string
}

func (a SelectCustomer) apply(s State) State {
	if s.detail || a.Customer == "" {
		return s
	}
	return CustomerDetail(a.Customer)
}

// ReturnHome discards any selected customer.
type ReturnHome struct{}

func (ReturnHome) apply(State) State { return Home() }

// Transition returns the state after a. A nil action leaves s unchanged.
func Transition(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}
