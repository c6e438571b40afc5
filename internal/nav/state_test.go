package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialStateIsHome(t *testing.T) {
	s := Home()
	assert.Equal(t, ViewHome, s.View())
	_, ok := s.Customer()
	assert.False(t, ok)

	var zero State
	assert.Equal(t, s, zero)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   State
		action Action
		want   State
	}{
		{"select from home", Home(), SelectCustomer{Customer: "Acme"}, CustomerDetail("Acme")},
		{"return from detail", CustomerDetail("Acme"), ReturnHome{}, Home()},
		{"return from home is a no-op", Home(), ReturnHome{}, Home()},
		{"no detail to detail", CustomerDetail("Acme"), SelectCustomer{Customer: "Globex"}, CustomerDetail("Acme")},
		{"empty customer ignored", Home(), SelectCustomer{}, Home()},
		{"nil action", CustomerDetail("Acme"), nil, CustomerDetail("Acme")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.action))
		})
	}
}

func TestSelectedCustomer(t *testing.T) {
	s := Transition(Home(), SelectCustomer{Customer: "Acme"})
	assert.Equal(t, ViewCustomerDetail, s.View())
	name, ok := s.Customer()
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)
}

func TestCyclesIndefinitely(t *testing.T) {
	s := Home()
	for _, c := range []string{"Acme", "Globex", "Initech", "Acme"} {
		s = Transition(s, SelectCustomer{Customer: c})
		got, _ := s.Customer()
		assert.Equal(t, c, got)
		s = Transition(s, ReturnHome{})
		assert.Equal(t, Home(), s)
	}
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "home", ViewHome.String())
	assert.Equal(t, "customer-detail", ViewCustomerDetail.String())
	assert.Equal(t, "unknown", View(9).String())
}
