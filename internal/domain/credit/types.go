package credit

// ClassTypeGroup is the coarse category credits and sessions are matched
// against. A credit only ever pays for sessions of its own group.
type ClassTypeGroup string

const (
	GroupMatFunctional ClassTypeGroup = "MAT_FUNCTIONAL"
	GroupReformer      ClassTypeGroup = "REFORMER"
)

func (g ClassTypeGroup) IsValid() bool {
	switch g {
	case GroupMatFunctional, GroupReformer:
		return true
	default:
		return false
	}
}

func (g ClassTypeGroup) String() string {
	return string(g)
}

// Kind determines the credit's validity window: fixed-expiry credits (single
// class purchases, admin grants) die on expires_at; monthly credits are only
// spendable within the calendar month of their reset anchor.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindMonthly Kind = "monthly"
)

func (k Kind) IsValid() bool {
	return k == KindFixed || k == KindMonthly
}

type Status string

const (
	StatusActive    Status = "active"
	StatusDepleted  Status = "depleted"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDepleted, StatusExpired, StatusSuspended:
		return true
	default:
		return false
	}
}
