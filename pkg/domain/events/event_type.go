package events

// EventType represents the type of an event in the system.
type EventType string

func (t EventType) String() string { return string(t) }

// Event type constants
const (
	// Account events
	EventTypeAccountOpened  EventType = "Account.Opened"
	EventTypeAccountRenamed EventType = "Account.Renamed"
	EventTypeAccountClosed  EventType = "Account.Closed"

	// Ledger events
	EventTypeTransactionPosted EventType = "Transaction.Posted"

	// User events
	EventTypeUserRegistered EventType = "User.Registered"
	EventTypeUserDeleted    EventType = "User.Deleted"
)

// Event is implemented by every domain event.
type Event interface {
	Type() string
}

// EventTypes maps each event type to a constructor, used to decode events
// received from an external bus.
var EventTypes = map[EventType]func() Event{
	EventTypeAccountOpened:     func() Event { return &AccountOpened{} },
	EventTypeAccountRenamed:    func() Event { return &AccountRenamed{} },
	EventTypeAccountClosed:     func() Event { return &AccountClosed{} },
	EventTypeTransactionPosted: func() Event { return &TransactionPosted{} },
	EventTypeUserRegistered:    func() Event { return &UserRegistered{} },
	EventTypeUserDeleted:       func() Event { return &UserDeleted{} },
}
