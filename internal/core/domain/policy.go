package domain

// DuplicatePolicy decides what CreateUser does when the email is already registered.
type DuplicatePolicy string

const (
	// PolicyInsert always inserts a new record.
	PolicyInsert DuplicatePolicy = "insert"
	// PolicyReturnExisting returns the stored record instead of inserting a second one.
	PolicyReturnExisting DuplicatePolicy = "return_existing"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	return p == PolicyInsert || p == PolicyReturnExisting
}
