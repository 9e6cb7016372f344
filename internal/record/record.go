// Package record implements the CRUD service over the stored contact
// collection, plus CSV export, sample-data generation, and the dashboard
// statistics. Every mutating call writes an audit entry and publishes a
// change notification.
package record

// SentinelNA fills optional fields omitted at creation.
const SentinelNA = "N/A"

// Record is a stored contact entity. ID and CreatedAt are assigned at
// creation and never change afterwards.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt int64  `json:"createdAt"` // Unix milliseconds
}

// Fields carries the caller-supplied attributes for Create. Name and Email
// are required; Phone and Address default to SentinelNA when empty.
type Fields struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Partial carries an update. Nil pointers leave the corresponding field
// unchanged; ID and CreatedAt can never be overwritten.
type Partial struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Empty reports whether the partial carries no fields at all.
func (p Partial) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}

func (p Partial) apply(r *Record) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
}

// Stats summarizes the dashboard figures.
type Stats struct {
	TotalRecords int
	NewToday     int
	// DeletedCount is a simulated figure drawn per read; deleted records
	// are removed outright so no real aggregate exists to report.
	DeletedCount int
	LastAdded    []Record
}
