package store

import (
	"time"

	"github.com/finvoy/spendsheet/internal/domain/project"
	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/domain/session"
)

// Resource names one record collection.
type Resource string

const (
	ResourceExpenses    Resource = "expenses"
	ResourceLiabilities Resource = "liabilities"
)

// CollectionState is the cached view of one collection. Records are replaced
// wholesale on every fetch; nothing patches them in place.
type CollectionState struct {
	Records     []record.Record
	Selected    *record.Record
	Loading     bool
	Err         string
	LastUpdated time.Time
}

// State is one consistent snapshot of everything the UI reads. Slices and
// pointers inside a snapshot are treated as immutable by all readers.
type State struct {
	Identity         session.Identity
	Projects         []project.Project
	CurrentProject   *project.Project
	Templates        []project.Template
	ProjectsLoading  bool
	TemplatesLoading bool
	ProjectsErr      string
	Expenses         CollectionState
	Liabilities      CollectionState
}

// Collection returns the state of the named collection.
func (s State) Collection(res Resource) CollectionState {
	if res == ResourceLiabilities {
		return s.Liabilities
	}
	return s.Expenses
}
