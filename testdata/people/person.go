package people

import (
	"database/sql"

	"github.com/ioklo/Pretune/pretune"
)

// Person is a contact with change notification and structural equality.
type Person struct {
	_ pretune.AutoConstructor
	_ pretune.ImplementEquatable
	pretune.ImplementNotifyPropertyChanged

	firstName string
	lastName  string
	nickname  sql.NullString
	manager   *Person
	tags      []string
}

// FullName joins both names.
//
//pretune:dependsOn firstName lastName
func (p *Person) FullName() string { return p.firstName + " " + p.lastName }
