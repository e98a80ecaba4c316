// pkg/model/status.go
package model

// StatusClass is the classified state of a part within one project plant.
type StatusClass string

const (
	// StatusActive marks a part currently included in the project plant.
	StatusActive StatusClass = "active"
	// StatusDiscontinued marks a part deleted from the project plant.
	StatusDiscontinued StatusClass = "discontinued"
	// StatusNotInProject marks a part absent from the project plant.
	StatusNotInProject StatusClass = "not_in_project"
)

// String returns the persisted representation of the class.
func (s StatusClass) String() string {
	return string(s)
}
