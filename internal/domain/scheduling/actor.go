package scheduling

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

type Role string

const (
	RoleAdmin        Role = "admin"
	RolePractitioner Role = "practitioner"
	RolePatient      Role = "patient"
)

// Actor is the caller identity handed over by the auth layer.
type Actor struct {
	UserID uint
	Role   Role
}

// SystemActor drives timer-initiated changes such as no-show marking.
var SystemActor = Actor{UserID: 0, Role: RoleAdmin}

type Relation int

const (
	RelationNone Relation = iota
	RelationPatient
	RelationPractitioner
	RelationAdmin
)

// RelationTo resolves how the actor relates to a patient/practitioner pair.
// Either side may be nil when it is not relevant.
func (a Actor) RelationTo(patient *models.Patient, practitioner *models.Practitioner) Relation {
	switch a.Role {
	case RoleAdmin:
		return RelationAdmin
	case RolePractitioner:
		if practitioner != nil && practitioner.UserID == a.UserID {
			return RelationPractitioner
		}
	case RolePatient:
		if patient != nil && patient.UserID == a.UserID {
			return RelationPatient
		}
	}
	return RelationNone
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
