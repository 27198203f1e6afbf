package model

import "fmt"

// OwnerType is the discriminator stored in the *_type column of a
// polymorphic association (attachable, commentable, boardable).
type OwnerType string

const (
	OwnerProject OwnerType = "Project"
	OwnerTask    OwnerType = "Task"
	OwnerComment OwnerType = "Comment"
	OwnerUser    OwnerType = "User"
)

func (t OwnerType) Valid() bool {
	switch t {
	case OwnerProject, OwnerTask, OwnerComment, OwnerUser:
		return true
	}
	return false
}

// Owner identifies the row a polymorphic child hangs off. There is no
// foreign key behind it, existence is checked by the services.
type Owner struct {
	Type OwnerType
	ID   uint
}

func ProjectOwner(id uint) Owner { return Owner{Type: OwnerProject, ID: id} }
func TaskOwner(id uint) Owner    { return Owner{Type: OwnerTask, ID: id} }
func CommentOwner(id uint) Owner { return Owner{Type: OwnerComment, ID: id} }
func UserOwner(id uint) Owner    { return Owner{Type: OwnerUser, ID: id} }

func (o Owner) String() string {
	return fmt.Sprintf("%s#%d", o.Type, o.ID)
}
