// Package authz holds the pure authorization predicates for projects and
// their tasks. A ProjectACL is a snapshot of who owns a project and who it
// is shared with; predicates never touch storage.
package authz

import "github.com/yukikurage/project-tracker/internal/models"

// ProjectACL answers permission questions for one project.
type ProjectACL struct {
	ownerID uint64
	shared  map[uint64]struct{}
}

// NewProjectACL builds an ACL from an owner and the IDs in the project's
// share set.
func NewProjectACL(ownerID uint64, sharedUserIDs []uint64) ProjectACL {
	shared := make(map[uint64]struct{}, len(sharedUserIDs))
	for _, id := range sharedUserIDs {
		shared[id] = struct{}{}
	}
	return ProjectACL{ownerID: ownerID, shared: shared}
}

// ACLForProject builds an ACL from a project and its loaded shares.
func ACLForProject(project *models.Project, shares []models.ProjectShare) ProjectACL {
	ids := make([]uint64, len(shares))
	for i, s := range shares {
		ids[i] = s.UserID
	}
	return NewProjectACL(project.OwnerID, ids)
}

// OwnerID returns the project owner's user ID.
func (a ProjectACL) OwnerID() uint64 {
	return a.ownerID
}

// IsShared reports whether the project is shared with userID.
func (a ProjectACL) IsShared(userID uint64) bool {
	_, ok := a.shared[userID]
	return ok
}

// CanView reports whether userID may view the project: owner or shared user.
func (a ProjectACL) CanView(userID uint64) bool {
	return userID == a.ownerID || a.IsShared(userID)
}

// CanShare reports whether userID may manage the project's sharing.
// Owner only.
func (a ProjectACL) CanShare(userID uint64) bool {
	return userID == a.ownerID
}

// CanCreateTask reports whether userID may create tasks in the project.
// Same rule as viewing.
func (a ProjectACL) CanCreateTask(userID uint64) bool {
	return a.CanView(userID)
}

// CanAssign reports whether candidateID is a valid assignee: assignment is
// restricted to project participants regardless of who creates the task.
func (a ProjectACL) CanAssign(candidateID uint64) bool {
	return candidateID == a.ownerID || a.IsShared(candidateID)
}

// CanModifyTask reports whether userID may edit, delete, or change the
// status of the project's tasks. Shared users have create-only rights.
func (a ProjectACL) CanModifyTask(userID uint64) bool {
	return userID == a.ownerID
}
