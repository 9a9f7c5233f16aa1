package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/models"
)

func TestProjectService_CreateProject(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestProjectService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com")

	project, err := svc.CreateProject(CreateProjectInput{
		Name:        "Website",
		Description: "Marketing site rebuild",
		OwnerID:     alice.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, project.ID)
	require.Equal(t, alice.ID, project.OwnerID)

	_, err = svc.CreateProject(CreateProjectInput{Name: "   ", OwnerID: alice.ID})
	require.ErrorIs(t, err, ErrInvalidProjectName)
}

func TestProjectService_Dashboard(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestProjectService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	mine, err := svc.CreateProject(CreateProjectInput{Name: "Mine", OwnerID: alice.ID})
	require.NoError(t, err)
	theirs, err := svc.CreateProject(CreateProjectInput{Name: "Theirs", OwnerID: bob.ID})
	require.NoError(t, err)
	require.NoError(t, svc.ShareProject(theirs.ID, bob.ID, "alice"))

	owned, shared, err := svc.Dashboard(alice.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, mine.ID, owned[0].ID)
	require.Len(t, shared, 1)
	require.Equal(t, theirs.ID, shared[0].ID)

	// An owned project never shows up in the shared list.
	owned, shared, err = svc.Dashboard(bob.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Empty(t, shared)
}

func TestProjectService_ShareProject(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestProjectService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	createTestUser(t, db, "bob", "bob@example.com")
	carol := createTestUser(t, db, "carol", "carol@example.com")

	project, err := svc.CreateProject(CreateProjectInput{Name: "Website", OwnerID: alice.ID})
	require.NoError(t, err)

	require.NoError(t, svc.ShareProject(project.ID, alice.ID, "bob"))

	// Only the owner may share, shared users included.
	err = svc.ShareProject(project.ID, carol.ID, "carol")
	require.ErrorIs(t, err, ErrNotProjectOwner)
	bobUser, err := svc.userRepo.FindByUsername("bob")
	require.NoError(t, err)
	err = svc.ShareProject(project.ID, bobUser.ID, "carol")
	require.ErrorIs(t, err, ErrNotProjectOwner)

	err = svc.ShareProject(project.ID, alice.ID, "alice")
	require.ErrorIs(t, err, ErrShareWithOwner)

	err = svc.ShareProject(project.ID, alice.ID, "nobody")
	require.ErrorIs(t, err, ErrShareUserNotFound)
}

func TestProjectService_ShareProject_AlreadyShared(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestProjectService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	createTestUser(t, db, "bob", "bob@example.com")

	project, err := svc.CreateProject(CreateProjectInput{Name: "Website", OwnerID: alice.ID})
	require.NoError(t, err)

	require.NoError(t, svc.ShareProject(project.ID, alice.ID, "bob"))

	err = svc.ShareProject(project.ID, alice.ID, "bob")
	require.ErrorIs(t, err, ErrAlreadyShared)

	var count int64
	require.NoError(t, db.Model(&models.ProjectShare{}).
		Where("project_id = ?", project.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProjectService_GetProjectWithShares(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestProjectService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	carol := createTestUser(t, db, "carol", "carol@example.com")

	project, err := svc.CreateProject(CreateProjectInput{Name: "Website", OwnerID: alice.ID})
	require.NoError(t, err)
	require.NoError(t, svc.ShareProject(project.ID, alice.ID, "bob"))

	_, shares, err := svc.GetProjectWithShares(project.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	require.Equal(t, "bob", shares[0].User.Username)

	_, _, err = svc.GetProjectWithShares(project.ID, bob.ID)
	require.NoError(t, err)

	_, _, err = svc.GetProjectWithShares(project.ID, carol.ID)
	require.ErrorIs(t, err, ErrNoProjectAccess)

	_, _, err = svc.GetProjectWithShares(9999, alice.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_Participants(t *testing.T) {
	db := openServiceDB(t)
	svc := newTestProjectService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	createTestUser(t, db, "bob", "bob@example.com")

	project, err := svc.CreateProject(CreateProjectInput{Name: "Website", OwnerID: alice.ID})
	require.NoError(t, err)
	require.NoError(t, svc.ShareProject(project.ID, alice.ID, "bob"))

	participants, err := svc.Participants(project)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	require.Equal(t, "alice", participants[0].Username, "owner comes first")
	require.Equal(t, "bob", participants[1].Username)
}
