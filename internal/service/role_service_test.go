package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
)

func TestRoleAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	admin := env.register(t, "root", authz.RoleAdmin)

	_, err := env.roles.Assign(ctx, john, domain.RoleAssignmentInput{UserID: john.ID, RoleName: authz.RoleAdmin})
	assertForbidden(t, err, string(authz.ReasonRoleRequired))

	user, err := env.roles.Assign(ctx, admin, domain.RoleAssignmentInput{UserID: john.ID, RoleName: authz.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, user.HasRole(authz.RoleAdmin))

	_, err = env.roles.Assign(ctx, admin, domain.RoleAssignmentInput{UserID: john.ID, RoleName: authz.RoleAdmin})
	assertKind(t, err, domain.KindConflict)

	// has_role agrees with the association rows and the pair exists once.
	require.NoError(t, env.store.WithinTx(ctx, func(tx domain.Tx) error {
		roles, err := tx.Roles().ListByUser(ctx, john.ID)
		require.NoError(t, err)
		admins := 0
		for _, r := range roles {
			if r.Name == authz.RoleAdmin {
				admins++
			}
		}
		assert.Equal(t, 1, admins)
		return nil
	}))

	_, err = env.roles.Assign(ctx, admin, domain.RoleAssignmentInput{UserID: john.ID, RoleName: "Wizard"})
	assertKind(t, err, domain.KindNotFound)

	_, err = env.roles.Assign(ctx, admin, domain.RoleAssignmentInput{UserID: 9999, RoleName: authz.RoleAdmin})
	assertKind(t, err, domain.KindNotFound)

	user, err = env.roles.Revoke(ctx, admin, domain.RoleAssignmentInput{UserID: john.ID, RoleName: authz.RoleAdmin})
	require.NoError(t, err)
	assert.False(t, user.HasRole(authz.RoleAdmin))

	_, err = env.roles.Revoke(ctx, admin, domain.RoleAssignmentInput{UserID: john.ID, RoleName: authz.RoleAdmin})
	assertKind(t, err, domain.KindNotFound)
}

func TestRoleManagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	admin := env.register(t, "root", authz.RoleAdmin)

	roles, err := env.roles.List(ctx, john)
	require.NoError(t, err)
	assert.Len(t, roles, len(domain.BootstrapRoles))

	_, err = env.roles.Create(ctx, john, domain.RoleInput{Name: "Editor"})
	assertForbidden(t, err, string(authz.ReasonRoleRequired))

	editor, err := env.roles.Create(ctx, admin, domain.RoleInput{Name: "Editor"})
	require.NoError(t, err)

	_, err = env.roles.Create(ctx, admin, domain.RoleInput{Name: "Editor"})
	assertKind(t, err, domain.KindConflict)

	_, err = env.roles.Update(ctx, admin, editor.ID, domain.RoleInput{Name: authz.RoleAdmin})
	assertKind(t, err, domain.KindConflict)

	renamed, err := env.roles.Update(ctx, admin, editor.ID, domain.RoleInput{Name: "Editor"})
	require.NoError(t, err)
	assert.Equal(t, "Editor", renamed.Name)

	_, err = env.roles.Update(ctx, admin, 9999, domain.RoleInput{Name: "Ghost"})
	assertKind(t, err, domain.KindNotFound)

	require.NoError(t, env.roles.Delete(ctx, admin, editor.ID))
	err = env.roles.Delete(ctx, admin, editor.ID)
	assertKind(t, err, domain.KindNotFound)
}
