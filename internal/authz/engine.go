package authz

import "fmt"

const (
	RoleReader     = "Reader"
	RoleAuthor     = "Author"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
)

// Policy names the roles the rules refer to. Roles are plain data in the
// store; only these names carry meaning here.
type Policy struct {
	CreatorRoles   []string
	AdminRoles     []string
	SuperAdminRole string
}

func DefaultPolicy() Policy {
	return Policy{
		CreatorRoles:   []string{RoleAuthor, RoleAdmin, RoleSuperAdmin},
		AdminRoles:     []string{RoleAdmin, RoleSuperAdmin},
		SuperAdminRole: RoleSuperAdmin,
	}
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) Decide(req Request) Decision {
	if !req.Actor.Authenticated() {
		return deny(ReasonUnauthenticated, "authentication required")
	}

	switch req.Resource {
	case ResourceUser:
		return e.decideUser(req)
	case ResourceRole:
		return e.decideRole(req)
	case ResourceBlog:
		return e.decideBlog(req)
	case ResourceCategory:
		return e.decideCategory(req)
	case ResourceComment:
		return e.decideComment(req)
	case ResourceLike:
		return e.decideLike(req)
	case ResourceMedia:
		return e.decideMedia(req)
	case ResourceAuditLog:
		return e.decideAuditLog(req)
	}

	return e.unsupported(req)
}

func (e *Engine) decideUser(req Request) Decision {
	switch req.Action {
	case ActionRead:
		return allow()
	case ActionList:
		return e.requireAdmin(req)
	case ActionUpdate:
		if req.Target == nil {
			return notFound(req)
		}
		if req.Actor.ID == req.Target.OwnerID {
			return allow()
		}
		return deny(ReasonNotOwner, "you can only update your own account")
	case ActionDelete:
		if req.Target == nil {
			return notFound(req)
		}
		return e.decideUserDelete(req.Actor, req.Target)
	}
	return e.unsupported(req)
}

// A super admin deletes anyone. An admin deletes ordinary users but has to
// escalate for other admins. Everyone may delete themselves.
func (e *Engine) decideUserDelete(actor Actor, target *Target) Decision {
	if e.isSuperAdmin(actor) {
		return allow()
	}
	if actor.ID == target.OwnerID {
		return allow()
	}
	if e.isAdmin(actor) {
		if target.OwnerRoles.HasAny(e.policy.AdminRoles...) {
			return deny(ReasonHierarchy, "only a super admin can delete an administrator")
		}
		return allow()
	}
	return deny(ReasonNotOwner, "you can only delete your own account")
}

func (e *Engine) decideRole(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList:
		return allow()
	case ActionCreate, ActionUpdate, ActionDelete, ActionAssign, ActionRevoke:
		return e.requireAdmin(req)
	}
	return e.unsupported(req)
}

func (e *Engine) decideBlog(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList:
		return allow()
	case ActionCreate:
		if req.Actor.Roles.HasAny(e.policy.CreatorRoles...) {
			return allow()
		}
		return deny(ReasonRoleRequired, "an author role is required to create blogs")
	case ActionUpdate:
		return e.ownerOrAdmin(req, "you can only update your own blogs")
	case ActionDelete:
		if req.Target == nil {
			return notFound(req)
		}
		return e.decideBlogDelete(req.Actor, req.Target)
	}
	return e.unsupported(req)
}

// Blogs written by an administrator are protected from self-deletion. Only
// another administrator, or any super admin, may remove them.
func (e *Engine) decideBlogDelete(actor Actor, target *Target) Decision {
	if e.isSuperAdmin(actor) {
		return allow()
	}
	if actor.ID == target.OwnerID {
		if target.OwnerRoles.HasAny(e.policy.AdminRoles...) {
			return deny(ReasonHierarchy, "blogs authored by an administrator must be deleted by another administrator")
		}
		return allow()
	}
	if e.isAdmin(actor) {
		return allow()
	}
	return deny(ReasonNotOwner, "you can only delete your own blogs")
}

func (e *Engine) decideCategory(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList:
		return allow()
	case ActionCreate, ActionUpdate, ActionDelete:
		return e.requireAdmin(req)
	case ActionAttach, ActionDetach:
		return e.ownerOrAdmin(req, "you can only categorize your own blogs")
	}
	return e.unsupported(req)
}

func (e *Engine) decideComment(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList, ActionCreate:
		return allow()
	case ActionUpdate:
		return e.ownerOrAdmin(req, "you can only edit your own comments")
	case ActionDelete:
		// No administrator override for comments.
		return ownerOnly(req, "you can only delete your own comments")
	}
	return e.unsupported(req)
}

func (e *Engine) decideLike(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList, ActionCreate:
		return allow()
	case ActionDelete:
		return ownerOnly(req, "you can only remove your own likes")
	}
	return e.unsupported(req)
}

func (e *Engine) decideMedia(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList:
		return allow()
	case ActionCreate:
		return ownerOnly(req, "you can only upload media to your own blogs")
	case ActionDelete:
		return e.ownerOrAdmin(req, "you can only delete media of your own blogs")
	}
	return e.unsupported(req)
}

func (e *Engine) decideAuditLog(req Request) Decision {
	switch req.Action {
	case ActionRead, ActionList:
		return e.requireAdmin(req)
	}
	return e.unsupported(req)
}

func (e *Engine) requireAdmin(req Request) Decision {
	if e.isAdmin(req.Actor) {
		return allow()
	}
	return deny(ReasonRoleRequired, fmt.Sprintf("admin role required to %s %s", req.Action, req.Resource))
}

func (e *Engine) ownerOrAdmin(req Request, msg string) Decision {
	if req.Target == nil {
		return notFound(req)
	}
	if req.Actor.ID == req.Target.OwnerID || e.isAdmin(req.Actor) {
		return allow()
	}
	return deny(ReasonNotOwner, msg)
}

func ownerOnly(req Request, msg string) Decision {
	if req.Target == nil {
		return notFound(req)
	}
	if req.Actor.ID == req.Target.OwnerID {
		return allow()
	}
	return deny(ReasonNotOwner, msg)
}

func notFound(req Request) Decision {
	return deny(ReasonNotFound, fmt.Sprintf("%s not found", req.Resource))
}

func (e *Engine) unsupported(req Request) Decision {
	return deny(ReasonRoleRequired, fmt.Sprintf("%s is not permitted on %s", req.Action, req.Resource))
}

func (e *Engine) isAdmin(actor Actor) bool {
	return actor.Roles.HasAny(e.policy.AdminRoles...)
}

func (e *Engine) isSuperAdmin(actor Actor) bool {
	return e.policy.SuperAdminRole != "" && actor.Roles.Has(e.policy.SuperAdminRole)
}
