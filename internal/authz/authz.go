// Package authz decides whether an actor may perform an action on a resource.
// It holds no state beyond the role policy and performs no I/O: callers load
// the actor's roles and the target's ownership facts before asking.
package authz

import "sort"

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAssign Action = "assign"
	ActionRevoke Action = "revoke"
	ActionAttach Action = "attach"
	ActionDetach Action = "detach"
)

type Resource string

const (
	ResourceUser     Resource = "user"
	ResourceRole     Resource = "role"
	ResourceBlog     Resource = "blog"
	ResourceCategory Resource = "category"
	ResourceComment  Resource = "comment"
	ResourceLike     Resource = "like"
	ResourceMedia    Resource = "media"
	ResourceAuditLog Resource = "audit_log"
)

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNotFound        Reason = "not_found"
	ReasonNotOwner        Reason = "forbidden_not_owner"
	ReasonRoleRequired    Reason = "forbidden_role_required"
	ReasonHierarchy       Reason = "forbidden_hierarchy"
	ReasonUnauthenticated Reason = "unauthenticated"
)

// RoleSet is an immutable set of role names.
type RoleSet struct {
	names map[string]struct{}
}

func NewRoleSet(names ...string) RoleSet {
	set := RoleSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.names[name] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s RoleSet) HasAny(names ...string) bool {
	for _, name := range names {
		if s.Has(name) {
			return true
		}
	}
	return false
}

func (s RoleSet) Len() int {
	return len(s.names)
}

// Names returns the role names in lexical order.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Actor struct {
	ID    int64
	Roles RoleSet
}

// Anonymous is the actor of a request without a verified identity.
var Anonymous = Actor{}

func (a Actor) Authenticated() bool {
	return a.ID > 0
}

// Target carries the ownership facts of the entity being acted on. For
// categories attach/detach and media, the owner is the owner of the blog.
type Target struct {
	OwnerID    int64
	OwnerRoles RoleSet
}

type Request struct {
	Actor    Actor
	Action   Action
	Resource Resource
	Target   *Target
}

type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason, msg string) Decision {
	return Decision{Reason: reason, Message: msg}
}
