package auth

// Op names an authorized operation. Each op has exactly one rule in the policy
// table; authorization is a single table lookup instead of per-handler role
// conditionals, so the whole access matrix is auditable in one place.
type Op string

const (
	OpBookAdd         Op = "book:add"
	OpRequestCreate   Op = "request:create"
	OpRequestList     Op = "request:list"
	OpRequestResolve  Op = "request:resolve"
	OpLoanList        Op = "loan:list"
	OpLoanIssue       Op = "loan:issue"
	OpLoanReturn      Op = "loan:return"
	OpMyBooks         Op = "loan:my-books"
	OpLoanCounts      Op = "loan:counts"
	OpPaymentList     Op = "payment:list"
	OpPaymentCreate   Op = "payment:create"
	OpPaymentByMember Op = "payment:by-member"
	OpFinesView       Op = "fine:view"
	OpDashboard       Op = "admin:dashboard"
	OpUserList        Op = "user:list"
	OpUserCreate      Op = "user:create"
	OpUserDelete      Op = "user:delete"
)

type rule struct {
	roles []Role
	// owner permits the operation when the principal is the owning member,
	// regardless of role.
	owner bool
}

var anyAuthenticated = []Role{RoleAdmin, RoleLibrarian, RoleMember}

var policy = map[Op]rule{
	OpBookAdd:         {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpRequestCreate:   {roles: []Role{RoleMember}},
	OpRequestList:     {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpRequestResolve:  {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpLoanList:        {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpLoanIssue:       {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpLoanReturn:      {roles: anyAuthenticated},
	OpMyBooks:         {roles: []Role{RoleMember}},
	OpLoanCounts:      {roles: anyAuthenticated},
	OpPaymentList:     {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpPaymentCreate:   {roles: []Role{RoleAdmin, RoleLibrarian}, owner: true},
	OpPaymentByMember: {roles: []Role{RoleAdmin, RoleLibrarian}, owner: true},
	OpFinesView:       {roles: []Role{RoleAdmin, RoleLibrarian}, owner: true},
	OpDashboard:       {roles: []Role{RoleAdmin}},
	OpUserList:        {roles: []Role{RoleAdmin, RoleLibrarian}},
	OpUserCreate:      {roles: []Role{RoleAdmin}},
	OpUserDelete:      {roles: []Role{RoleAdmin}},
}

// Allowed reports whether the principal's role may perform op.
func Allowed(op Op, p Principal) bool {
	r, ok := policy[op]
	if !ok {
		return false
	}
	for _, role := range r.roles {
		if role == p.Role {
			return true
		}
	}
	return false
}

// AllowedFor is Allowed extended with the ownership predicate: ops marked as
// owner-accessible also pass when the principal is the owning member.
func AllowedFor(op Op, p Principal, ownerID int) bool {
	if Allowed(op, p) {
		return true
	}
	r, ok := policy[op]
	return ok && r.owner && p.UserID == ownerID
}
