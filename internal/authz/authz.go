// Package authz holds the single role policy for every protected API operation.
// Allow-lists are attached to operations, not to entities: the same member record
// is reachable through operations with different lists.
package authz

import (
	"gymdesk/gym-app/internal/domain"
)

// Operation names one protected action of the API.
type Operation string

const (
	OpViewProfile   Operation = "user.profile.view"
	OpUpdateProfile Operation = "user.profile.update"
	OpAvatarUpload  Operation = "user.avatar.upload"
	OpLogout        Operation = "auth.logout"

	OpListMembers          Operation = "members.list"
	OpCreateMember         Operation = "members.create"
	OpViewOwnMember        Operation = "members.me"
	OpViewMember           Operation = "members.view"
	OpListMembersByTrainer Operation = "members.byTrainer"
	OpUpdateMember         Operation = "members.update"
	OpDeleteMember         Operation = "members.delete"
	OpAssignTrainer        Operation = "members.assignTrainer"
	OpAssignPlan           Operation = "members.assignPlan"
	OpBulkAssignTrainer    Operation = "assignments.trainer"
	OpBulkAssignPlan       Operation = "assignments.plan"

	OpListTrainers        Operation = "trainers.list"
	OpCreateTrainer       Operation = "trainers.create"
	OpViewOwnTrainer      Operation = "trainers.me"
	OpViewTrainer         Operation = "trainers.view"
	OpListOwnMembers      Operation = "trainers.members"
	OpUpdateAvailability  Operation = "trainers.availability"
	OpDeleteTrainer       Operation = "trainers.delete"
	OpAssignMemberTrainer Operation = "trainers.assignMember"

	OpListPlans          Operation = "plans.list"
	OpViewPlan           Operation = "plans.view"
	OpViewOwnPlan        Operation = "plans.me"
	OpManagePlans        Operation = "plans.manage"
	OpAssignPlanToMember Operation = "plans.assign"
	OpListPlanMembers    Operation = "plans.members"
	OpAssignMemberPlan   Operation = "plans.assignMember"

	OpCreateSchedule      Operation = "schedules.create"
	OpListSchedules       Operation = "schedules.list"
	OpListOwnSchedules    Operation = "schedules.me"
	OpListTrainerSchedule Operation = "schedules.trainer"
	OpDeleteSchedule      Operation = "schedules.delete"

	OpMarkAttendance Operation = "attendance.mark"
	OpListAttendance Operation = "attendance.list"

	OpCalculateBMI Operation = "bmi.calculate"
	OpViewBMI      Operation = "bmi.view"
)

var (
	admin   = domain.RoleAdmin
	trainer = domain.RoleTrainer
	member  = domain.RoleMember
	anyRole = []domain.Role{admin, trainer, member}
)

var policy = map[Operation][]domain.Role{
	OpViewProfile:   anyRole,
	OpUpdateProfile: anyRole,
	OpAvatarUpload:  anyRole,
	OpLogout:        anyRole,

	OpListMembers:          {admin},
	OpCreateMember:         {admin},
	OpViewOwnMember:        {member},
	OpViewMember:           {admin, trainer, member},
	OpListMembersByTrainer: {admin, trainer},
	OpUpdateMember:         {admin},
	OpDeleteMember:         {admin},
	OpAssignTrainer:        {admin},
	OpAssignPlan:           {admin},
	OpBulkAssignTrainer:    {admin},
	OpBulkAssignPlan:       {admin},

	OpListTrainers:        {admin, member},
	OpCreateTrainer:       {admin},
	OpViewOwnTrainer:      {trainer},
	OpViewTrainer:         {admin, trainer, member},
	OpListOwnMembers:      {trainer},
	OpUpdateAvailability:  {trainer, admin},
	OpDeleteTrainer:       {admin},
	OpAssignMemberTrainer: {admin},

	OpListPlans:          {admin, trainer},
	OpViewPlan:           {admin, trainer, member},
	OpViewOwnPlan:        {member},
	OpManagePlans:        {admin, trainer},
	OpAssignPlanToMember: {admin, trainer},
	OpListPlanMembers:    {admin, trainer},
	OpAssignMemberPlan:   {admin},

	OpCreateSchedule:      {admin, trainer, member},
	OpListSchedules:       {admin, trainer},
	OpListOwnSchedules:    {member},
	OpListTrainerSchedule: {trainer},
	OpDeleteSchedule:      {admin, trainer, member},

	OpMarkAttendance: {member},
	OpListAttendance: {admin, trainer},

	OpCalculateBMI: {member},
	OpViewBMI:      {admin, trainer, member},
}

// Allowed reports whether role may perform op. Unknown operations and unknown
// roles are never allowed.
func Allowed(op Operation, role domain.Role) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Roles returns a copy of the allow-list for op (nil for unknown operations).
func Roles(op Operation) []domain.Role {
	roles, ok := policy[op]
	if !ok {
		return nil
	}
	return append([]domain.Role(nil), roles...)
}

// Operations lists every operation in the policy table.
func Operations() []Operation {
	ops := make([]Operation, 0, len(policy))
	for op := range policy {
		ops = append(ops, op)
	}
	return ops
}
