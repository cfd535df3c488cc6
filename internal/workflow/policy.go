package workflow

// anyActive marks actions open to every authenticated role; the real
// restriction for these is the instance-level ownership guard evaluated by
// the lifecycle functions.
var anyActive = []Role{RoleUser, RoleAdmin, RoleArtist, RoleStaff, RoleOrganizer}

var policy = map[Action]map[Role]struct{}{
	ActionSetAccountStatus: roleSet(RoleAdmin),
	ActionDeleteUser:       roleSet(RoleAdmin),

	ActionCreateFestival:       roleSet(RoleAdmin, RoleOrganizer),
	ActionStartSubmission:      roleSet(RoleOrganizer),
	ActionStartAssignment:      roleSet(RoleOrganizer),
	ActionStartReview:          roleSet(RoleOrganizer),
	ActionStartScheduling:      roleSet(RoleOrganizer),
	ActionStartFinalSubmission: roleSet(RoleOrganizer),
	ActionStartDecision:        roleSet(RoleOrganizer),
	ActionAnnounce:             roleSet(RoleOrganizer),

	ActionCreatePerformance:   roleSet(anyActive...),
	ActionSubmitPerformance:   roleSet(anyActive...),
	ActionReviewPerformance:   roleSet(RoleStaff),
	ActionApprovePerformance:  roleSet(RoleOrganizer),
	ActionRejectPerformance:   roleSet(RoleOrganizer),
	ActionSchedulePerformance: roleSet(RoleOrganizer),
	ActionAssignStaff:         roleSet(RoleOrganizer),
	ActionFinalSubmit:         roleSet(anyActive...),
	ActionUpdatePerformance:   roleSet(anyActive...),
	ActionWithdrawPerformance: roleSet(anyActive...),
}

func roleSet(roles ...Role) map[Role]struct{} {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Permit reports whether the role may request the action at all. Unknown
// roles and unknown actions deny; ownership checks are separate.
func Permit(role Role, action Action) bool {
	allowed, ok := policy[action]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}
