package workflow

// Action names a single workflow operation. Actions, not HTTP routes, are
// the unit the access policy and the state machines reason about.
type Action string

const (
	// User actions.
	ActionSetAccountStatus Action = "set_account_status"
	ActionDeleteUser       Action = "delete_user"

	// Festival actions.
	ActionCreateFestival       Action = "create_festival"
	ActionStartSubmission      Action = "start_submission"
	ActionStartAssignment      Action = "start_assignment"
	ActionStartReview          Action = "start_review"
	ActionStartScheduling      Action = "start_scheduling"
	ActionStartFinalSubmission Action = "start_final_submission"
	ActionStartDecision        Action = "start_decision"
	ActionAnnounce             Action = "announce"

	// Performance actions.
	ActionCreatePerformance   Action = "create_performance"
	ActionSubmitPerformance   Action = "submit_performance"
	ActionReviewPerformance   Action = "review_performance"
	ActionApprovePerformance  Action = "approve_performance"
	ActionRejectPerformance   Action = "reject_performance"
	ActionSchedulePerformance Action = "schedule_performance"
	ActionFinalSubmit         Action = "final_submit_performance"
	ActionAssignStaff         Action = "assign_staff"
	ActionUpdatePerformance   Action = "update_performance"
	ActionWithdrawPerformance Action = "withdraw_performance"
)

func (a Action) String() string { return string(a) }
