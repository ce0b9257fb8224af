package match

// Role is the party driving a transition.
type Role string

const (
	RoleApplicant Role = "applicant"
	RolePartner   Role = "partner"
	RoleHost      Role = "host"
	// RoleEngine covers writes the engine makes on a record's behalf: eligibility
	// rejection, merges, proposal markers and fan-out closure.
	RoleEngine Role = "engine"
)

// created is the pre-state of a record that does not exist yet.
const created ApplicationStatus = ""

type edge struct {
	from, to ApplicationStatus
}

var transitions = map[edge][]Role{
	{created, StatusPending}:                                     {RoleApplicant},
	{created, StatusPendingPartnerApproval}:                      {RoleApplicant},
	{created, StatusLookingForPartner}:                           {RoleApplicant},
	{created, StatusRejected}:                                    {RoleEngine},
	{StatusPendingPartnerApproval, StatusPending}:                {RolePartner},
	{StatusPendingPartnerApproval, StatusPendingPartnerApproval}: {RolePartner, RoleApplicant},
	{StatusPendingPartnerApproval, StatusClosed}:                 {RoleApplicant, RoleEngine},
	{StatusLookingForPartner, StatusPending}:                     {RoleEngine},
	{StatusLookingForPartner, StatusLookingForPartner}:           {RoleEngine},
	{StatusLookingForPartner, StatusClosed}:                      {RoleApplicant, RoleEngine},
	{StatusPending, StatusApproved}:                              {RoleHost},
	{StatusPending, StatusRejected}:                              {RoleHost},
	{StatusPending, StatusClosed}:                                {RoleApplicant, RoleEngine},
	{StatusApproved, StatusClosed}:                               {RoleHost, RoleEngine},
}

// CanTransition reports whether role may move a record from one status to another.
func CanTransition(role Role, from, to ApplicationStatus) bool {
	for _, r := range transitions[edge{from, to}] {
		if r == role {
			return true
		}
	}
	return false
}

// Apply validates and performs one transition in place. A record that is
// already terminal, or whose stored status differs from expected, is left
// untouched and a no-op reason is returned. A role that may not drive the
// edge is ErrNotPermitted.
func Apply(app *Application, role Role, expected ApplicationStatus, next State) (bool, Reason, error) {
	if app.Status.Terminal() {
		return false, ReasonAlreadyTerminal, nil
	}
	if app.Status != expected {
		return false, ReasonStaleState, nil
	}
	if _, ok := transitions[edge{app.Status, next.Status()}]; !ok {
		return false, ReasonIllegalTransition, nil
	}
	if !CanTransition(role, app.Status, next.Status()) {
		return false, "", ErrNotPermitted
	}
	if app.Status != created {
		if _, err := app.State(); err != nil {
			return false, "", err
		}
	}
	app.setState(next)
	if err := app.Validate(); err != nil {
		return false, "", err
	}
	return true, "", nil
}
