package domain

// Action is a named operation gated by role.
type Action string

const (
	ActionViewInventory   Action = "view_inventory"
	ActionAddItem         Action = "add_item"
	ActionUpdateItem      Action = "update_item"
	ActionDeleteItem      Action = "delete_item"
	ActionAdjustStock     Action = "adjust_stock"
	ActionRecordWaste     Action = "record_waste"
	ActionViewActivity    Action = "view_activity"
	ActionViewAuditTrail  Action = "view_audit_trail"
	ActionViewValuation   Action = "view_valuation"
	ActionExportInventory Action = "export_inventory"
	ActionManageAccounts  Action = "manage_accounts"
)

func (a Action) String() string { return string(a) }

// staffActions is the subset of actions a staff account may perform.
// Admins may perform everything.
var staffActions = map[Action]struct{}{
	ActionViewInventory:   {},
	ActionAddItem:         {},
	ActionAdjustStock:     {},
	ActionRecordWaste:     {},
	ActionViewActivity:    {},
	ActionExportInventory: {},
}

// Authorize checks that the role is allowed to perform the action and
// returns an AuthorizationError naming the denied action otherwise.
func Authorize(role Role, action Action) error {
	if role == RoleAdmin {
		return nil
	}
	if role == RoleStaff {
		if _, ok := staffActions[action]; ok {
			return nil
		}
	}
	return &AuthorizationError{Role: role, Action: action}
}
