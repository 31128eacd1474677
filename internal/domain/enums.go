package domain

// Role determines which actions an account may perform.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// ItemStatus is the derived state of an inventory item. It is computed
// on read and never stored.
type ItemStatus string

const (
	ItemStatusOK       ItemStatus = "OK"
	ItemStatusLow      ItemStatus = "LOW"
	ItemStatusExpiring ItemStatus = "EXPIRING"
	ItemStatusExpired  ItemStatus = "EXPIRED"
)

func (s ItemStatus) String() string { return string(s) }

// WasteReason categorizes why stock was discarded.
type WasteReason string

const (
	WasteReasonSpill        WasteReason = "SPILL"
	WasteReasonExpired      WasteReason = "EXPIRED"
	WasteReasonQualityIssue WasteReason = "QUALITY_ISSUE"
	WasteReasonDamaged      WasteReason = "DAMAGED"
	WasteReasonOther        WasteReason = "OTHER"
)

func (r WasteReason) String() string { return string(r) }

func (r WasteReason) IsValid() bool {
	switch r {
	case WasteReasonSpill, WasteReasonExpired, WasteReasonQualityIssue,
		WasteReasonDamaged, WasteReasonOther:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit records).
type EntityType string

const (
	EntityTypeAccount EntityType = "ACCOUNT"
	EntityTypeItem    EntityType = "ITEM"
	EntityTypeWaste   EntityType = "WASTE"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeAccount, EntityTypeItem, EntityTypeWaste:
		return true
	}
	return false
}

// AuditAction names the event recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreateItem     AuditAction = "CREATE_ITEM"
	AuditActionUpdateItem     AuditAction = "UPDATE_ITEM"
	AuditActionDeleteItem     AuditAction = "DELETE_ITEM"
	AuditActionAdjustStock    AuditAction = "ADJUST_STOCK"
	AuditActionRecordWaste    AuditAction = "RECORD_WASTE"
	AuditActionCreateAccount  AuditAction = "CREATE_ACCOUNT"
	AuditActionUpdateAccount  AuditAction = "UPDATE_ACCOUNT"
	AuditActionChangePassword AuditAction = "CHANGE_PASSWORD"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionLoginFailed    AuditAction = "LOGIN_FAILED"
	AuditActionLogout         AuditAction = "LOGOUT"
	AuditActionExport         AuditAction = "EXPORT"
)

func (a AuditAction) String() string { return string(a) }

// AppearsInFeed reports whether a live mutation projects the action
// into the activity feed. A rebuild replays exactly this set, so the
// rebuilt feed matches what live projection would have written.
// Security events and audited exports stay out; they live only in the
// audit trail.
func (a AuditAction) AppearsInFeed() bool {
	switch a {
	case AuditActionCreateItem, AuditActionUpdateItem, AuditActionDeleteItem,
		AuditActionAdjustStock, AuditActionRecordWaste:
		return true
	}
	return false
}
