package auth

// Resource identifiers of the CMMS modules guarded by the permission matrix.
const (
	// ResDashboard is the landing dashboard.
	ResDashboard = "DASHBOARD"
	// ResAssets is the asset registry.
	ResAssets = "ASSETS"
	// ResWorkOrders holds corrective maintenance work orders.
	ResWorkOrders = "WORK_ORDERS"
	// ResPreventive holds preventive-maintenance schedules.
	ResPreventive = "PM"
	// ResCalibration holds calibration tracking.
	ResCalibration = "CALIBRATION"
	// ResInventory holds store masters and spare parts.
	ResInventory = "INVENTORY"
	// ResTickets is end-user ticketing.
	ResTickets = "TICKETS"
	// ResAdministration groups the administration screens.
	ResAdministration = "ADMINISTRATION"
	// ResOrganizations holds tenant organizations.
	ResOrganizations = "ORGANIZATIONS"
	// ResLocations holds the locations of an organization.
	ResLocations = "LOCATIONS"
	// ResUsers is user administration.
	ResUsers = "USERS"
	// ResPermissions is the permission matrix screen.
	ResPermissions = "PERMISSIONS"
	// ResAudit is the audit log screen.
	ResAudit = "AUDIT"
)

// Action identifiers.
const (
	// ActView allows reading a resource.
	ActView = "view"
	// ActCreate allows creating entries.
	ActCreate = "create"
	// ActEdit allows changing entries.
	ActEdit = "edit"
	// ActDelete allows removing entries.
	ActDelete = "delete"
	// ActApprove allows approving entries (work orders, vouchers).
	ActApprove = "approve"
)
