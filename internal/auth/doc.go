// Package auth implements the role based access control core of the CMMS.
//
// # Roles
//
// Role is a closed enumeration (platform-admin, tenant-admin, user, end-user).
// Display data for every role comes from one table, see Role.Info.
//
// # Grants
//
// A grant is a (role, resource, action, allowed) tuple. Authorization is a flat
// default-deny lookup:
//   - Lookup scans a grant list, the last matching grant decides
//   - GrantTable keeps one grant per triple and answers in constant time
//   - parent resources never pass their grants to children
//
// # Persistence
//
// Service stores the seeded catalog with gorm and answers HasPermission from the
// database. LocalProvider authenticates users stored in the same database with
// Argon2id password hashes.
//
// Example usage:
//
//	allowed := auth.Lookup(grants, auth.RoleTenantAdmin, auth.ResAssets, auth.ActView)
//
//	svc := auth.NewService(db)
//	ok, err := svc.HasPermission(ctx, auth.RoleUser, auth.ResWorkOrders, auth.ActCreate)
package auth
