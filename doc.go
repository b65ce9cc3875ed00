// Package main provides the entry point of cmms-access, the access-control
// service of the biomedical equipment CMMS. It serves the role catalog, the
// resource tree and its permission grants, the role-gated side navigation and
// the permission matrix editor through a Fiber web service backed by gorm, and
// offers check, nav and config commands for operators.
package main
