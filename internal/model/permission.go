package model

// Permission strings checked against the "permissions" claim of an access token.
const (
	PermissionGetInvoice   = "get:invoice"
	PermissionGetRented    = "get:rented"
	PermissionGetRenters   = "get:renters"
	PermissionPostPlants   = "post:plants"
	PermissionPatchPlants  = "patch:plants"
	PermissionDeletePlants = "delete:plants"
)
