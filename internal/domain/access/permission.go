package access

import "slices"

// Operation names a single guarded use case
type Operation string

// Operations
const (
	OpUserCreate Operation = "user:create"
	OpUserList   Operation = "user:list"
	OpUserRead   Operation = "user:read"
	OpUserUpdate Operation = "user:update"
	OpUserDelete Operation = "user:delete"

	OpRestaurantCreate Operation = "restaurant:create"
	OpRestaurantList   Operation = "restaurant:list"
	OpRestaurantRead   Operation = "restaurant:read"
	OpRestaurantUpdate Operation = "restaurant:update"
	OpRestaurantDelete Operation = "restaurant:delete"

	OpMenuItemCreate Operation = "menu_item:create"
	OpMenuItemList   Operation = "menu_item:list"
	OpMenuItemRead   Operation = "menu_item:read"
	OpMenuItemUpdate Operation = "menu_item:update"
	OpMenuItemDelete Operation = "menu_item:delete"

	OpOrderCreate       Operation = "order:create"
	OpOrderAddItem      Operation = "order:add_item"
	OpOrderUpdateItem   Operation = "order:update_item"
	OpOrderRemoveItem   Operation = "order:remove_item"
	OpOrderCheckout     Operation = "order:checkout"
	OpOrderCancel       Operation = "order:cancel"
	OpOrderListMine     Operation = "order:list_mine"
	OpOrderList         Operation = "order:list"
	OpOrderRead         Operation = "order:read"
	OpOrderUpdateStatus Operation = "order:update_status"

	OpPaymentMethodCreate Operation = "payment_method:create"
	OpPaymentMethodUpdate Operation = "payment_method:update"
	OpPaymentMethodRead   Operation = "payment_method:read"
	OpPaymentMethodDelete Operation = "payment_method:delete"

	OpAuthMe     Operation = "auth:me"
	OpAuthLogout Operation = "auth:logout"
)

var (
	adminOnly = []Role{RoleAdmin}
	operators = []Role{RoleAdmin, RoleManager}
	everyone  = []Role{RoleAdmin, RoleManager, RoleMember}
)

// permissionTable is the single source of truth for role membership
var permissionTable = map[Operation][]Role{
	OpUserCreate: adminOnly,
	OpUserList:   adminOnly,
	OpUserRead:   adminOnly,
	OpUserUpdate: adminOnly,
	OpUserDelete: adminOnly,

	OpRestaurantCreate: adminOnly,
	OpRestaurantList:   everyone,
	OpRestaurantRead:   everyone,
	OpRestaurantUpdate: adminOnly,
	OpRestaurantDelete: adminOnly,

	OpMenuItemCreate: adminOnly,
	OpMenuItemList:   everyone,
	OpMenuItemRead:   everyone,
	OpMenuItemUpdate: adminOnly,
	OpMenuItemDelete: adminOnly,

	OpOrderCreate:       everyone,
	OpOrderAddItem:      everyone,
	OpOrderUpdateItem:   everyone,
	OpOrderRemoveItem:   everyone,
	OpOrderCheckout:     operators,
	OpOrderCancel:       operators,
	OpOrderListMine:     everyone,
	OpOrderList:         operators,
	OpOrderRead:         everyone,
	OpOrderUpdateStatus: operators,

	OpPaymentMethodCreate: everyone,
	OpPaymentMethodUpdate: adminOnly,
	OpPaymentMethodRead:   everyone,
	OpPaymentMethodDelete: adminOnly,

	OpAuthMe:     everyone,
	OpAuthLogout: everyone,
}

// PermittedRoles returns a copy of the roles allowed to invoke op
func PermittedRoles(op Operation) []Role {
	return slices.Clone(permissionTable[op])
}

// Operations returns every operation in the table, sorted
func Operations() []Operation {
	ops := make([]Operation, 0, len(permissionTable))
	for op := range permissionTable {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Permits reports whether role may invoke op. Unknown operations are denied.
func Permits(role Role, op Operation) bool {
	return slices.Contains(permissionTable[op], role)
}

// Authorize is the role gate run before every guarded operation
func Authorize(p Principal, op Operation) error {
	if !Permits(p.Role, op) {
		return Deny(ReasonRoleDenied).Err()
	}
	return nil
}
