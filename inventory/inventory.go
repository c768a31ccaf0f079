package inventory

import (
	"fmt"
	"sort"
)

// Response is the body of GET /users/{username}/inventory.
type Response struct {
	Inventory []CompanyInventory `json:"inventory"`
}

// CompanyInventory holds the inventory entities of a single company, keyed
// by the API entity type.
type CompanyInventory struct {
	CompanyID string            `json:"company_id"`
	Entities  map[string][]Item `json:"entities"`
}

// Item is a transient projection of an inventory entity. Only the display
// name and identifier are carried.
type Item struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// entityTable maps CLI object names to the entity type keys used by the
// inventory endpoint.
var entityTable = map[string]string{
	"catalog":       "IAAS_CATALOG",
	"company":       "COMPANY",
	"edge":          "IAAS_EDGE",
	"location":      "IAAS_LOCATION",
	"media":         "IAAS_MEDIA",
	"network":       "IAAS_INTERNAL_NETWORK",
	"o365_job":      "O365_JOB",
	"o365_location": "O365_LOCATION",
	"o365_org":      "O365_ORGANIZATION",
	"o365_restore":  "O365_RESTORE_SESSION",
	"org":           "IAAS_ORGANIZATION",
	"template":      "IAAS_VAPP_TEMPLATE",
	"vdc":           "IAAS_VDC",
	"vapp":          "IAAS_VAPP",
	"vapp_network":  "IAAS_VAPP_NETWORK",
	"vcc_location":  "VCC_BACKUP_LOCATION",
	"vcc_tenant":    "VCC_BACKUP_TENANT",
	"vpg":           "IAAS_VPG",
	"vm":            "IAAS_VM",
}

// EntityKey returns the API entity type key for a CLI object name.
func EntityKey(object string) (string, error) {
	key, ok := entityTable[object]
	if !ok {
		return "", fmt.Errorf("Unknown object type: %v (valid types: %v)", object, Objects())
	}
	return key, nil
}

// Objects returns the valid CLI object names in sorted order.
func Objects() []string {
	objects := make([]string, 0, len(entityTable))
	for object := range entityTable {
		objects = append(objects, object)
	}
	sort.Strings(objects)
	return objects
}

// Flatten concatenates the named entity list across all companies in the
// inventory, preserving API order.
func Flatten(resp Response, entityKey string) []Item {
	items := []Item{}
	for _, company := range resp.Inventory {
		items = append(items, company.Entities[entityKey]...)
	}
	return items
}
