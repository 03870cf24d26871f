package routing

import (
	"github.com/futurehomeno/cliffhanger/discovery"
)

// GetDiscoveryResource returns a service discovery configuration.
func GetDiscoveryResource() *discovery.Resource {
	return &discovery.Resource{
		ResourceName:           ServiceName,
		ResourceType:           discovery.ResourceTypeAd,
		ResourceFullName:       "Verisure and WE Connect",
		Description:            "Home security installations from Verisure and cars from Volkswagen WE Connect",
		Author:                 "support@futurehome.no",
		IsInstanceConfigurable: false,
		Version:                "1",
		InstanceID:             "1",
		AdapterInfo: discovery.AdapterInfo{
			Technology:            "vwcarnet",
			FwVersion:             "all",
			NetworkManagementType: "full_sync",
		},
	}
}
