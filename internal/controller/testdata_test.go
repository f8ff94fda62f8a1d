package controller

import (
	"errors"

	m "github.com/mouse-blink/interpose/internal/model"
)

func sampleChains() []m.ChainSnapshot {
	return []m.ChainSnapshot{
		{
			Target:            "Compendium.prototype._contextMenu",
			Object:            "Compendium.prototype",
			Member:            "_contextMenu",
			Original:          "_contextMenu",
			OriginalReachable: false,
			Entries: []m.EntrySnapshot{
				{Registration: m.Registration{ID: 1, Owner: "audit", Target: "Compendium.prototype._contextMenu", Mode: m.ModeWrapper}, Reachable: false},
				{Registration: m.Registration{ID: 2, Owner: "menus", Target: "Compendium.prototype._contextMenu", Mode: m.ModeOverride}, Reachable: true},
			},
		},
		{
			Target:            "ModuleManagement.prototype.activateListeners",
			Object:            "ModuleManagement.prototype",
			Member:            "activateListeners",
			Original:          "activateListeners",
			OriginalReachable: true,
			Entries: []m.EntrySnapshot{
				{Registration: m.Registration{ID: 3, Owner: "menus", Target: "ModuleManagement.prototype.activateListeners", Mode: m.ModeWrapper}, Reachable: true},
			},
		},
	}
}

func sampleResults() []m.FeatureResult {
	return []m.FeatureResult{
		{Owner: "menus", Feature: "compendium", Registrations: []m.Registration{{ID: 1}}, Warnings: []string{"shadowed override"}},
		{Owner: "menus", Feature: "legacy", Skipped: true},
		{Owner: "menus", Feature: "broken", Err: errors.New("anchor drift")},
	}
}
