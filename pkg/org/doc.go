// Package org models an organization chart: people, the groups they belong
// to and who reports to whom.
//
// A [Chart] is a flat list of [Member] values linked by their Manager
// field. Exactly one member has no manager; it is the top of the chart.
// Members of kind [KindGroup] stand for departments or teams and can have
// reports like any manager.
//
// Charts are read from JSON or TOML:
//
//	c, err := org.ReadFile("acme.toml")
//	if err != nil { ... }
//	for _, id := range c.Reports(c.Root()) { ... }
//
// Members without an id are given a random UUID on import.
package org
