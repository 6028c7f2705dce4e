// Package metrics provides the library's built-in MetricsCollector
// implementations.
package metrics

import "github.com/denispionicul/party/types"

// NopCollector discards all metrics.
//
// This is the default when no collector is configured, eliminating nil
// checks at every record site.
type NopCollector struct{}

// Compile-time assertion that NopCollector implements MetricsCollector.
var _ types.MetricsCollector = (*NopCollector)(nil)

// NewNop creates a collector that discards everything.
func NewNop() *NopCollector {
	return &NopCollector{}
}

// RecordPartyCreated discards the observation.
func (c *NopCollector) RecordPartyCreated(_ types.PartyType) {}

// RecordPartyDestroyed discards the observation.
func (c *NopCollector) RecordPartyDestroyed(_ string) {}

// RecordMemberChange discards the observation.
func (c *NopCollector) RecordMemberChange(_, _ int) {}

// RecordAdmission discards the observation.
func (c *NopCollector) RecordAdmission(_ string) {}

// RecordOwnerChange discards the observation.
func (c *NopCollector) RecordOwnerChange(_ string) {}

// RecordStateTransition discards the observation.
func (c *NopCollector) RecordStateTransition(_, _ types.PartyState) {}

// RecordHandoff discards the observation.
func (c *NopCollector) RecordHandoff(_ string, _ float64) {}

// RecordResolution discards the observation.
func (c *NopCollector) RecordResolution(_ bool, _ float64) {}

// RecordStoreOperation discards the observation.
func (c *NopCollector) RecordStoreOperation(_ string, _ float64) {}
