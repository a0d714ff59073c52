package analysis

import (
	"fmt"
	"time"
)

// Recognized keys of the collector metadata bag. Everything else rides along
// untouched in the merged map.
const (
	keyDisplayName    = "display_name"
	keyRegion         = "region"
	keySample         = "sample"
	keyLastModified   = "last_modified"
	keyEtag           = "etag"
	keyChecksum       = "checksum"
	keyVersion        = "version"
	keyMappingLocator = "mapping_locator"
	keySeparatedBy    = "separated_by"

	keyDifferentAccount = "different_account"
	keyDifferentKMSKey  = "different_kms_key"
	keyNetworkBoundary  = "network_boundary"
)

// SeparationSignals are the three independent isolation axes a collector can
// attest for a pseudonymization mapping.
type SeparationSignals struct {
	DifferentAccount bool
	DifferentKMSKey  bool
	NetworkBoundary  bool
}

func (s SeparationSignals) Any() bool {
	return s.DifferentAccount || s.DifferentKMSKey || s.NetworkBoundary
}

// ExtraMeta is the typed view of the merged metadata bag: the recognized keys
// parsed out, plus Raw carrying the full mapping (unrecognized keys included)
// exactly as it will be persisted.
type ExtraMeta struct {
	DisplayName    string
	Region         string
	Sample         string
	LastModified   *time.Time
	Etag           *string
	Checksum       *string
	Version        *string
	MappingLocator string
	SeparatedBy    SeparationSignals

	Raw map[string]any
}

// MergeMeta builds the merged metadata map for one incoming item: the item's
// own metadata wins, display_name and region are filled in only when the
// collector did not already set them.
func MergeMeta(meta map[string]any, name, region string) map[string]any {
	merged := make(map[string]any, len(meta)+2)
	for k, v := range meta {
		merged[k] = v
	}
	putIfAbsent(merged, keyDisplayName, name)
	putIfAbsent(merged, keyRegion, region)
	return merged
}

func putIfAbsent(m map[string]any, key string, val any) {
	if _, ok := m[key]; !ok {
		m[key] = val
	}
}

// ParseExtra coerces the recognized keys out of a merged metadata map.
// Missing or ill-typed values degrade to their zero form; collectors are
// untrusted and a bad field must never fail ingestion.
func ParseExtra(m map[string]any) ExtraMeta {
	extra := ExtraMeta{Raw: m}
	if m == nil {
		extra.Raw = map[string]any{}
		return extra
	}
	extra.DisplayName = stringValue(m[keyDisplayName])
	extra.Region = stringValue(m[keyRegion])
	extra.Sample = stringValue(m[keySample])
	extra.LastModified = ParseLenientTime(stringValue(m[keyLastModified]))
	extra.Etag = stringPtr(m[keyEtag])
	extra.Checksum = stringPtr(m[keyChecksum])
	extra.Version = stringPtr(m[keyVersion])
	extra.MappingLocator = formatValue(m[keyMappingLocator])

	sep := mapValue(m[keySeparatedBy])
	extra.SeparatedBy = SeparationSignals{
		DifferentAccount: boolValue(sep[keyDifferentAccount]),
		DifferentKMSKey:  boolValue(sep[keyDifferentKMSKey]),
		NetworkBoundary:  boolValue(sep[keyNetworkBoundary]),
	}
	return extra
}

// ParseLenientTime parses an ISO-8601 timestamp with offset, accepting a
// trailing "Z" as UTC shorthand. Anything unparseable yields nil.
func ParseLenientTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// formatValue renders any non-nil value as its string form. A mapping
// locator counts as declared no matter what type the collector sent it as.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func stringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func mapValue(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
