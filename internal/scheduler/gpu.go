package scheduler

import (
	"strings"
)

// GpuTier represents the performance tier of a GPU model
type GpuTier int

const (
	TierUnknown GpuTier = iota
	TierEntry           // Consumer/Entry-level GPUs
	TierMid             // Mid-range GPUs (P100, V100, T4, etc.)
	TierHigh            // High-end GPUs (A100, H100, etc.)
)

func (t GpuTier) String() string {
	switch t {
	case TierEntry:
		return "entry"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// GpuModel describes a GPU type workers can be reserved on
type GpuModel struct {
	Type     string   // Canonical GPU type (e.g., "v100")
	Tier     GpuTier  // Performance tier
	MemoryGB int      // Typical memory in GB
	Aliases  []string // Alternative names for this GPU
}

// gpuDatabase is a knowledge base of GPU types found on the supported sites
var gpuDatabase = map[string]GpuModel{
	"h100":  {Type: "h100", Tier: TierHigh, MemoryGB: 80, Aliases: []string{"h100", "hopper"}},
	"a100":  {Type: "a100", Tier: TierHigh, MemoryGB: 40, Aliases: []string{"a100", "ampere"}},
	"v100x": {Type: "v100x", Tier: TierMid, MemoryGB: 32, Aliases: []string{"v100x", "v100sxm2"}},
	"v100":  {Type: "v100", Tier: TierMid, MemoryGB: 16, Aliases: []string{"v100", "volta"}},
	"p100":  {Type: "p100", Tier: TierMid, MemoryGB: 16, Aliases: []string{"p100", "pascal"}},
	"k80":   {Type: "k80", Tier: TierEntry, MemoryGB: 24, Aliases: []string{"k80"}},
	"k20x":  {Type: "k20x", Tier: TierEntry, MemoryGB: 6, Aliases: []string{"k20x", "kepler"}},
}

// NormalizeGpuType normalizes GPU type strings to canonical form
func NormalizeGpuType(gpuType string) string {
	normalized := strings.ToLower(strings.TrimSpace(gpuType))

	// Remove common prefixes/suffixes (before removing dashes)
	normalized = strings.TrimPrefix(normalized, "nvidia-")
	normalized = strings.TrimPrefix(normalized, "nvidia_")
	normalized = strings.TrimPrefix(normalized, "tesla-")
	normalized = strings.TrimPrefix(normalized, "tesla_")
	normalized = strings.TrimSuffix(normalized, "-pcie")

	// Handle common variations
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	// Map aliases to canonical names
	for canonical, model := range gpuDatabase {
		for _, alias := range model.Aliases {
			if normalized == alias {
				return canonical
			}
		}
	}

	return normalized
}

// GetGpuInfo returns the known description of a GPU type.
func GetGpuInfo(gpuType string) (GpuModel, bool) {
	model, ok := gpuDatabase[NormalizeGpuType(gpuType)]
	return model, ok
}
