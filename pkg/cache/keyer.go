package cache

import (
	"fmt"
	"time"
)

// Default time-to-live per key type.
const (
	TTLTable    = time.Hour
	TTLArtifact = 24 * time.Hour
)

// Keyer generates cache keys.
type Keyer interface {
	// TableKey is the key of a resolved table id.
	TableKey(baseID, tableName string) string
	// TablePrefix covers every table key of a base.
	TablePrefix(baseID string) string
	// ArtifactKey is the key of a rendered diagram.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string            `json:"format"`
	Preset   string            `json:"preset"`
	Colors   map[string]string `json:"colors,omitempty"`
	Focus    string            `json:"focus,omitempty"`
	Width    int               `json:"width,omitempty"`
	Scale    float64           `json:"scale,omitempty"`
	Title    string            `json:"title,omitempty"`
	Detailed bool              `json:"detailed,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) TableKey(baseID, tableName string) string {
	return fmt.Sprintf("nocodb:table:%s:%s", baseID, tableName)
}

func (DefaultKeyer) TablePrefix(baseID string) string {
	return fmt.Sprintf("nocodb:table:%s:", baseID)
}

func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
